package domain

import "time"

// DayCountInclusive returns the number of calendar days covered by the
// inclusive range [start, end]. Inputs are truncated to calendar dates in
// loc before differencing, so a range of 2024-01-01..2024-01-03 is 3 days
// regardless of the clock time carried by either value.
func DayCountInclusive(start, end time.Time, loc *time.Location) int {
	// Difference in UTC so a DST transition inside the range cannot skew
	// the day count.
	sy, sm, sd := start.In(loc).Date()
	ey, em, ed := end.In(loc).Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// TotalWage computes the wage owed for the inclusive date range at the given
// daily wage.
func TotalWage(dailyWage int64, start, end time.Time, loc *time.Location) int64 {
	return dailyWage * int64(DayCountInclusive(start, end, loc))
}

// DateOnly truncates t to midnight of its calendar date in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
