package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoadSeoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func TestDayCountInclusive(t *testing.T) {
	loc := mustLoadSeoul(t)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "three day range",
			start: time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			end:   time.Date(2024, 1, 3, 0, 0, 0, 0, loc),
			want:  3,
		},
		{
			name:  "single day",
			start: time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			end:   time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			want:  1,
		},
		{
			name:  "clock time ignored",
			start: time.Date(2024, 1, 1, 23, 59, 0, 0, loc),
			end:   time.Date(2024, 1, 2, 0, 1, 0, 0, loc),
			want:  2,
		},
		{
			name:  "end before start",
			start: time.Date(2024, 1, 5, 0, 0, 0, 0, loc),
			end:   time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			want:  0,
		},
		{
			name:  "month boundary",
			start: time.Date(2024, 1, 30, 0, 0, 0, 0, loc),
			end:   time.Date(2024, 2, 2, 0, 0, 0, 0, loc),
			want:  4,
		},
		{
			name:  "utc timestamp lands on next local day",
			start: time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), // Jan 2 05:00 KST
			end:   time.Date(2024, 1, 3, 0, 0, 0, 0, loc),
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayCountInclusive(tt.start, tt.end, loc))
		})
	}
}

func TestTotalWage(t *testing.T) {
	loc := mustLoadSeoul(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, loc)

	assert.Equal(t, int64(300000), TotalWage(100000, start, end, loc))
	assert.Equal(t, int64(100000), TotalWage(100000, start, start, loc))
	assert.Equal(t, int64(0), TotalWage(100000, end, start, loc))
}

func TestDateOnly(t *testing.T) {
	loc := mustLoadSeoul(t)

	d := DateOnly(time.Date(2024, 3, 15, 18, 30, 45, 12, loc), loc)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, loc), d)

	// A UTC instant late in the day belongs to the following Seoul date.
	d = DateOnly(time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, loc), d)
}
