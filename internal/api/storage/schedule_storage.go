package storage

import (
	"context"
	"fmt"

	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const scheduleColumns = `
	schedule_id, user_id, user_email, job_id, title, location,
	total_wage, start_date, end_date, created_at
`

func (s *Storage) InsertSchedule(ctx context.Context, q sqlx.ExtContext, sched *model.Schedule) error {
	query := `
		INSERT INTO schedules (
			schedule_id, user_id, user_email, job_id, title, location,
			total_wage, start_date, end_date, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)
	`

	_, err := q.ExecContext(ctx, query,
		sched.ScheduleID,
		sched.UserID,
		sched.UserEmail,
		sched.JobID,
		sched.Title,
		sched.Location,
		sched.TotalWage,
		sched.StartDate,
		sched.EndDate,
		sched.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	return nil
}

func (s *Storage) ListSchedulesByUser(ctx context.Context, userID string) ([]model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE user_id = $1 ORDER BY start_date`

	var schedules []model.Schedule
	err := s.selectContext(ctx, &schedules, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	return schedules, nil
}

// LockSchedulesForUser loads and row-locks every schedule belonging to the
// user. The settlement request transaction uses the locked rows both for the
// eligibility check and the server-side wage sum.
func (s *Storage) LockSchedulesForUser(ctx context.Context, q sqlx.ExtContext, userID string) ([]model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE user_id = $1 ORDER BY schedule_id FOR UPDATE`

	var schedules []model.Schedule
	err := sqlx.SelectContext(ctx, q, &schedules, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock schedules: %w", err)
	}

	return schedules, nil
}

// DeleteSchedules removes exactly the given schedule ids. Settlement
// approval passes the snapshot recorded at request time, never a broad
// per-user delete.
func (s *Storage) DeleteSchedules(ctx context.Context, q sqlx.ExtContext, scheduleIDs []string) (int64, error) {
	if len(scheduleIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM schedules WHERE schedule_id = ANY($1)`

	result, err := q.ExecContext(ctx, query, pq.Array(scheduleIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete schedules: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
