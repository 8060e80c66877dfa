package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/jmoiron/sqlx"
)

const applicationColumns = `
	application_id, user_id, user_email, job_id, job_title, wage,
	start_date, end_date, status, applied_at, approved_at, total_wage
`

// HasActiveApplication reports whether a non-rejected application already
// exists for the (job, email) pair. Called inside the intake transaction;
// the partial unique index backstops the race.
func (s *Storage) HasActiveApplication(ctx context.Context, q sqlx.ExtContext, jobID, userEmail string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM applications
			WHERE job_id = $1 AND user_email = $2 AND status <> $3
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, query, jobID, userEmail, domain.ApplicationStatusRejected)
	if err != nil {
		return false, fmt.Errorf("failed to check existing application: %w", err)
	}

	return exists, nil
}

func (s *Storage) InsertApplication(ctx context.Context, q sqlx.ExtContext, app *model.Application) error {
	query := `
		INSERT INTO applications (
			application_id, user_id, user_email, job_id, job_title, wage,
			start_date, end_date, status, applied_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)
	`

	_, err := q.ExecContext(ctx, query,
		app.ApplicationID,
		app.UserID,
		app.UserEmail,
		app.JobID,
		app.JobTitle,
		app.Wage,
		app.StartDate,
		app.EndDate,
		app.Status,
		app.AppliedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("application for job %s by %s already exists", app.JobID, app.UserEmail)
		}
		return fmt.Errorf("failed to insert application: %w", err)
	}

	return nil
}

func (s *Storage) GetApplication(ctx context.Context, applicationID string) (*model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE application_id = $1`

	var app model.Application
	err := s.getContext(ctx, &app, query, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("application %s not found", applicationID)
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return &app, nil
}

// GetApplicationForUpdate loads an application with a row lock so the
// approval transaction serializes against concurrent transitions.
func (s *Storage) GetApplicationForUpdate(ctx context.Context, q sqlx.ExtContext, applicationID string) (*model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE application_id = $1 FOR UPDATE`

	var app model.Application
	err := sqlx.GetContext(ctx, q, &app, query, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("application %s not found", applicationID)
		}
		return nil, fmt.Errorf("failed to get application for update: %w", err)
	}

	return &app, nil
}

// TransitionApplication moves an application from pending to the given
// terminal status with a conditional write. Zero rows affected means the
// transition lost a race or the application was already processed.
func (s *Storage) TransitionApplication(ctx context.Context, q sqlx.ExtContext, applicationID, status string, approvedAt time.Time, totalWage int64) error {
	query := `
		UPDATE applications
		SET status = $2,
		    approved_at = $3,
		    total_wage = $4
		WHERE application_id = $1
		  AND status = $5
	`

	var approved interface{}
	var wage interface{}
	if status == domain.ApplicationStatusApproved {
		approved = approvedAt
		wage = totalWage
	}

	result, err := q.ExecContext(ctx, query, applicationID, status, approved, wage, domain.ApplicationStatusPending)
	if err != nil {
		return fmt.Errorf("failed to transition application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Conflict("application %s already processed", applicationID)
	}

	return nil
}

type ApplicationFilter struct {
	JobID     string
	UserEmail string
	Status    string
}

func (s *Storage) ListApplications(ctx context.Context, filter ApplicationFilter) ([]model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.JobID != "" {
		query += fmt.Sprintf(" AND job_id = $%d", argIdx)
		args = append(args, filter.JobID)
		argIdx++
	}

	if filter.UserEmail != "" {
		query += fmt.Sprintf(" AND user_email = $%d", argIdx)
		args = append(args, filter.UserEmail)
		argIdx++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	query += " ORDER BY applied_at DESC"

	var apps []model.Application
	err := s.selectContext(ctx, &apps, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return apps, nil
}
