package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
)

const jobPostingColumns = `
	job_id, title, location, wage, start_date, end_date, work_days,
	work_hours, recruit_count, visibility, visible_to, created_by,
	created_at, updated_at
`

func (s *Storage) CreateJobPosting(ctx context.Context, job *model.JobPosting) error {
	query := `
		INSERT INTO job_postings (
			job_id, title, location, wage, start_date, end_date, work_days,
			work_hours, recruit_count, visibility, visible_to, created_by,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.JobID,
		job.Title,
		job.Location,
		job.Wage,
		job.StartDate,
		job.EndDate,
		job.WorkDays,
		job.WorkHours,
		job.RecruitCount,
		job.Visibility,
		job.VisibleTo,
		job.CreatedBy,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}

	return nil
}

func (s *Storage) GetJobPosting(ctx context.Context, jobID string) (*model.JobPosting, error) {
	query := `SELECT ` + jobPostingColumns + ` FROM job_postings WHERE job_id = $1`

	var job model.JobPosting
	err := s.getContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("job posting %s not found", jobID)
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}

	return &job, nil
}

func (s *Storage) UpdateJobPosting(ctx context.Context, job *model.JobPosting) error {
	query := `
		UPDATE job_postings
		SET title = $2,
		    location = $3,
		    wage = $4,
		    start_date = $5,
		    end_date = $6,
		    work_days = $7,
		    work_hours = $8,
		    recruit_count = $9,
		    visibility = $10,
		    visible_to = $11,
		    updated_at = NOW()
		WHERE job_id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		job.JobID,
		job.Title,
		job.Location,
		job.Wage,
		job.StartDate,
		job.EndDate,
		job.WorkDays,
		job.WorkHours,
		job.RecruitCount,
		job.Visibility,
		job.VisibleTo,
	)
	if err != nil {
		return fmt.Errorf("failed to update job posting: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.NotFound("job posting %s not found", job.JobID)
	}

	return nil
}

type JobPostingFilter struct {
	ViewerID string
	PageSize int
	Cursor   *JobCursor
}

type JobCursor struct {
	CreatedAt time.Time
	JobID     string
}

// ListJobPostings returns postings visible to the viewer: every posting with
// the "all" sentinel plus those whose visible_to list contains the viewer.
// An empty ViewerID (admin listing) returns everything.
func (s *Storage) ListJobPostings(ctx context.Context, filter JobPostingFilter) ([]model.JobPosting, error) {
	query := `SELECT ` + jobPostingColumns + ` FROM job_postings WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.ViewerID != "" {
		query += fmt.Sprintf(" AND (visibility = '%s' OR $%d = ANY(visible_to))", domain.VisibilityAll, argIdx)
		args = append(args, filter.ViewerID)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, job_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.JobID)
		argIdx += 2
	}

	// Order by created_at DESC, job_id DESC for consistent pagination
	query += " ORDER BY created_at DESC, job_id DESC"

	// Fetch one extra to determine if there are more results
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var jobs []model.JobPosting
	err := s.selectContext(ctx, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}

	return jobs, nil
}
