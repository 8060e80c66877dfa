package workflow

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/albaworks/albawork-be/internal/api/storage"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// fixedNow is the injected clock for every workflow test: 2024-06-10 in
// Seoul.
func fixedNow(t *testing.T) (time.Time, *time.Location) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return time.Date(2024, 6, 10, 14, 0, 0, 0, loc), loc
}

func newTestWorkflow(t *testing.T) (*Workflow, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewStorage(sqlx.NewDb(db, "sqlmock"), logger)

	now, loc := fixedNow(t)
	wf := New(&Config{
		Store:    store,
		Logger:   logger,
		Location: loc,
		Now:      func() time.Time { return now },
	})

	return wf, mock
}

func applicationColumns() []string {
	return []string{
		"application_id", "user_id", "user_email", "job_id", "job_title", "wage",
		"start_date", "end_date", "status", "applied_at", "approved_at", "total_wage",
	}
}

func jobPostingColumns() []string {
	return []string{
		"job_id", "title", "location", "wage", "start_date", "end_date", "work_days",
		"work_hours", "recruit_count", "visibility", "visible_to", "created_by",
		"created_at", "updated_at",
	}
}

func scheduleColumns() []string {
	return []string{
		"schedule_id", "user_id", "user_email", "job_id", "title", "location",
		"total_wage", "start_date", "end_date", "created_at",
	}
}

func settlementColumns() []string {
	return []string{
		"settlement_id", "user_id", "total_wage", "status", "requested_at", "approved_at",
	}
}
