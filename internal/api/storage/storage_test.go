package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testApplicationID = "4a7c9e12-0000-4000-8000-000000000001"
	testWorkerID      = "4a7c9e12-0000-4000-8000-000000000002"
)

func newTestStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStorage(sqlx.NewDb(db, "sqlmock"), logger), mock
}

func applicationRows() *sqlmock.Rows {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"application_id", "user_id", "user_email", "job_id", "job_title", "wage",
		"start_date", "end_date", "status", "applied_at", "approved_at", "total_wage",
	}).AddRow(
		testApplicationID, testWorkerID, "worker@albawork.kr",
		"4a7c9e12-0000-4000-8000-000000000003", "Cafe staff", int64(100000),
		start, start.AddDate(0, 0, 2), domain.ApplicationStatusPending,
		start, nil, nil,
	)
}

// A read that fails once and succeeds on the second attempt surfaces no
// error to the caller.
func TestGetApplicationRetriesTransientFailure(t *testing.T) {
	store, mock := newTestStorage(t)

	mock.ExpectQuery("FROM applications WHERE application_id").
		WithArgs(testApplicationID).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectQuery("FROM applications WHERE application_id").
		WithArgs(testApplicationID).
		WillReturnRows(applicationRows())

	app, err := store.GetApplication(context.Background(), testApplicationID)
	require.NoError(t, err)
	assert.Equal(t, testApplicationID, app.ApplicationID)
	assert.Equal(t, "worker@albawork.kr", app.UserEmail)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A missing row is a result, not a transient failure; the lookup runs once.
// A retry here would run past the single expectation and turn the NotFound
// into an Unavailable.
func TestGetApplicationDoesNotRetryMissingRow(t *testing.T) {
	store, mock := newTestStorage(t)

	mock.ExpectQuery("FROM applications WHERE application_id").
		WithArgs(testApplicationID).
		WillReturnRows(sqlmock.NewRows([]string{"application_id"}))

	_, err := store.GetApplication(context.Background(), testApplicationID)
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicationSurfacesPersistentFailure(t *testing.T) {
	store, mock := newTestStorage(t)

	mock.ExpectQuery("FROM applications WHERE application_id").
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectQuery("FROM applications WHERE application_id").
		WillReturnError(errors.New("connection reset by peer"))

	_, err := store.GetApplication(context.Background(), testApplicationID)
	require.Error(t, err)
	assert.Equal(t, domain.CodeUnavailable, domain.CodeOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicationsRetriesTransientFailure(t *testing.T) {
	store, mock := newTestStorage(t)

	mock.ExpectQuery("FROM applications WHERE 1=1").
		WithArgs("worker@albawork.kr").
		WillReturnError(errors.New("driver: bad connection"))
	mock.ExpectQuery("FROM applications WHERE 1=1").
		WithArgs("worker@albawork.kr").
		WillReturnRows(applicationRows())

	apps, err := store.ListApplications(context.Background(), ApplicationFilter{UserEmail: "worker@albawork.kr"})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, testApplicationID, apps[0].ApplicationID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
