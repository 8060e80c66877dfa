package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/albaworks/albawork-be/internal/api/dto"
	"github.com/albaworks/albawork-be/internal/api/storage"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJobID   = "3b4f8a10-24cd-4b7e-9f51-0c2a6de9b101"
	testAdminID = "9d2e6c30-88aa-4f10-b4f3-55f0c1d2e301"
)

func newTestHandler(t *testing.T) (*Dependencies, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewStorage(sqlx.NewDb(db, "sqlmock"), logger)

	return &Dependencies{Logger: logger, Store: store}, mock
}

func performRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newJobRouter(deps *Dependencies, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
	})

	h := NewJobHandler(deps)
	r.POST("/jobs", h.CreateJob)
	r.GET("/jobs/:job_id", h.GetJob)
	return r
}

func jobColumns() []string {
	return []string{
		"job_id", "title", "location", "wage", "start_date", "end_date", "work_days",
		"work_hours", "recruit_count", "visibility", "visible_to", "created_by",
		"created_at", "updated_at",
	}
}

func TestGetJob(t *testing.T) {
	deps, mock := newTestHandler(t)
	r := newJobRouter(deps, testAdminID, "admin")

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM job_postings WHERE job_id").
		WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows(jobColumns()).AddRow(
			testJobID, "Warehouse picker", "Incheon", int64(100000),
			time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
			"{mon,tue,wed}", "09:00-18:00", 3, "all", "{}",
			testAdminID, now, now,
		))

	w := performRequest(r, http.MethodGet, "/jobs/"+testJobID, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.JobPostingDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testJobID, resp.JobID)
	assert.Equal(t, "Warehouse picker", resp.Title)
	assert.Equal(t, int64(100000), resp.Wage)
	assert.Equal(t, "2024-06-10", resp.StartDate)
	assert.Equal(t, "2024-06-12", resp.EndDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJobNotFound(t *testing.T) {
	deps, mock := newTestHandler(t)
	r := newJobRouter(deps, testAdminID, "admin")

	mock.ExpectQuery("FROM job_postings WHERE job_id").
		WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows(jobColumns()))

	w := performRequest(r, http.MethodGet, "/jobs/"+testJobID, "")

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJobRejectsMalformedID(t *testing.T) {
	deps, _ := newTestHandler(t)
	r := newJobRouter(deps, testAdminID, "admin")

	w := performRequest(r, http.MethodGet, "/jobs/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateJob(t *testing.T) {
	deps, mock := newTestHandler(t)
	r := newJobRouter(deps, testAdminID, "admin")

	mock.ExpectExec("INSERT INTO job_postings").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{
		"title": "Warehouse picker",
		"location": "Incheon",
		"wage": 100000,
		"start_date": "2024-06-10",
		"end_date": "2024-06-12",
		"work_days": ["mon", "tue", "wed"],
		"work_hours": "09:00-18:00",
		"recruit_count": 3
	}`
	w := performRequest(r, http.MethodPost, "/jobs", body)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.JobPostingDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, "all", resp.Visibility)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJobValidation(t *testing.T) {
	deps, _ := newTestHandler(t)
	r := newJobRouter(deps, testAdminID, "admin")

	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing wage",
			body: `{"title": "x", "start_date": "2024-06-10", "end_date": "2024-06-12"}`,
		},
		{
			name: "end before start",
			body: `{"title": "x", "wage": 100000, "start_date": "2024-06-12", "end_date": "2024-06-10"}`,
		},
		{
			name: "bad date format",
			body: `{"title": "x", "wage": 100000, "start_date": "June 10", "end_date": "2024-06-12"}`,
		},
		{
			name: "custom visibility without targets",
			body: `{"title": "x", "wage": 100000, "start_date": "2024-06-10", "end_date": "2024-06-12", "visibility": "custom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodPost, "/jobs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
