package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/dto"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/albaworks/albawork-be/internal/api/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the auth middleware.
const (
	ContextUserID    = "auth_user_id"
	ContextUserEmail = "auth_user_email"
	ContextRole      = "auth_role"
)

const dateLayout = "2006-01-02"

// JobHandler handles job-posting HTTP requests
type JobHandler struct {
	logger *slog.Logger
	store  *storage.Storage
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		store:  deps.Store,
	}
}

// CreateJob handles POST /api/v1/jobs (admin only)
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", slog.String("error", err.Error()))
		writeBadRequest(c, "invalid request body")
		return
	}

	job, err := jobFromRequest(&req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	job.JobID = uuid.New().String()
	job.CreatedBy = c.GetString(ContextUserID)
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt

	if err := h.store.CreateJobPosting(c.Request.Context(), job); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("job posting created",
		slog.String("job_id", job.JobID),
		slog.String("created_by", job.CreatedBy),
	)
	c.JSON(http.StatusCreated, jobToDTO(job))
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		writeBadRequest(c, "job_id must be a valid UUID")
		return
	}

	job, err := h.store.GetJobPosting(c.Request.Context(), jobID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, jobToDTO(job))
}

// UpdateJob handles PUT /api/v1/jobs/:job_id (admin only)
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		writeBadRequest(c, "job_id must be a valid UUID")
		return
	}

	var req dto.UpdateJobPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", slog.String("error", err.Error()))
		writeBadRequest(c, "invalid request body")
		return
	}

	job, err := jobFromRequest((*dto.CreateJobPostingRequest)(&req))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	job.JobID = jobID
	job.UpdatedAt = time.Now()

	if err := h.store.UpdateJobPosting(c.Request.Context(), job); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("job posting updated", slog.String("job_id", jobID))
	c.JSON(http.StatusOK, jobToDTO(job))
}

// ListJobs handles GET /api/v1/jobs
// Regular users only see postings whose visibility includes them.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobPostingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, "invalid query parameters")
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		writeBadRequest(c, "invalid cursor")
		return
	}

	viewerID := c.GetString(ContextUserID)
	if c.GetString(ContextRole) == domain.RoleAdmin {
		viewerID = ""
	}

	jobs, err := h.store.ListJobPostings(c.Request.Context(), storage.JobPostingFilter{
		ViewerID: viewerID,
		PageSize: req.PageSize,
		Cursor:   cursor,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	out := make([]dto.JobPostingDTO, len(jobs))
	for i := range jobs {
		out[i] = *jobToDTO(&jobs[i])
	}

	var nextCursor string
	if hasMore {
		last := jobs[len(jobs)-1]
		nextCursor = EncodeJobCursor(&storage.JobCursor{
			CreatedAt: last.CreatedAt,
			JobID:     last.JobID,
		})
	}

	c.JSON(http.StatusOK, dto.ListJobPostingsResponse{
		Jobs:       out,
		NextCursor: nextCursor,
	})
}

func jobFromRequest(req *dto.CreateJobPostingRequest) (*model.JobPosting, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, domain.InvalidData("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, domain.InvalidData("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, domain.InvalidData("end_date must not precede start_date")
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityAll
	}
	switch visibility {
	case domain.VisibilityAll:
	case domain.VisibilityCustom:
		if len(req.VisibleTo) == 0 {
			return nil, domain.InvalidData("custom visibility requires visible_to")
		}
	default:
		return nil, domain.InvalidData("visibility must be %q or %q", domain.VisibilityAll, domain.VisibilityCustom)
	}

	return &model.JobPosting{
		Title:        req.Title,
		Location:     req.Location,
		Wage:         req.Wage,
		StartDate:    start,
		EndDate:      end,
		WorkDays:     req.WorkDays,
		WorkHours:    req.WorkHours,
		RecruitCount: req.RecruitCount,
		Visibility:   visibility,
		VisibleTo:    req.VisibleTo,
	}, nil
}

func jobToDTO(job *model.JobPosting) *dto.JobPostingDTO {
	return &dto.JobPostingDTO{
		JobID:        job.JobID,
		Title:        job.Title,
		Location:     job.Location,
		Wage:         job.Wage,
		StartDate:    job.StartDate.Format(dateLayout),
		EndDate:      job.EndDate.Format(dateLayout),
		WorkDays:     job.WorkDays,
		WorkHours:    job.WorkHours,
		RecruitCount: job.RecruitCount,
		Visibility:   job.Visibility,
		VisibleTo:    job.VisibleTo,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    job.UpdatedAt.Format(time.RFC3339),
	}
}
