package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/dto"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/albaworks/albawork-be/internal/api/storage"
	"github.com/albaworks/albawork-be/internal/api/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApplicationHandler handles application HTTP requests
type ApplicationHandler struct {
	logger   *slog.Logger
	store    *storage.Storage
	workflow *workflow.Workflow
}

func NewApplicationHandler(deps *Dependencies) *ApplicationHandler {
	return &ApplicationHandler{
		logger:   deps.Logger,
		store:    deps.Store,
		workflow: deps.Workflow,
	}
}

// SubmitApplication handles POST /api/v1/applications
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}
	if _, err := uuid.Parse(req.JobID); err != nil {
		writeBadRequest(c, "job_id must be a valid UUID")
		return
	}

	userEmail := c.GetString(ContextUserEmail)
	app, err := h.workflow.SubmitApplication(c.Request.Context(), req.JobID, userEmail)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("application submitted",
		slog.String("application_id", app.ApplicationID),
		slog.String("job_id", app.JobID),
		slog.String("user_email", app.UserEmail),
	)
	c.JSON(http.StatusCreated, applicationToDTO(app))
}

// ListApplications handles GET /api/v1/applications
// Admins see everything and may filter by job; users see only their own.
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var req dto.ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, "invalid query parameters")
		return
	}

	filter := storage.ApplicationFilter{
		JobID:  req.JobID,
		Status: req.Status,
	}
	if c.GetString(ContextRole) != domain.RoleAdmin {
		filter.UserEmail = c.GetString(ContextUserEmail)
	}

	apps, err := h.store.ListApplications(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	out := make([]dto.ApplicationDTO, len(apps))
	for i := range apps {
		out[i] = *applicationToDTO(&apps[i])
	}
	c.JSON(http.StatusOK, dto.ListApplicationsResponse{Applications: out})
}

// ApproveApplication handles POST /api/v1/applications/:application_id/approve (admin only)
func (h *ApplicationHandler) ApproveApplication(c *gin.Context) {
	applicationID := c.Param("application_id")
	if _, err := uuid.Parse(applicationID); err != nil {
		writeBadRequest(c, "application_id must be a valid UUID")
		return
	}

	app, err := h.workflow.ApproveApplication(c.Request.Context(), applicationID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("application approved",
		slog.String("application_id", applicationID),
		slog.Int64("total_wage", app.TotalWage.Int64),
	)
	c.JSON(http.StatusOK, applicationToDTO(app))
}

// RejectApplication handles POST /api/v1/applications/:application_id/reject (admin only)
func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	applicationID := c.Param("application_id")
	if _, err := uuid.Parse(applicationID); err != nil {
		writeBadRequest(c, "application_id must be a valid UUID")
		return
	}

	if err := h.workflow.RejectApplication(c.Request.Context(), applicationID); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("application rejected", slog.String("application_id", applicationID))
	c.JSON(http.StatusOK, gin.H{"application_id": applicationID, "status": domain.ApplicationStatusRejected})
}

func applicationToDTO(app *model.Application) *dto.ApplicationDTO {
	out := &dto.ApplicationDTO{
		ApplicationID: app.ApplicationID,
		JobID:         app.JobID,
		UserID:        app.UserID,
		UserEmail:     app.UserEmail,
		JobTitle:      app.JobTitle,
		Wage:          app.Wage,
		StartDate:     app.StartDate.Format(dateLayout),
		EndDate:       app.EndDate.Format(dateLayout),
		Status:        app.Status,
		AppliedAt:     app.AppliedAt.Format(time.RFC3339),
	}
	if app.ApprovedAt.Valid {
		out.ApprovedAt = app.ApprovedAt.Time.Format(time.RFC3339)
	}
	if app.TotalWage.Valid {
		total := app.TotalWage.Int64
		out.TotalWage = &total
	}
	return out
}
