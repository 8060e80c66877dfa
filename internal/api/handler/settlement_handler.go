package handler

import (
	"errors"
	"io"
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

// SettlementHandler handles schedule and settlement HTTP requests
type SettlementHandler struct {
	logger   *slog.Logger
	store    *storage.Storage
	workflow *workflow.Workflow
}

func NewSettlementHandler(deps *Dependencies) *SettlementHandler {
	return &SettlementHandler{
		logger:   deps.Logger,
		store:    deps.Store,
		workflow: deps.Workflow,
	}
}

// ListSchedules handles GET /api/v1/schedules
// Returns the caller's work schedules, newest first.
func (h *SettlementHandler) ListSchedules(c *gin.Context) {
	userID := c.GetString(ContextUserID)

	schedules, err := h.store.ListSchedulesByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	out := make([]dto.ScheduleDTO, len(schedules))
	for i, sched := range schedules {
		out[i] = dto.ScheduleDTO{
			ScheduleID: sched.ScheduleID,
			UserID:     sched.UserID,
			JobID:      sched.JobID,
			Title:      sched.Title,
			Location:   sched.Location,
			StartDate:  sched.StartDate.Format(dateLayout),
			EndDate:    sched.EndDate.Format(dateLayout),
			TotalWage:  sched.TotalWage,
			CreatedAt:  sched.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, dto.ListSchedulesResponse{Schedules: out})
}

// RequestSettlement handles POST /api/v1/settlements
// The body is optional; when present its total is checked against the
// server-side computation.
func (h *SettlementHandler) RequestSettlement(c *gin.Context) {
	var req dto.RequestSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(c, "invalid request body")
		return
	}

	userID := c.GetString(ContextUserID)
	settlement, err := h.workflow.RequestSettlement(c.Request.Context(), userID, req.TotalWage)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("settlement requested",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("user_id", userID),
		slog.Int64("total_wage", settlement.TotalWage),
	)
	c.JSON(http.StatusCreated, settlementToDTO(settlement))
}

// ListSettlements handles GET /api/v1/settlements
// Admins see everything; users see only their own requests.
func (h *SettlementHandler) ListSettlements(c *gin.Context) {
	var req dto.ListSettlementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, "invalid query parameters")
		return
	}

	filter := storage.SettlementFilter{
		UserID: req.UserID,
		Status: req.Status,
	}
	if c.GetString(ContextRole) != domain.RoleAdmin {
		filter.UserID = c.GetString(ContextUserID)
	}

	settlements, err := h.store.ListSettlements(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	out := make([]dto.SettlementDTO, len(settlements))
	for i := range settlements {
		out[i] = *settlementToDTO(&settlements[i])
	}
	c.JSON(http.StatusOK, dto.ListSettlementsResponse{Settlements: out})
}

// ApproveSettlement handles POST /api/v1/settlements/:settlement_id/approve (admin only)
func (h *SettlementHandler) ApproveSettlement(c *gin.Context) {
	settlementID := c.Param("settlement_id")
	if _, err := uuid.Parse(settlementID); err != nil {
		writeBadRequest(c, "settlement_id must be a valid UUID")
		return
	}

	settlement, err := h.workflow.ApproveSettlement(c.Request.Context(), settlementID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("settlement approved", slog.String("settlement_id", settlementID))
	c.JSON(http.StatusOK, settlementToDTO(settlement))
}

// RejectSettlement handles POST /api/v1/settlements/:settlement_id/reject (admin only)
func (h *SettlementHandler) RejectSettlement(c *gin.Context) {
	settlementID := c.Param("settlement_id")
	if _, err := uuid.Parse(settlementID); err != nil {
		writeBadRequest(c, "settlement_id must be a valid UUID")
		return
	}

	if err := h.workflow.RejectSettlement(c.Request.Context(), settlementID); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("settlement rejected", slog.String("settlement_id", settlementID))
	c.JSON(http.StatusOK, gin.H{"settlement_id": settlementID, "status": domain.SettlementStatusRejected})
}

func settlementToDTO(s *model.Settlement) *dto.SettlementDTO {
	out := &dto.SettlementDTO{
		SettlementID: s.SettlementID,
		UserID:       s.UserID,
		TotalWage:    s.TotalWage,
		Status:       s.Status,
		RequestedAt:  s.RequestedAt.Format(time.RFC3339),
	}
	if s.ApprovedAt.Valid {
		out.ApprovedAt = s.ApprovedAt.Time.Format(time.RFC3339)
	}
	return out
}
