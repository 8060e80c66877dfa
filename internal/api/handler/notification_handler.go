package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/albaworks/albawork-be/internal/api/dto"
	"github.com/albaworks/albawork-be/internal/api/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	logger *slog.Logger
	store  *storage.Storage
}

func NewNotificationHandler(deps *Dependencies) *NotificationHandler {
	return &NotificationHandler{
		logger: deps.Logger,
		store:  deps.Store,
	}
}

// ListNotifications handles GET /api/v1/notifications
// Returns the caller's personal notifications merged with global ones.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetString(ContextUserID)

	notifications, err := h.store.ListNotificationsForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	out := make([]dto.NotificationDTO, len(notifications))
	for i, n := range notifications {
		read := n.Read
		if !n.UserID.Valid {
			read = false
			for _, reader := range n.ReadBy {
				if reader == userID {
					read = true
					break
				}
			}
		}
		out[i] = dto.NotificationDTO{
			NotificationID: n.NotificationID,
			Kind:           n.Kind,
			Title:          n.Title,
			Message:        n.Message,
			Read:           read,
			CreatedAt:      n.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, dto.ListNotificationsResponse{Notifications: out})
}

// MarkRead handles POST /api/v1/notifications/:notification_id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID := c.Param("notification_id")
	if _, err := uuid.Parse(notificationID); err != nil {
		writeBadRequest(c, "notification_id must be a valid UUID")
		return
	}

	userID := c.GetString(ContextUserID)
	if err := h.store.MarkNotificationRead(c.Request.Context(), notificationID, userID); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification_id": notificationID, "read": true})
}
