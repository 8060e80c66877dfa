package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/dto"
	"github.com/albaworks/albawork-be/internal/api/storage"
	"github.com/albaworks/albawork-be/internal/api/workflow"
	"github.com/gin-gonic/gin"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger   *slog.Logger
	Store    *storage.Storage
	Workflow *workflow.Workflow
}

// writeError translates a domain error into an HTTP response. Errors
// without a domain code map to 503 and get logged with full detail.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	code := domain.CodeOf(err)

	var status int
	switch code {
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeConflict:
		status = http.StatusConflict
	case domain.CodeInvalidData, domain.CodeInvalidState:
		status = http.StatusBadRequest
	default:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusServiceUnavailable {
		logger.Error("request failed", slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Code: domain.CodeUnavailable, Message: "temporary failure, retry later"})
		return
	}

	var derr *domain.Error
	message := err.Error()
	if errors.As(err, &derr) {
		message = derr.Message
	}
	c.JSON(status, dto.ErrorResponse{Code: code, Message: message})
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: domain.CodeInvalidData, Message: message})
}
