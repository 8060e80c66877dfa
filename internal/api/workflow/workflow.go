// Package workflow implements the approval and settlement state machines.
// Every state transition is a single database transaction built from
// conditional writes; external side effects go through the outbox table and
// are published after commit.
package workflow

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/albaworks/albawork-be/internal/api/storage"
	"github.com/google/uuid"
)

// Workflow orchestrates multi-entity state transitions over Storage.
type Workflow struct {
	store  *storage.Storage
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

// Config holds workflow dependencies.
type Config struct {
	Store    *storage.Storage
	Logger   *slog.Logger
	Location *time.Location
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// New creates a Workflow instance.
func New(cfg *Config) *Workflow {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Workflow{
		store:  cfg.Store,
		logger: cfg.Logger,
		loc:    cfg.Location,
		now:    now,
	}
}

// newOutboxEvent builds a pending outbox row with a JSON payload.
func (w *Workflow) newOutboxEvent(eventType string, payload any) (*model.OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return &model.OutboxEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   string(body),
		Status:    domain.EventStatusPending,
		CreatedAt: w.now(),
	}, nil
}

// Event payloads consumed by the notifier service.

type ApplicationSubmittedPayload struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	JobTitle      string `json:"job_title"`
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email"`
	UserName      string `json:"user_name"`
}

type ApplicationApprovedPayload struct {
	ApplicationID string `json:"application_id"`
	JobTitle      string `json:"job_title"`
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email"`
	TotalWage     int64  `json:"total_wage"`
}

type SettlementRequestedPayload struct {
	SettlementID string `json:"settlement_id"`
	UserID       string `json:"user_id"`
	TotalWage    int64  `json:"total_wage"`
}

type SettlementApprovedPayload struct {
	SettlementID string `json:"settlement_id"`
	UserID       string `json:"user_id"`
	TotalWage    int64  `json:"total_wage"`
}
