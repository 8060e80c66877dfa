package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/albaworks/albawork-be/internal/notifier/domain"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the notifier
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// ClaimEvent marks the event delivered with a conditional write. Exactly one
// consumer wins even when the relay published the event twice; losers get
// ErrEventAlreadyDelivered and drop the message.
func (s *Storage) ClaimEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	query := `
		UPDATE outbox_events
		SET status = $1,
		    delivered_at = NOW()
		WHERE event_id = $2
		  AND status IN ($3, $4)
		RETURNING event_id, event_type, payload
	`

	var event domain.Event
	err := s.db.QueryRowContext(ctx, query,
		domain.EventStatusDelivered,
		eventID,
		domain.EventStatusPending,
		domain.EventStatusPublished,
	).Scan(
		&event.EventID,
		&event.EventType,
		&event.Payload,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Failed to claim event - already delivered or not found",
				slog.String("event_id", eventID),
			)
			return nil, domain.ErrEventAlreadyDelivered
		}
		return nil, fmt.Errorf("failed to claim event: %w", err)
	}

	s.logger.Info("Event claimed successfully",
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.EventType),
	)

	return &event, nil
}

// ReleaseEvent moves a claimed event back to published so a redelivery can
// retry it after a dispatch failure.
func (s *Storage) ReleaseEvent(ctx context.Context, eventID string) error {
	query := `
		UPDATE outbox_events
		SET status = $1,
		    delivered_at = NULL
		WHERE event_id = $2
		  AND status = $3
	`

	_, err := s.db.ExecContext(ctx, query,
		domain.EventStatusPublished,
		eventID,
		domain.EventStatusDelivered,
	)
	if err != nil {
		return fmt.Errorf("failed to release event: %w", err)
	}

	return nil
}

// GetUserEmail resolves a user id to the address notifications go to.
func (s *Storage) GetUserEmail(ctx context.Context, userID string) (string, error) {
	query := `SELECT email FROM users WHERE user_id = $1`

	var email string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("user %s not found", userID)
		}
		return "", fmt.Errorf("failed to get user email: %w", err)
	}

	return email, nil
}
