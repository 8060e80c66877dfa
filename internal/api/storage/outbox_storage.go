package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// InsertOutboxEvent records an external side effect inside the workflow
// transaction. The relay publishes it after commit, so a flaky broker can
// never block or corrupt a state transition.
func (s *Storage) InsertOutboxEvent(ctx context.Context, q sqlx.ExtContext, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (
			event_id, event_type, payload, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := q.ExecContext(ctx, query,
		event.EventID,
		event.EventType,
		event.Payload,
		event.Status,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	return nil
}

// FetchPendingEvents returns unpublished events oldest-first.
func (s *Storage) FetchPendingEvents(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	query := `
		SELECT event_id, event_type, payload, status, created_at, published_at, delivered_at
		FROM outbox_events
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2
	`

	var events []model.OutboxEvent
	err := s.selectContext(ctx, &events, query, domain.EventStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending events: %w", err)
	}

	return events, nil
}

// MarkEventsPublished transitions the given events to published. Events the
// relay failed to publish stay pending and are retried on the next poll.
func (s *Storage) MarkEventsPublished(ctx context.Context, eventIDs []string, publishedAt time.Time) error {
	if len(eventIDs) == 0 {
		return nil
	}

	query := `
		UPDATE outbox_events
		SET status = $2,
		    published_at = $3
		WHERE event_id = ANY($1)
		  AND status = $4
	`

	_, err := s.db.ExecContext(ctx, query,
		pq.Array(eventIDs), domain.EventStatusPublished, publishedAt, domain.EventStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark events published: %w", err)
	}

	return nil
}
