// Package outbox moves committed workflow events onto the message broker.
// Events are written to the outbox_events table in the same transaction as
// the state change they describe; the relay drains that table and publishes
// each event id to RabbitMQ, so a broker outage never loses an event.
package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/albaworks/albawork-be/internal/api/storage"
)

// Publisher is the broker-facing surface the relay needs.
type Publisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Message is the broker payload: the event id only. Consumers load the full
// event row themselves, which also gives them a claim point for dedupe.
type Message struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
}

type Relay struct {
	store     *storage.Storage
	publisher Publisher
	logger    *slog.Logger

	pollInterval time.Duration
	batchSize    int
}

type Config struct {
	Store        *storage.Storage
	Publisher    Publisher
	Logger       *slog.Logger
	PollInterval time.Duration
	BatchSize    int
}

func NewRelay(cfg Config) *Relay {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	return &Relay{
		store:        cfg.Store,
		publisher:    cfg.Publisher,
		logger:       cfg.Logger,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

// Run drains the outbox until ctx is canceled. Intended to be started as a
// goroutine next to the HTTP server.
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("outbox relay started",
		slog.Duration("poll_interval", r.pollInterval),
		slog.Int("batch_size", r.batchSize),
	)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.DrainOnce(ctx); err != nil {
				r.logger.Error("outbox drain failed", slog.String("error", err.Error()))
			}
		}
	}
}

// DrainOnce publishes one batch of pending events. Events that fail to
// publish stay pending and are retried on the next tick; events published
// more than once are deduplicated by the consumer's delivery claim.
func (r *Relay) DrainOnce(ctx context.Context) error {
	events, err := r.store.FetchPendingEvents(ctx, r.batchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	published := make([]string, 0, len(events))
	for _, event := range events {
		body, err := json.Marshal(Message{
			EventID:   event.EventID,
			EventType: event.EventType,
		})
		if err != nil {
			r.logger.Error("failed to encode outbox message",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := r.publisher.PublishWithRetry(ctx, body, "application/json"); err != nil {
			r.logger.Error("failed to publish outbox event",
				slog.String("event_id", event.EventID),
				slog.String("event_type", event.EventType),
				slog.String("error", err.Error()),
			)
			// Publish order is creation order; stop at the first failure so
			// the batch is retried from here next tick.
			break
		}

		published = append(published, event.EventID)
	}

	if len(published) == 0 {
		return nil
	}

	if err := r.store.MarkEventsPublished(ctx, published, time.Now()); err != nil {
		return err
	}

	r.logger.Debug("outbox batch published", slog.Int("count", len(published)))
	return nil
}
