// Package notifier consumes outbox events from RabbitMQ and delivers the
// external notifications they describe. Delivery is at-least-once on the
// broker side; the delivered-status claim in the database makes the visible
// effect exactly-once.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albaworks/albawork-be/internal/notifier/domain"
	"github.com/albaworks/albawork-be/internal/notifier/storage"
	"github.com/albaworks/albawork-be/shared/rabbitmq"
	"github.com/google/uuid"
)

// Config holds notifier configuration
type Config struct {
	Logger          *slog.Logger
	Storage         *storage.Storage
	RabbitClient    *rabbitmq.Client
	Mailer          Mailer
	AdminAddress    string
	Concurrency     int
	DispatchTimeout time.Duration
	PrefetchCount   int
}

// Notifier consumes event messages and dispatches notifications
type Notifier struct {
	logger          *slog.Logger
	storage         *storage.Storage
	rabbitClient    *rabbitmq.Client
	mailer          Mailer
	adminAddress    string
	concurrency     int
	dispatchTimeout time.Duration
	prefetchCount   int

	consumerID string
	eventsChan chan *domain.EventMessage
	wg         sync.WaitGroup
	stopChan   chan struct{}
}

// New creates a Notifier instance
func New(cfg *Config) *Notifier {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	dispatchTimeout := cfg.DispatchTimeout
	if dispatchTimeout <= 0 {
		dispatchTimeout = 30 * time.Second
	}
	prefetchCount := cfg.PrefetchCount
	if prefetchCount <= 0 {
		prefetchCount = concurrency * 2
	}

	return &Notifier{
		logger:          cfg.Logger,
		storage:         cfg.Storage,
		rabbitClient:    cfg.RabbitClient,
		mailer:          cfg.Mailer,
		adminAddress:    cfg.AdminAddress,
		concurrency:     concurrency,
		dispatchTimeout: dispatchTimeout,
		prefetchCount:   prefetchCount,
		consumerID:      fmt.Sprintf("notifier-%s", uuid.New().String()[:8]),
		eventsChan:      make(chan *domain.EventMessage, concurrency),
		stopChan:        make(chan struct{}),
	}
}

// Start consumes events until ctx is canceled.
func (n *Notifier) Start(ctx context.Context) error {
	n.logger.Info("Starting notifier",
		slog.String("consumer_id", n.consumerID),
		slog.Int("concurrency", n.concurrency),
		slog.Duration("dispatch_timeout", n.dispatchTimeout),
	)

	deliveries, err := n.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	n.spawnWorkerPool(ctx)
	n.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the notifier, waiting for in-flight dispatches.
func (n *Notifier) Stop() {
	n.logger.Info("Stopping notifier...")
	close(n.stopChan)
	n.wg.Wait()
	n.logger.Info("Notifier stopped")
}
