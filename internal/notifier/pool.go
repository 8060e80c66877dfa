package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/albaworks/albawork-be/internal/notifier/domain"
)

// spawnWorkerPool spawns the dispatch goroutines
func (n *Notifier) spawnWorkerPool(ctx context.Context) {
	n.logger.Info("Spawning worker pool",
		slog.Int("concurrency", n.concurrency),
		slog.String("consumer_id", n.consumerID),
	)

	for i := 0; i < n.concurrency; i++ {
		n.wg.Add(1)
		go n.workerLoop(ctx, i)
	}
}

// workerLoop is the main processing loop for each dispatch goroutine
func (n *Notifier) workerLoop(ctx context.Context, workerNum int) {
	defer n.wg.Done()

	workerName := fmt.Sprintf("%s-%d", n.consumerID, workerNum)
	n.logger.Info("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for {
		select {
		case <-n.stopChan:
			n.logger.Info("Worker goroutine stopping - stopChan closed",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			n.logger.Info("Worker goroutine stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case msg, ok := <-n.eventsChan:
			if !ok {
				n.logger.Info("Worker goroutine stopping - eventsChan closed",
					slog.String("worker_name", workerName),
				)
				return
			}

			err := n.processEvent(ctx, msg)

			channel := n.rabbitClient.GetChannel()
			if channel == nil {
				n.logger.Error("Failed to get RabbitMQ channel for ACK/NACK",
					slog.String("worker_name", workerName),
					slog.String("event_id", msg.EventID),
				)
				continue
			}

			if err != nil {
				n.logger.Error("Event dispatch failed",
					slog.String("worker_name", workerName),
					slog.String("event_id", msg.EventID),
					slog.String("error", err.Error()),
				)

				requeue := n.shouldRequeue(err)
				if nackErr := channel.Nack(msg.DeliveryTag, false, requeue); nackErr != nil {
					n.logger.Error("Failed to NACK message",
						slog.String("worker_name", workerName),
						slog.String("event_id", msg.EventID),
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if ackErr := channel.Ack(msg.DeliveryTag, false); ackErr != nil {
				n.logger.Error("Failed to ACK message",
					slog.String("worker_name", workerName),
					slog.String("event_id", msg.EventID),
					slog.String("error", ackErr.Error()),
				)
			}
		}
	}
}

// shouldRequeue decides the NACK requeue flag from the error type
func (n *Notifier) shouldRequeue(err error) bool {
	// Another consumer already delivered the event
	if errors.Is(err, domain.ErrEventAlreadyDelivered) {
		return false
	}

	// Malformed payloads never become deliverable
	if errors.Is(err, domain.ErrInvalidPayload) {
		return false
	}

	// Transient failures get redelivered
	var retryableErr *domain.RetryableError
	if errors.As(err, &retryableErr) {
		return true
	}

	return false
}
