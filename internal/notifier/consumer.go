package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/albaworks/albawork-be/internal/notifier/domain"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer configures QoS and returns the delivery channel
func (n *Notifier) setupConsumer() (<-chan amqp.Delivery, error) {
	channel := n.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	// prefetch bounds unacknowledged messages per consumer
	err := channel.Qos(
		n.prefetchCount, // prefetch count
		0,               // prefetch size
		false,           // global
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	n.logger.Info("RabbitMQ QoS configured",
		slog.Int("prefetch_count", n.prefetchCount),
	)

	// Manual acknowledgment: a message is acked only after the event claim
	// and dispatch both finished.
	deliveries, err := n.rabbitClient.Consume(n.consumerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	n.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", n.consumerID),
	)

	return deliveries, nil
}

// startMessageDispatcher reads deliveries and feeds the worker pool
func (n *Notifier) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	n.logger.Info("Message dispatcher started",
		slog.String("consumer_id", n.consumerID),
	)

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Message dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				n.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			var msg domain.EventMessage
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				n.logger.Error("Failed to parse message JSON",
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				// NACK without requeue - malformed messages go to the DLQ
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					n.logger.Error("Failed to NACK malformed message",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if _, err := uuid.Parse(msg.EventID); err != nil {
				n.logger.Error("Invalid event_id format - not a UUID",
					slog.String("event_id", msg.EventID),
					slog.String("error", err.Error()),
				)
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					n.logger.Error("Failed to NACK message with invalid event_id",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			msg.DeliveryTag = delivery.DeliveryTag

			select {
			case n.eventsChan <- &msg:
				n.logger.Debug("Event dispatched to worker pool",
					slog.String("event_id", msg.EventID),
					slog.Uint64("delivery_tag", msg.DeliveryTag),
				)
			case <-ctx.Done():
				n.logger.Info("Message dispatcher stopped while dispatching event")
				// NACK with requeue so another consumer picks it up
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					n.logger.Error("Failed to NACK message on shutdown",
						slog.String("error", nackErr.Error()),
					)
				}
				return
			}
		}
	}
}
