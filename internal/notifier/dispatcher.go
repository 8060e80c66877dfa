package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/albaworks/albawork-be/internal/notifier/domain"
)

// processEvent claims the event and sends the notification it describes.
// The claim runs first so a double-published event is dispatched once; if
// sending then fails, the claim is released and the message requeued.
func (n *Notifier) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	dispatchCtx, cancel := context.WithTimeout(ctx, n.dispatchTimeout)
	defer cancel()

	event, err := n.storage.ClaimEvent(dispatchCtx, msg.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventAlreadyDelivered) {
			n.logger.Warn("Event already delivered, skipping",
				slog.String("event_id", msg.EventID),
			)
			return err
		}
		return domain.NewRetryableError(fmt.Errorf("failed to claim event: %w", err))
	}

	if err := n.dispatch(dispatchCtx, event); err != nil {
		if releaseErr := n.storage.ReleaseEvent(ctx, event.EventID); releaseErr != nil {
			n.logger.Error("Failed to release event after dispatch failure",
				slog.String("event_id", event.EventID),
				slog.String("error", releaseErr.Error()),
			)
		}
		return err
	}

	n.logger.Info("Event dispatched",
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.EventType),
	)
	return nil
}

// Payload shapes written by the API service.

type applicationSubmittedPayload struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	JobTitle      string `json:"job_title"`
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email"`
	UserName      string `json:"user_name"`
}

type applicationApprovedPayload struct {
	ApplicationID string `json:"application_id"`
	JobTitle      string `json:"job_title"`
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email"`
	TotalWage     int64  `json:"total_wage"`
}

type settlementPayload struct {
	SettlementID string `json:"settlement_id"`
	UserID       string `json:"user_id"`
	TotalWage    int64  `json:"total_wage"`
}

func (n *Notifier) dispatch(ctx context.Context, event *domain.Event) error {
	switch event.EventType {
	case domain.EventApplicationSubmitted:
		var p applicationSubmittedPayload
		if err := json.Unmarshal([]byte(event.Payload), &p); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
		subject := fmt.Sprintf("New application for %s", p.JobTitle)
		body := fmt.Sprintf("%s (%s) applied for %q.", p.UserName, p.UserEmail, p.JobTitle)
		return n.send(ctx, n.adminAddress, subject, body)

	case domain.EventApplicationApproved:
		var p applicationApprovedPayload
		if err := json.Unmarshal([]byte(event.Payload), &p); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
		subject := "Your application was approved"
		body := fmt.Sprintf("Your application for %q was approved. Expected pay: %d.", p.JobTitle, p.TotalWage)
		return n.send(ctx, p.UserEmail, subject, body)

	case domain.EventSettlementRequested:
		var p settlementPayload
		if err := json.Unmarshal([]byte(event.Payload), &p); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
		subject := "Settlement requested"
		body := fmt.Sprintf("User %s requested a settlement of %d (settlement %s).", p.UserID, p.TotalWage, p.SettlementID)
		return n.send(ctx, n.adminAddress, subject, body)

	case domain.EventSettlementApproved:
		var p settlementPayload
		if err := json.Unmarshal([]byte(event.Payload), &p); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
		email, err := n.storage.GetUserEmail(ctx, p.UserID)
		if err != nil {
			return domain.NewRetryableError(fmt.Errorf("failed to resolve recipient: %w", err))
		}
		subject := "Settlement completed"
		body := fmt.Sprintf("Your settlement of %d has been paid out.", p.TotalWage)
		return n.send(ctx, email, subject, body)

	default:
		// Unknown types end up here after a deploy skew; ack them so they
		// don't loop through the queue forever.
		n.logger.Warn("Unknown event type, dropping",
			slog.String("event_id", event.EventID),
			slog.String("event_type", event.EventType),
		)
		return nil
	}
}

func (n *Notifier) send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("%w: empty recipient", domain.ErrInvalidPayload)
	}
	if err := n.mailer.Send(ctx, to, subject, body); err != nil {
		return domain.NewRetryableError(fmt.Errorf("failed to send mail: %w", err))
	}
	return nil
}
