package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/google/uuid"
)

// RequestSettlement creates a pending settlement for the user's accumulated
// schedules. Eligibility, the one-pending invariant, the wage total, and the
// schedule snapshot are all evaluated under row locks in one transaction.
// The total is computed server-side from the locked schedules; a
// client-supplied expectation (non-zero requestedTotal) that disagrees is
// rejected rather than trusted.
func (w *Workflow) RequestSettlement(ctx context.Context, userID string, requestedTotal int64) (*model.Settlement, error) {
	tx, err := w.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	schedules, err := w.store.LockSchedulesForUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, domain.InvalidState("user %s has no schedules to settle", userID)
	}

	// Every scheduled work period must have ended before today at local
	// midnight in the business timezone.
	today := domain.DateOnly(w.now(), w.loc)
	for _, sched := range schedules {
		if !domain.DateOnly(sched.EndDate, w.loc).Before(today) {
			return nil, domain.InvalidState("settlement only available the day after all scheduled work ends")
		}
	}

	pending, err := w.store.HasPendingSettlement(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.Conflict("user %s already has a pending settlement", userID)
	}

	var total int64
	scheduleIDs := make([]string, len(schedules))
	for i, sched := range schedules {
		total += sched.TotalWage
		scheduleIDs[i] = sched.ScheduleID
	}
	if requestedTotal > 0 && requestedTotal != total {
		return nil, domain.InvalidData("requested total %d does not match schedule records (%d)", requestedTotal, total)
	}

	now := w.now()
	settlement := &model.Settlement{
		SettlementID: uuid.New().String(),
		UserID:       userID,
		TotalWage:    total,
		Status:       domain.SettlementStatusPending,
		RequestedAt:  now,
	}

	if err := w.store.InsertSettlement(ctx, tx, settlement); err != nil {
		return nil, err
	}

	if err := w.store.InsertSettlementItems(ctx, tx, settlement.SettlementID, scheduleIDs); err != nil {
		return nil, err
	}

	event, err := w.newOutboxEvent(domain.EventSettlementRequested, SettlementRequestedPayload{
		SettlementID: settlement.SettlementID,
		UserID:       userID,
		TotalWage:    total,
	})
	if err != nil {
		return nil, err
	}
	if err := w.store.InsertOutboxEvent(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement request: %w", err)
	}

	w.logger.Info("Settlement requested",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("user_id", userID),
		slog.Int64("total_wage", total),
		slog.Int("schedule_count", len(scheduleIDs)),
	)

	return settlement, nil
}

// ApproveSettlement transitions a pending settlement to approved and deletes
// exactly the schedules snapshotted at request time, atomically. A crash can
// never leave an approved settlement with its funding schedules alive, or
// the reverse.
func (w *Workflow) ApproveSettlement(ctx context.Context, settlementID string) (*model.Settlement, error) {
	settlement, err := w.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	tx, err := w.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := w.now()

	if err := w.store.TransitionSettlement(ctx, tx, settlementID, domain.SettlementStatusApproved, now); err != nil {
		return nil, err
	}

	scheduleIDs, err := w.store.SettlementItemIDs(ctx, tx, settlementID)
	if err != nil {
		return nil, err
	}

	deleted, err := w.store.DeleteSchedules(ctx, tx, scheduleIDs)
	if err != nil {
		return nil, err
	}

	notification := &model.Notification{
		NotificationID: uuid.New().String(),
		Kind:           domain.NotificationKindPersonal,
		UserID:         sql.NullString{String: settlement.UserID, Valid: true},
		Title:          "Settlement completed",
		Message:        fmt.Sprintf("Your settlement of %d has been approved and paid out.", settlement.TotalWage),
		CreatedAt:      now,
	}
	if err := w.store.InsertNotification(ctx, tx, notification); err != nil {
		return nil, err
	}

	event, err := w.newOutboxEvent(domain.EventSettlementApproved, SettlementApprovedPayload{
		SettlementID: settlementID,
		UserID:       settlement.UserID,
		TotalWage:    settlement.TotalWage,
	})
	if err != nil {
		return nil, err
	}
	if err := w.store.InsertOutboxEvent(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement approval: %w", err)
	}

	w.logger.Info("Settlement approved",
		slog.String("settlement_id", settlementID),
		slog.String("user_id", settlement.UserID),
		slog.Int64("total_wage", settlement.TotalWage),
		slog.Int64("schedules_deleted", deleted),
	)

	settlement.Status = domain.SettlementStatusApproved
	settlement.ApprovedAt = sql.NullTime{Time: now, Valid: true}
	return settlement, nil
}

// RejectSettlement transitions a pending settlement to rejected. Schedules
// stay untouched so the user can request again.
func (w *Workflow) RejectSettlement(ctx context.Context, settlementID string) error {
	if _, err := w.store.GetSettlement(ctx, settlementID); err != nil {
		return err
	}

	if err := w.store.TransitionSettlement(ctx, w.store.DB(), settlementID, domain.SettlementStatusRejected, w.now()); err != nil {
		return err
	}

	w.logger.Info("Settlement rejected",
		slog.String("settlement_id", settlementID),
	)

	return nil
}
