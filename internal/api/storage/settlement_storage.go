package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/jmoiron/sqlx"
)

const settlementColumns = `
	settlement_id, user_id, total_wage, status, requested_at, approved_at
`

// HasPendingSettlement reports whether the user already has a pending
// settlement. Called inside the request transaction; the partial unique
// index backstops the race.
func (s *Storage) HasPendingSettlement(ctx context.Context, q sqlx.ExtContext, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM settlements
			WHERE user_id = $1 AND status = $2
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, query, userID, domain.SettlementStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to check pending settlement: %w", err)
	}

	return exists, nil
}

func (s *Storage) InsertSettlement(ctx context.Context, q sqlx.ExtContext, settlement *model.Settlement) error {
	query := `
		INSERT INTO settlements (
			settlement_id, user_id, total_wage, status, requested_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := q.ExecContext(ctx, query,
		settlement.SettlementID,
		settlement.UserID,
		settlement.TotalWage,
		settlement.Status,
		settlement.RequestedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("user %s already has a pending settlement", settlement.UserID)
		}
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// InsertSettlementItems snapshots the schedule ids funding a settlement.
func (s *Storage) InsertSettlementItems(ctx context.Context, q sqlx.ExtContext, settlementID string, scheduleIDs []string) error {
	query := `INSERT INTO settlement_items (settlement_id, schedule_id) VALUES ($1, $2)`

	for _, scheduleID := range scheduleIDs {
		if _, err := q.ExecContext(ctx, query, settlementID, scheduleID); err != nil {
			return fmt.Errorf("failed to insert settlement item: %w", err)
		}
	}

	return nil
}

func (s *Storage) GetSettlement(ctx context.Context, settlementID string) (*model.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE settlement_id = $1`

	var settlement model.Settlement
	err := s.getContext(ctx, &settlement, query, settlementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("settlement %s not found", settlementID)
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return &settlement, nil
}

// SettlementItemIDs returns the schedule ids snapshotted for a settlement.
func (s *Storage) SettlementItemIDs(ctx context.Context, q sqlx.ExtContext, settlementID string) ([]string, error) {
	query := `SELECT schedule_id FROM settlement_items WHERE settlement_id = $1 ORDER BY schedule_id`

	var ids []string
	err := sqlx.SelectContext(ctx, q, &ids, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement items: %w", err)
	}

	return ids, nil
}

// TransitionSettlement moves a settlement from pending to the given terminal
// status with a conditional write, same discipline as application
// transitions.
func (s *Storage) TransitionSettlement(ctx context.Context, q sqlx.ExtContext, settlementID, status string, approvedAt time.Time) error {
	query := `
		UPDATE settlements
		SET status = $2,
		    approved_at = $3
		WHERE settlement_id = $1
		  AND status = $4
	`

	var approved interface{}
	if status == domain.SettlementStatusApproved {
		approved = approvedAt
	}

	result, err := q.ExecContext(ctx, query, settlementID, status, approved, domain.SettlementStatusPending)
	if err != nil {
		return fmt.Errorf("failed to transition settlement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Conflict("settlement %s already processed", settlementID)
	}

	return nil
}

type SettlementFilter struct {
	UserID string
	Status string
}

func (s *Storage) ListSettlements(ctx context.Context, filter SettlementFilter) ([]model.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, filter.UserID)
		argIdx++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	query += " ORDER BY requested_at DESC"

	var settlements []model.Settlement
	err := s.selectContext(ctx, &settlements, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	return settlements, nil
}
