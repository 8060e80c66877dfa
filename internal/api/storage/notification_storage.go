package storage

import (
	"context"
	"fmt"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/jmoiron/sqlx"
)

const notificationColumns = `
	notification_id, kind, user_id, title, message, read, read_by, created_at
`

func (s *Storage) InsertNotification(ctx context.Context, q sqlx.ExtContext, n *model.Notification) error {
	query := `
		INSERT INTO notifications (
			notification_id, kind, user_id, title, message, read, read_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := q.ExecContext(ctx, query,
		n.NotificationID,
		n.Kind,
		n.UserID,
		n.Title,
		n.Message,
		n.Read,
		n.ReadBy,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// ListNotificationsForUser returns the user's personal notifications plus
// every global notification, newest first.
func (s *Storage) ListNotificationsForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE (kind = $1 AND user_id = $2) OR kind = $3
		ORDER BY created_at DESC
	`

	var notifications []model.Notification
	err := s.selectContext(ctx, &notifications, query,
		domain.NotificationKindPersonal, userID, domain.NotificationKindGlobal)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead flips the read flag on a personal notification or
// unions the user into read_by on a global one. Both forms are idempotent.
func (s *Storage) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	query := `
		UPDATE notifications
		SET read = CASE WHEN kind = $3 THEN TRUE ELSE read END,
		    read_by = CASE
		        WHEN kind = $4 AND NOT ($2 = ANY(read_by)) THEN array_append(read_by, $2)
		        ELSE read_by
		    END
		WHERE notification_id = $1
		  AND (kind = $4 OR user_id = $2)
	`

	result, err := s.db.ExecContext(ctx, query, notificationID, userID,
		domain.NotificationKindPersonal, domain.NotificationKindGlobal)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.NotFound("notification %s not found for user %s", notificationID, userID)
	}

	return nil
}
