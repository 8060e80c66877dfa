// Package migrations holds the database schema as an ordered list of
// idempotent DDL statements applied at service start.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id    UUID PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS job_postings (
		job_id        UUID PRIMARY KEY,
		title         TEXT NOT NULL,
		location      TEXT NOT NULL DEFAULT '',
		wage          BIGINT NOT NULL,
		start_date    DATE NOT NULL,
		end_date      DATE NOT NULL,
		work_days     TEXT[] NOT NULL DEFAULT '{}',
		work_hours    TEXT NOT NULL DEFAULT '',
		recruit_count INTEGER NOT NULL DEFAULT 1,
		visibility    TEXT NOT NULL DEFAULT 'all',
		visible_to    TEXT[] NOT NULL DEFAULT '{}',
		created_by    TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS applications (
		application_id UUID PRIMARY KEY,
		user_id        UUID NOT NULL,
		user_email     TEXT NOT NULL,
		job_id         UUID NOT NULL,
		job_title      TEXT NOT NULL,
		wage           BIGINT NOT NULL,
		start_date     DATE NOT NULL,
		end_date       DATE NOT NULL,
		status         TEXT NOT NULL DEFAULT 'pending',
		applied_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		approved_at    TIMESTAMPTZ,
		total_wage     BIGINT
	)`,

	// Backstop for the duplicate-application invariant: at most one
	// non-rejected application per (job, applicant email).
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_active
		ON applications (job_id, user_email)
		WHERE status <> 'rejected'`,

	`CREATE TABLE IF NOT EXISTS schedules (
		schedule_id UUID PRIMARY KEY,
		user_id     UUID NOT NULL,
		user_email  TEXT NOT NULL,
		job_id      UUID NOT NULL,
		title       TEXT NOT NULL,
		location    TEXT NOT NULL DEFAULT '',
		total_wage  BIGINT NOT NULL,
		start_date  DATE NOT NULL,
		end_date    DATE NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedules_user ON schedules (user_id)`,

	`CREATE TABLE IF NOT EXISTS settlements (
		settlement_id UUID PRIMARY KEY,
		user_id       UUID NOT NULL,
		total_wage    BIGINT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'pending',
		requested_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		approved_at   TIMESTAMPTZ
	)`,

	// Backstop for the one-pending-settlement-per-user invariant.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_settlements_pending
		ON settlements (user_id)
		WHERE status = 'pending'`,

	// Snapshot of the schedule ids funding a settlement, taken at request
	// time. Approval deletes exactly these schedules.
	`CREATE TABLE IF NOT EXISTS settlement_items (
		settlement_id UUID NOT NULL,
		schedule_id   UUID NOT NULL,
		PRIMARY KEY (settlement_id, schedule_id)
	)`,

	`CREATE TABLE IF NOT EXISTS chat_rooms (
		room_id      UUID PRIMARY KEY,
		name         TEXT NOT NULL,
		room_type    TEXT NOT NULL,
		job_id       UUID,
		participants TEXT[] NOT NULL DEFAULT '{}',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_chat_rooms_notice
		ON chat_rooms (job_id)
		WHERE room_type = 'notice'`,

	`CREATE TABLE IF NOT EXISTS chat_messages (
		message_id  UUID PRIMARY KEY,
		room_id     UUID NOT NULL,
		sender_id   TEXT NOT NULL,
		sender_name TEXT NOT NULL DEFAULT '',
		body        TEXT NOT NULL,
		is_system   BOOLEAN NOT NULL DEFAULT FALSE,
		read_by     TEXT[] NOT NULL DEFAULT '{}',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_chat_messages_room
		ON chat_messages (room_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		notification_id UUID PRIMARY KEY,
		kind            TEXT NOT NULL,
		user_id         UUID,
		title           TEXT NOT NULL DEFAULT '',
		message         TEXT NOT NULL,
		read            BOOLEAN NOT NULL DEFAULT FALSE,
		read_by         TEXT[] NOT NULL DEFAULT '{}',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_user
		ON notifications (user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS outbox_events (
		event_id     UUID PRIMARY KEY,
		event_type   TEXT NOT NULL,
		payload      TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		published_at TIMESTAMPTZ,
		delivered_at TIMESTAMPTZ
	)`,

	`CREATE INDEX IF NOT EXISTS idx_outbox_pending
		ON outbox_events (created_at)
		WHERE status = 'pending'`,
}

// Apply executes every schema statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}

// Count returns the number of schema statements. Used by tests.
func Count() int {
	return len(statements)
}
