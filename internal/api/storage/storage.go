package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Storage handles all database operations for the API service. Methods that
// participate in a workflow transaction take a sqlx.ExtContext so they run
// against either the pool or an open transaction.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// DB returns the underlying database handle.
func (s *Storage) DB() *sqlx.DB {
	return s.db
}

// BeginTx starts a new transaction
func (s *Storage) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// getContext runs a single-row read against the pool, retrying once when
// the first attempt fails. Reads are idempotent so one transparent retry is
// safe; sql.ErrNoRows is a result, not a failure, and a canceled context is
// returned as-is.
func (s *Storage) getContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := s.db.GetContext(ctx, dest, query, args...)
	if err == nil || errors.Is(err, sql.ErrNoRows) || ctx.Err() != nil {
		return err
	}

	s.logger.Warn("Read failed, retrying once",
		slog.String("error", err.Error()),
	)
	return s.db.GetContext(ctx, dest, query, args...)
}

// selectContext is the multi-row counterpart of getContext.
func (s *Storage) selectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := s.db.SelectContext(ctx, dest, query, args...)
	if err == nil || ctx.Err() != nil {
		return err
	}

	s.logger.Warn("Read failed, retrying once",
		slog.String("error", err.Error()),
	)
	return s.db.SelectContext(ctx, dest, query, args...)
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. The partial unique indexes backstop invariants that are also
// checked transactionally, so callers translate this into a domain Conflict.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
