package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
)

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT user_id, email, name, role, created_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	err := s.getContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (s *Storage) GetUser(ctx context.Context, userID string) (*model.User, error) {
	query := `
		SELECT user_id, email, name, role, created_at
		FROM users
		WHERE user_id = $1
	`

	var user model.User
	err := s.getContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (user_id, email, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.UserID,
		user.Email,
		user.Name,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("user with email %s already exists", user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}
