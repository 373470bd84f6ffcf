package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/workflow"
)

func (q *queries) CreateUser(ctx context.Context, u *models.User) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.FullName, u.IsActive, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (q *queries) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return q.scanUser(q.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, full_name, is_active, created_at
		FROM users
		WHERE id = $1
	`, id))
}

func (q *queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return q.scanUser(q.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, full_name, is_active, created_at
		FROM users
		WHERE username = $1
	`, username))
}

// UsernameOrEmailExists backs the registration uniqueness check.
func (q *queries) UsernameOrEmailExists(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	err = q.db.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE username = $1),
			EXISTS (SELECT 1 FROM users WHERE email = $2)
	`, username, email).Scan(&usernameTaken, &emailTaken)
	if err != nil {
		return false, false, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	return usernameTaken, emailTaken, nil
}

// ListActiveUsersExcept returns every active user other than the caller,
// for the step-assignment picker.
func (q *queries) ListActiveUsersExcept(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, username, email, password_hash, full_name, is_active, created_at
		FROM users
		WHERE is_active = TRUE AND id <> $1
		ORDER BY username ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (q *queries) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", workflow.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
