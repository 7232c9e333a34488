package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jesseg-dev/portfolio-site/internal/auth/domain"
)

const userColumns = `id::text, email, password_hash, display_name, created_at, updated_at, last_login_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail looks a user up case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1)
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, strings.TrimSpace(email)))
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id::text = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// EnsureUser inserts the user unless one with the same email exists.
// It reports whether a row was created; an existing user is left untouched.
func (r *UserRepository) EnsureUser(ctx context.Context, user *domain.User) (bool, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name)
		VALUES (lower($1), $2, $3)
		ON CONFLICT DO NOTHING
		RETURNING id::text, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(user.Email), user.PasswordHash, user.DisplayName).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return true, nil
}

// UpdatePassword replaces the stored hash for the given email.
func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE lower(email) = lower($1)
	`

	result, err := r.db.ExecContext(ctx, query, strings.TrimSpace(email), passwordHash)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE users
		SET last_login_at = $2
		WHERE id::text = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var lastLoginAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}
	return &user, nil
}

func requireOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
