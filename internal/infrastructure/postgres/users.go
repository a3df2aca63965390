package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/scrybe/scrybe-backend/internal/domain"
)

// UserRepo provides typed Postgres operations for the users table.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, is_verified, otp, otp_expires_at, ai_name, auth_provider, created_at, updated_at`

// Create inserts the user and fills in the DB-assigned id.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	query := `
		INSERT INTO users (username, email, password_hash, is_verified, otp, otp_expires_at, ai_name, auth_provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.IsVerified, u.OTP, u.OTPExpiresAt,
		u.AIName, u.AuthProvider, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getByField(ctx, "username", username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getByField(ctx, "email", email)
}

func (r *UserRepo) getByField(ctx context.Context, field, value string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, field)
	var u domain.User
	if err := r.db.GetContext(ctx, &u, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by %s: %w", field, err)
	}
	return &u, nil
}

// MarkVerified flips is_verified and clears the single-use OTP columns.
func (r *UserRepo) MarkVerified(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET is_verified = TRUE, otp = NULL, otp_expires_at = NULL, updated_at = $2
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateAIName(ctx context.Context, userID int64, aiName string) error {
	query := `UPDATE users SET ai_name = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, aiName, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update ai_name: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return nil
}
