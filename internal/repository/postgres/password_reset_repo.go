package postgres

import (
	"context"
	"database/sql"
	"time"

	"courtfind/internal/domain"
)

type passwordResetRepository struct {
	DB *sql.DB
}

// NewPasswordResetRepository returns a domain.PasswordResetRepository implemented with Postgres.
func NewPasswordResetRepository(db *sql.DB) domain.PasswordResetRepository {
	return &passwordResetRepository{DB: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, userID, tokenHash, expiresAt)
	return err
}

// Consume finds and deletes the token in one statement. A token is consumed at most once.
func (r *passwordResetRepository) Consume(ctx context.Context, tokenHash string) (string, error) {
	query := `
		DELETE FROM password_reset_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
		RETURNING user_id
	`
	var userID string
	err := r.DB.QueryRowContext(ctx, query, tokenHash).Scan(&userID)
	if err != nil {
		if isNotFound(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return userID, nil
}
