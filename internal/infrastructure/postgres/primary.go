package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-tempcred-api/internal/domain"
)

// PrimaryStore keeps permanent credentials and the most recently issued
// temporary token in the auth_tokens table.
type PrimaryStore struct {
	db DBTX
}

func NewPrimaryStore(db DBTX) *PrimaryStore {
	return &PrimaryStore{db: db}
}

func (r *PrimaryStore) CreateUser(ctx context.Context, username, permanentPasswordHash string) error {
	query := `
		INSERT INTO auth_tokens (username, permanent_password_hash)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, username, permanentPasswordHash); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", username, domain.ErrUserAlreadyExists)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PrimaryStore) GetPermanentPasswordHash(ctx context.Context, username string) (string, error) {
	query := `
		SELECT permanent_password_hash FROM auth_tokens
		WHERE username = $1
	`
	var hash string
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return hash, nil
}

// GetTemporaryToken returns nil without error when no token was ever issued.
func (r *PrimaryStore) GetTemporaryToken(ctx context.Context, username string) (*domain.TemporaryToken, error) {
	query := `
		SELECT temp_token_hash, temp_token_expiry FROM auth_tokens
		WHERE username = $1
	`
	var (
		hash   sql.NullString
		expiry sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&hash, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !hash.Valid || !expiry.Valid {
		return nil, nil
	}
	return &domain.TemporaryToken{Hash: hash.String, Expiry: expiry.Time}, nil
}

func (r *PrimaryStore) SetTemporaryToken(ctx context.Context, username, tokenHash string, expiry time.Time) error {
	query := `
		UPDATE auth_tokens SET temp_token_hash = $1, temp_token_expiry = $2
		WHERE username = $3
	`
	return r.updateOne(ctx, query, tokenHash, expiry, username)
}

func (r *PrimaryStore) ClearTemporaryToken(ctx context.Context, username string) error {
	query := `
		UPDATE auth_tokens SET temp_token_hash = NULL, temp_token_expiry = NULL
		WHERE username = $1
	`
	return r.updateOne(ctx, query, username)
}

// updateOne fails with domain.ErrNotFound when no row matched.
func (r *PrimaryStore) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
