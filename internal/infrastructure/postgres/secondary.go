package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-tempcred-api/internal/domain"
)

// SecondaryStore keeps the hash of the currently valid temporary token in the
// hospital_users table of the second database.
type SecondaryStore struct {
	db DBTX
}

func NewSecondaryStore(db DBTX) *SecondaryStore {
	return &SecondaryStore{db: db}
}

func (r *SecondaryStore) UpsertTemporaryToken(ctx context.Context, username, tokenHash string, expiry time.Time) error {
	query := `
		INSERT INTO hospital_users (username, temp_token_hash, temp_token_expiry)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE
		SET temp_token_hash = EXCLUDED.temp_token_hash, temp_token_expiry = EXCLUDED.temp_token_expiry
	`
	if _, err := r.db.ExecContext(ctx, query, username, tokenHash, expiry); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SecondaryStore) GetTemporaryToken(ctx context.Context, username string) (*domain.TemporaryToken, error) {
	query := `
		SELECT temp_token_hash, temp_token_expiry FROM hospital_users
		WHERE username = $1
	`
	tok := &domain.TemporaryToken{}
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&tok.Hash, &tok.Expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tok, nil
}

func (r *SecondaryStore) CreatePlaceholder(ctx context.Context, username string) error {
	query := `
		INSERT INTO hospital_users (username, temp_token_hash, temp_token_expiry)
		VALUES ($1, '', $2)
		ON CONFLICT (username) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, username, domain.PlaceholderExpiry); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
