package http

import (
	"context"
	"time"

	"github.com/go-tempcred-api/internal/domain"
)

// PrimaryRepository is the minimal interface the router requires from the primary store.
type PrimaryRepository interface {
	CreateUser(ctx context.Context, username, permanentPasswordHash string) error
	GetPermanentPasswordHash(ctx context.Context, username string) (string, error)
	// GetTemporaryToken returns nil with no error when no token was ever issued.
	GetTemporaryToken(ctx context.Context, username string) (*domain.TemporaryToken, error)
	SetTemporaryToken(ctx context.Context, username, tokenHash string, expiry time.Time) error
	ClearTemporaryToken(ctx context.Context, username string) error
}

// SecondaryRepository is the minimal interface the router requires from the secondary store.
type SecondaryRepository interface {
	UpsertTemporaryToken(ctx context.Context, username, tokenHash string, expiry time.Time) error
	GetTemporaryToken(ctx context.Context, username string) (*domain.TemporaryToken, error)
	CreatePlaceholder(ctx context.Context, username string) error
}
