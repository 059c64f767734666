// Package validation grants access when a presented temporary token matches the
// hash held by the secondary store and has not expired.
package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-tempcred-api/internal/domain"
	"github.com/go-tempcred-api/internal/pkg/secret"
)

type Service interface {
	// ValidateToken returns nil when access is granted. creds.Password carries the temporary token.
	ValidateToken(ctx context.Context, creds domain.Credentials) error
}

type secondaryStore interface {
	GetTemporaryToken(ctx context.Context, username string) (*domain.TemporaryToken, error)
}

type service struct {
	secondary secondaryStore
	hasher    secret.Hasher
	now       func() time.Time
}

type ServiceDeps struct {
	SecondaryRepo secondaryStore
	Hasher        secret.Hasher
	Now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{secondary: deps.SecondaryRepo, hasher: deps.Hasher, now: deps.Now}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) ValidateToken(ctx context.Context, creds domain.Credentials) error {
	tok, err := s.secondary.GetTemporaryToken(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		slog.Error("secondary lookup", "username", creds.Username, "err", err)
		return fmt.Errorf("secondary lookup: %w", err)
	}
	// Expiry is checked before the slow hash comparison.
	if tok.Expired(s.now()) {
		return domain.ErrTokenExpired
	}
	if !s.hasher.Verify(creds.Password, tok.Hash) {
		return domain.ErrInvalidToken
	}
	slog.Info("access granted", "username", creds.Username)
	return nil
}
