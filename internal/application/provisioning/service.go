// Package provisioning creates users in the primary store and reserves their row
// in the secondary store.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-tempcred-api/internal/domain"
	"github.com/go-tempcred-api/internal/pkg/secret"
)

type Service interface {
	ProvisionUser(ctx context.Context, creds domain.Credentials) error
}

type primaryStore interface {
	CreateUser(ctx context.Context, username, permanentPasswordHash string) error
}

type secondaryStore interface {
	CreatePlaceholder(ctx context.Context, username string) error
}

type service struct {
	primary   primaryStore
	secondary secondaryStore
	hasher    secret.Hasher
}

type ServiceDeps struct {
	PrimaryRepo   primaryStore
	SecondaryRepo secondaryStore
	Hasher        secret.Hasher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		primary:   deps.PrimaryRepo,
		secondary: deps.SecondaryRepo,
		hasher:    deps.Hasher,
	}
}

func (s *service) ProvisionUser(ctx context.Context, creds domain.Credentials) error {
	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		if errors.Is(err, secret.ErrSecretTooLong) {
			return fmt.Errorf("%w: password exceeds 72 bytes", domain.ErrMalformedInput)
		}
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.primary.CreateUser(ctx, creds.Username, hash); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return err
		}
		return fmt.Errorf("create primary user: %w", err)
	}
	// A failure here leaves a primary user without a secondary row; validation
	// reports ErrUserNotFound until the first issuance upserts one.
	if err := s.secondary.CreatePlaceholder(ctx, creds.Username); err != nil {
		return fmt.Errorf("create secondary placeholder: %w", err)
	}
	slog.Info("user provisioned", "username", creds.Username)
	return nil
}
