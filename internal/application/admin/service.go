// Package admin authenticates the operator allowed to provision users.
package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/go-tempcred-api/internal/domain"
	jwtinfra "github.com/go-tempcred-api/internal/infrastructure/jwt"
	"github.com/go-tempcred-api/internal/pkg/secret"
)

type Service interface {
	// Login returns a signed admin session token.
	Login(ctx context.Context, creds domain.Credentials) (string, error)
}

type jwtSigner interface {
	Sign(username, role string) (string, error)
}

type service struct {
	username     string
	passwordHash string
	hasher       secret.Hasher
	jwtProvider  jwtSigner
}

type ServiceDeps struct {
	Username    string
	Password    string
	Hasher      secret.Hasher
	JWTProvider jwtSigner
}

// NewService hashes the configured admin password once. An empty password disables admin login.
func NewService(deps ServiceDeps) (Service, error) {
	s := &service{username: deps.Username, hasher: deps.Hasher, jwtProvider: deps.JWTProvider}
	if deps.Password == "" {
		slog.Warn("admin password not configured, admin login disabled")
		return s, nil
	}
	hash, err := deps.Hasher.Hash(deps.Password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	s.passwordHash = hash
	return s, nil
}

func (s *service) Login(_ context.Context, creds domain.Credentials) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(s.username)) == 1
	// Verify runs even on a username mismatch so both failures cost the same.
	passOK := s.hasher.Verify(creds.Password, s.passwordHash)
	if !userOK || !passOK {
		slog.Warn("admin login rejected", "username", creds.Username)
		return "", domain.ErrInvalidCredentials
	}
	tok, err := s.jwtProvider.Sign(s.username, jwtinfra.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("sign admin session: %w", err)
	}
	slog.Info("admin logged in", "username", s.username)
	return tok, nil
}
