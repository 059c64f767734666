// Package memory holds in-process credential stores used for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-tempcred-api/internal/domain"
)

// PrimaryStore is a mutex-guarded map keyed by username.
type PrimaryStore struct {
	mu   sync.RWMutex
	rows map[string]domain.PrimaryRecord
}

func NewPrimaryStore() *PrimaryStore {
	return &PrimaryStore{rows: make(map[string]domain.PrimaryRecord)}
}

func (s *PrimaryStore) CreateUser(_ context.Context, username, permanentPasswordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[username]; ok {
		return fmt.Errorf("username %q: %w", username, domain.ErrUserAlreadyExists)
	}
	s.rows[username] = domain.PrimaryRecord{Username: username, PermanentPasswordHash: permanentPasswordHash}
	return nil
}

func (s *PrimaryStore) GetPermanentPasswordHash(_ context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[username]
	if !ok {
		return "", fmt.Errorf("primary record: %w", domain.ErrNotFound)
	}
	return r.PermanentPasswordHash, nil
}

func (s *PrimaryStore) GetTemporaryToken(_ context.Context, username string) (*domain.TemporaryToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[username]
	if !ok {
		return nil, fmt.Errorf("primary record: %w", domain.ErrNotFound)
	}
	if r.TempTokenHash == nil || r.TempTokenExpiry == nil {
		return nil, nil
	}
	return &domain.TemporaryToken{Hash: *r.TempTokenHash, Expiry: *r.TempTokenExpiry}, nil
}

func (s *PrimaryStore) SetTemporaryToken(_ context.Context, username, tokenHash string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[username]
	if !ok {
		return fmt.Errorf("set temporary token: %w", domain.ErrNotFound)
	}
	r.TempTokenHash = &tokenHash
	r.TempTokenExpiry = &expiry
	s.rows[username] = r
	return nil
}

func (s *PrimaryStore) ClearTemporaryToken(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[username]
	if !ok {
		return fmt.Errorf("clear temporary token: %w", domain.ErrNotFound)
	}
	r.TempTokenHash = nil
	r.TempTokenExpiry = nil
	s.rows[username] = r
	return nil
}
