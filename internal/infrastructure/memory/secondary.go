package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-tempcred-api/internal/domain"
)

// SecondaryStore is a mutex-guarded map keyed by username.
type SecondaryStore struct {
	mu   sync.RWMutex
	rows map[string]domain.SecondaryRecord
}

func NewSecondaryStore() *SecondaryStore {
	return &SecondaryStore{rows: make(map[string]domain.SecondaryRecord)}
}

func (s *SecondaryStore) UpsertTemporaryToken(_ context.Context, username, tokenHash string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[username] = domain.SecondaryRecord{Username: username, TempTokenHash: tokenHash, TempTokenExpiry: expiry}
	return nil
}

func (s *SecondaryStore) GetTemporaryToken(_ context.Context, username string) (*domain.TemporaryToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[username]
	if !ok {
		return nil, fmt.Errorf("secondary record: %w", domain.ErrNotFound)
	}
	return &domain.TemporaryToken{Hash: r.TempTokenHash, Expiry: r.TempTokenExpiry}, nil
}

func (s *SecondaryStore) CreatePlaceholder(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[username]; ok {
		return nil
	}
	s.rows[username] = domain.SecondaryRecord{Username: username, TempTokenExpiry: domain.PlaceholderExpiry}
	return nil
}
