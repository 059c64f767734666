package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-tempcred-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockSecondaryStore struct{ mock.Mock }

func (m *mockSecondaryStore) GetTemporaryToken(ctx context.Context, username string) (*domain.TemporaryToken, error) {
	args := m.Called(ctx, username)
	if t, _ := args.Get(0).(*domain.TemporaryToken); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockHasher struct{ mock.Mock }

func (m *mockHasher) Hash(s string) (string, error) {
	args := m.Called(s)
	return args.String(0), args.Error(1)
}
func (m *mockHasher) Verify(s, hash string) bool {
	return m.Called(s, hash).Bool(0)
}

// --- helpers ---

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(s *mockSecondaryStore, h *mockHasher) Service {
	return NewService(ServiceDeps{
		SecondaryRepo: s,
		Hasher:        h,
		Now:           func() time.Time { return fixedNow },
	})
}

// --- ValidateToken tests ---

func TestValidateToken_Granted(t *testing.T) {
	s := &mockSecondaryStore{}
	s.On("GetTemporaryToken", mock.Anything, "alice").Return(&domain.TemporaryToken{Hash: "hash", Expiry: fixedNow.Add(time.Minute)}, nil)
	h := &mockHasher{}
	h.On("Verify", "tok", "hash").Return(true)

	assert.NoError(t, newService(s, h).ValidateToken(context.Background(), domain.Credentials{Username: "alice", Password: "tok"}))
	h.AssertExpectations(t)
}

func TestValidateToken_UnknownUser(t *testing.T) {
	s := &mockSecondaryStore{}
	s.On("GetTemporaryToken", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	err := newService(s, &mockHasher{}).ValidateToken(context.Background(), domain.Credentials{Username: "ghost", Password: "tok"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestValidateToken_LookupError(t *testing.T) {
	s := &mockSecondaryStore{}
	s.On("GetTemporaryToken", mock.Anything, "alice").Return(nil, errors.New("db error: timeout"))

	err := newService(s, &mockHasher{}).ValidateToken(context.Background(), domain.Credentials{Username: "alice", Password: "tok"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestValidateToken_ExpiredSkipsHashing(t *testing.T) {
	s := &mockSecondaryStore{}
	s.On("GetTemporaryToken", mock.Anything, "alice").Return(&domain.TemporaryToken{Hash: "hash", Expiry: fixedNow.Add(-time.Second)}, nil)
	h := &mockHasher{}

	err := newService(s, h).ValidateToken(context.Background(), domain.Credentials{Username: "alice", Password: "tok"})
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	h.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestValidateToken_ExactExpiryStillValid(t *testing.T) {
	s := &mockSecondaryStore{}
	s.On("GetTemporaryToken", mock.Anything, "alice").Return(&domain.TemporaryToken{Hash: "hash", Expiry: fixedNow}, nil)
	h := &mockHasher{}
	h.On("Verify", "tok", "hash").Return(true)

	assert.NoError(t, newService(s, h).ValidateToken(context.Background(), domain.Credentials{Username: "alice", Password: "tok"}))
}

func TestValidateToken_PlaceholderIsExpired(t *testing.T) {
	s := &mockSecondaryStore{}
	s.On("GetTemporaryToken", mock.Anything, "bob").Return(&domain.TemporaryToken{Expiry: domain.PlaceholderExpiry}, nil)

	err := newService(s, &mockHasher{}).ValidateToken(context.Background(), domain.Credentials{Username: "bob", Password: "anything"})
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestValidateToken_Mismatch(t *testing.T) {
	s := &mockSecondaryStore{}
	s.On("GetTemporaryToken", mock.Anything, "alice").Return(&domain.TemporaryToken{Hash: "hash", Expiry: fixedNow.Add(time.Minute)}, nil)
	h := &mockHasher{}
	h.On("Verify", "wrong", "hash").Return(false)

	err := newService(s, h).ValidateToken(context.Background(), domain.Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
