// Package issuance trades a permanent password for a short-lived temporary token
// and records the token's hash in both credential stores.
package issuance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-tempcred-api/internal/domain"
	"github.com/go-tempcred-api/internal/pkg/id"
	"github.com/go-tempcred-api/internal/pkg/keylock"
	"github.com/go-tempcred-api/internal/pkg/secret"
	pkgtoken "github.com/go-tempcred-api/internal/pkg/token"
)

type Service interface {
	IssueToken(ctx context.Context, creds domain.Credentials) (*domain.IssuedToken, error)
}

type primaryStore interface {
	GetPermanentPasswordHash(ctx context.Context, username string) (string, error)
	GetTemporaryToken(ctx context.Context, username string) (*domain.TemporaryToken, error)
	SetTemporaryToken(ctx context.Context, username, tokenHash string, expiry time.Time) error
	ClearTemporaryToken(ctx context.Context, username string) error
}

type secondaryStore interface {
	UpsertTemporaryToken(ctx context.Context, username, tokenHash string, expiry time.Time) error
}

// Locker serializes issuance per username.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type service struct {
	primary   primaryStore
	secondary secondaryStore
	hasher    secret.Hasher
	locker    Locker
	now       func() time.Time
	newToken  func() (string, error)

	decoyOnce sync.Once
	decoyHash string
}

// ServiceDeps wires the issuance service. Locker, Now and NewToken are optional.
type ServiceDeps struct {
	PrimaryRepo   primaryStore
	SecondaryRepo secondaryStore
	Hasher        secret.Hasher
	Locker        Locker
	Now           func() time.Time
	NewToken      func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		primary:   deps.PrimaryRepo,
		secondary: deps.SecondaryRepo,
		hasher:    deps.Hasher,
		locker:    deps.Locker,
		now:       deps.Now,
		newToken:  deps.NewToken,
	}
	if s.locker == nil {
		s.locker = keylock.New()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newToken == nil {
		s.newToken = pkgtoken.NewTemporaryToken
	}
	return s
}

// attempt tracks one call through the issuance states.
type attempt struct {
	log   *slog.Logger
	state State
}

// advance records a transition. Issued and Rejected are final; a later
// transition is logged and dropped.
func (a *attempt) advance(next State) {
	if a.state.Terminal() {
		a.log.Warn("issuance transition after terminal state", "state", a.state.String(), "to", next.String())
		return
	}
	a.log.Debug("issuance transition", "from", a.state.String(), "to", next.String())
	a.state = next
}

func (s *service) IssueToken(ctx context.Context, creds domain.Credentials) (*domain.IssuedToken, error) {
	a := &attempt{
		log:   slog.With("issuance_id", id.New(), "username", creds.Username),
		state: AwaitingCredentials,
	}

	unlock, err := s.locker.Lock(ctx, creds.Username)
	if err != nil {
		a.log.Error("acquire issuance lock", "err", err)
		a.advance(Rejected)
		return nil, fmt.Errorf("acquire lock: %w", domain.ErrIssuanceFailed)
	}
	defer unlock()

	a.advance(ValidatingPermanent)
	permanentHash, err := s.primary.GetPermanentPasswordHash(ctx, creds.Username)
	if err != nil {
		a.advance(Rejected)
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(creds.Password, s.decoy())
			return nil, domain.ErrInvalidCredentials
		}
		a.log.Error("primary lookup", "err", err)
		return nil, fmt.Errorf("primary lookup: %w", domain.ErrIssuanceFailed)
	}
	if !s.hasher.Verify(creds.Password, permanentHash) {
		a.advance(Rejected)
		return nil, domain.ErrInvalidCredentials
	}

	a.advance(MintingToken)
	plaintext, err := s.newToken()
	if err != nil {
		a.log.Error("mint token", "err", err)
		a.advance(Rejected)
		return nil, fmt.Errorf("mint token: %w", domain.ErrIssuanceFailed)
	}
	tokenHash, err := s.hasher.Hash(plaintext)
	if err != nil {
		a.log.Error("hash token", "err", err)
		a.advance(Rejected)
		return nil, fmt.Errorf("hash token: %w", domain.ErrIssuanceFailed)
	}
	expiry := s.now().UTC().Add(domain.TokenTTL)

	a.advance(PersistingPrimary)
	previous, err := s.primary.GetTemporaryToken(ctx, creds.Username)
	if err != nil {
		a.log.Error("snapshot primary token", "err", err)
		a.advance(Rejected)
		return nil, fmt.Errorf("snapshot primary: %w", domain.ErrIssuanceFailed)
	}
	if err := s.primary.SetTemporaryToken(ctx, creds.Username, tokenHash, expiry); err != nil {
		a.log.Error("persist primary token", "err", err)
		a.advance(Rejected)
		return nil, fmt.Errorf("persist primary: %w", domain.ErrIssuanceFailed)
	}

	a.advance(PersistingSecondary)
	if err := s.secondary.UpsertTemporaryToken(ctx, creds.Username, tokenHash, expiry); err != nil {
		a.log.Error("persist secondary token, rolling back primary", "err", err)
		s.restorePrimary(ctx, a.log, creds.Username, previous)
		a.advance(Rejected)
		return nil, fmt.Errorf("persist secondary: %w", domain.ErrIssuanceFailed)
	}

	a.advance(Issued)
	a.log.Info("temporary token issued", "expiry", expiry)
	return &domain.IssuedToken{Token: plaintext, Expiry: expiry}, nil
}

// decoy is a hash verified for unknown usernames so they cost the same as a wrong password.
func (s *service) decoy() string {
	s.decoyOnce.Do(func() {
		if h, err := s.hasher.Hash(id.New()); err == nil {
			s.decoyHash = h
		}
	})
	return s.decoyHash
}

// restorePrimary puts back the token the primary held before this attempt.
// On failure the stores diverge until the next successful issuance; the secondary
// still holds the older hash, so the new token is never accepted.
func (s *service) restorePrimary(ctx context.Context, log *slog.Logger, username string, previous *domain.TemporaryToken) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if previous == nil {
		err = s.primary.ClearTemporaryToken(ctx, username)
	} else {
		err = s.primary.SetTemporaryToken(ctx, username, previous.Hash, previous.Expiry)
	}
	if err != nil {
		log.Error("rollback primary token", "err", err)
		return
	}
	log.Warn("primary token rolled back")
}
