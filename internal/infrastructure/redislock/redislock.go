// Package redislock serializes issuance per username across processes with a
// single Redis key per lock.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "tempcred:issue:"
	retryBackoff = 25 * time.Millisecond
)

// Only the holder that set the value may delete the key.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var releaseLua = redis.NewScript(releaseScript)

// ErrLockTimeout is returned when the lock is not acquired before the context ends.
var ErrLockTimeout = errors.New("timed out waiting for issuance lock")

// ErrLeaseTooShort is returned by CheckLease when the lock could expire mid-issuance.
var ErrLeaseTooShort = errors.New("issuance lock ttl too short for hash cost")

// MinLeaseFactor is how many hash durations a lease must span. An issuance
// runs two bcrypt operations; the rest covers store round trips.
const MinLeaseFactor = 4

// CheckLease fails when ttl is under MinLeaseFactor times hashCost, the
// measured duration of one hash. The lease is never extended, so a holder
// outliving it lets a second issuance in.
func CheckLease(ttl, hashCost time.Duration) error {
	if need := MinLeaseFactor * hashCost; ttl < need {
		return fmt.Errorf("%w: ttl %s, need at least %s", ErrLeaseTooShort, ttl, need)
	}
	return nil
}

// Locker acquires SET NX PX locks. ttl bounds how long a crashed holder can block others.
type Locker struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func New(rdb redis.UniversalClient, ttl time.Duration) *Locker {
	return &Locker{rdb: rdb, ttl: ttl}
}

// Lock blocks until the lock for key is held or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	owner := uuid.NewString()

	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, owner, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
			}
			return nil, fmt.Errorf("redis error: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
		case <-time.After(retryBackoff):
		}
	}

	return func() {
		// The caller's ctx may already be cancelled; release must still run.
		relCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseLua.Run(relCtx, l.rdb, []string{redisKey}, owner).Err(); err != nil && !errors.Is(err, redis.Nil) {
			slog.Error("release issuance lock", "key", redisKey, "err", err)
		}
	}, nil
}
