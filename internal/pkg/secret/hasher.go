package secret

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrSecretTooLong is returned by Hash for secrets over bcrypt's 72 byte limit.
var ErrSecretTooLong = bcrypt.ErrPasswordTooLong

// Hasher hashes secrets one way and verifies candidates against stored hashes.
// There is no decrypt path: Verify is the only supported comparison.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// BcryptHasher is a salted bcrypt Hasher. Equal secrets yield different hashes.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, clamped to bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// Verify returns false for an empty or malformed hash, such as a placeholder row.
func (h *BcryptHasher) Verify(secret, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
