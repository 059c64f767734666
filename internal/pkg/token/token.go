package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TemporaryTokenBytes is the entropy of every minted temporary token.
const TemporaryTokenBytes = 16

// NewTemporaryToken generates a cryptographically random URL-safe token
// (22 characters, unpadded base64url of TemporaryTokenBytes random bytes).
func NewTemporaryToken() (string, error) {
	b := make([]byte, TemporaryTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate temporary token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
