package domain

import "time"

// TokenTTL is the fixed lifetime of every temporary token.
const TokenTTL = 30 * time.Minute

// PlaceholderExpiry marks a secondary record that has never held a live token.
var PlaceholderExpiry = time.Unix(0, 0).UTC()

// Credentials is the normalized {username, password} pair every operation consumes.
// For validation the password field carries the temporary token.
type Credentials struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// PrimaryRecord is a row of the primary store.
// TempTokenHash and TempTokenExpiry are nil until the first issuance.
type PrimaryRecord struct {
	Username              string     `dynamodbav:"username"`
	PermanentPasswordHash string     `dynamodbav:"permanent_password_hash"`
	TempTokenHash         *string    `dynamodbav:"temp_token_hash,omitempty"`
	TempTokenExpiry       *time.Time `dynamodbav:"temp_token_expiry,omitempty"`
}

// SecondaryRecord is a row of the secondary store.
type SecondaryRecord struct {
	Username        string    `dynamodbav:"username"`
	TempTokenHash   string    `dynamodbav:"temp_token_hash"`
	TempTokenExpiry time.Time `dynamodbav:"temp_token_expiry"`
}

// TemporaryToken is the persisted half of a temporary credential: a one-way hash and its expiry.
type TemporaryToken struct {
	Hash   string
	Expiry time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t *TemporaryToken) Expired(now time.Time) bool {
	return now.After(t.Expiry)
}

// IssuedToken is returned to the caller exactly once; the plaintext is never stored.
type IssuedToken struct {
	Token  string    `json:"temp_token"`
	Expiry time.Time `json:"token_expiry"`
}
