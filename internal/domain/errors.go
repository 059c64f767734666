package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	// Repository-level.
	ErrNotFound = errors.New("not found")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenExpired       = errors.New("temporary credentials expired")
	ErrInvalidToken       = errors.New("invalid temporary password")
	ErrIssuanceFailed     = errors.New("token issuance failed")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrMalformedInput     = errors.New("invalid input format")
)
