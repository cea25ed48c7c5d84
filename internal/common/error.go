// Package common defines shared constants and sentinel errors used across
// cardvault components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrKeyUnavailable means the device key could not be read, created, or
	// unlocked. Fatal for the session: nothing downstream can encrypt or
	// decrypt without it.
	ErrKeyUnavailable = errors.New("encryption key unavailable")

	// ErrAuthenticationFailed means a ciphertext failed its integrity check:
	// the blob was tampered with or was produced under a different device key.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// Business-rule rejections. Expected, surfaced to the user, not retryable.
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrCooldownActive        = errors.New("cooldown active")

	// Validation errors, rejected before any I/O.
	ErrInvalidInput = errors.New("invalid input")

	// Token lifecycle errors (backend session).
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// CooldownError reports that a category cannot be re-registered until
// EndsAt. It matches ErrCooldownActive under errors.Is so callers can branch
// on the class and still read the retry time.
type CooldownError struct {
	Category string
	EndsAt   time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active for %s until %s", e.Category, e.EndsAt.Format(time.RFC3339))
}

func (e *CooldownError) Is(target error) bool { return target == ErrCooldownActive }
