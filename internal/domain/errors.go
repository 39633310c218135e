package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited is returned when a caller exhausted its attempt budget.
	// Terminal within the window; the caller must wait it out.
	ErrRateLimited = errors.New("too many requests")

	// ErrValidation is returned for missing or malformed input.
	ErrValidation = errors.New("invalid input")

	// ErrCodeMissingOrExpired is returned when no live verification code
	// exists for the account. Never-issued and TTL-elapsed are deliberately
	// not distinguished.
	ErrCodeMissingOrExpired = errors.New("verification code missing or expired")

	// ErrCodeMismatch is returned when the candidate code does not match.
	// The stored code and its TTL are left untouched.
	ErrCodeMismatch = errors.New("verification code invalid")

	// ErrAccountClosedOrUnknown collapses "no such account" and "account
	// closed" so responses cannot be used for account enumeration.
	ErrAccountClosedOrUnknown = errors.New("account closed or unknown")

	// ErrCredentialMismatch is returned on a failed password check without
	// revealing which side failed.
	ErrCredentialMismatch = errors.New("account or password incorrect")

	// ErrPersistence is the generic retry-later persistence failure.
	ErrPersistence = errors.New("service unavailable, try again")

	// ErrUnauthorized is returned for missing, invalid or revoked tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRenameNotAllowed is returned when the one-shot rename was already used.
	ErrRenameNotAllowed = errors.New("rename not allowed")

	// ErrUserNotFound is returned by repositories when no row matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrKeyNotFound is returned by the key-value store for absent keys.
	ErrKeyNotFound = errors.New("key not found")
)

// CodePendingError is returned when a live verification code already exists
// for the (purpose, account) pair. RetryAfter is the remaining TTL, surfaced
// so callers can build a "retry in Ns" message.
type CodePendingError struct {
	RetryAfter time.Duration
}

func (e *CodePendingError) Error() string {
	return fmt.Sprintf("code already sent, retry in %ds", int(e.RetryAfter.Seconds()))
}

// DeliveryError is returned when an email or SMS provider rejects a send.
// Reason carries the provider message and is surfaced verbatim to the user.
type DeliveryError struct {
	Reason string
}

func (e *DeliveryError) Error() string {
	return e.Reason
}
