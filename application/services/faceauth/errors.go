package faceauth

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies every failure that leaves the face authentication service.
type Kind string

const (
	InvalidEmbedding      Kind = "InvalidEmbedding"
	IdentityNotFound      Kind = "IdentityNotFound"
	AlreadyConfigured     Kind = "AlreadyConfigured"
	NotConfigured         Kind = "NotConfigured"
	LockedOut             Kind = "LockedOut"
	VerificationFailed    Kind = "VerificationFailed"
	SessionIssuanceFailed Kind = "SessionIssuanceFailed"
	// StoreUnavailable is internal to the ledger and is never returned to callers.
	StoreUnavailable Kind = "StoreUnavailable"
	// Internal covers user directory I/O failures. The cause is logged, never surfaced.
	Internal Kind = "Internal"
)

var (
	ErrInvalidVector = errors.New("vectors must be non-empty, of equal length and contain only finite values")
	ErrStoreDown     = errors.New("shared attempt store unavailable")
)

// Error is the structured failure returned by Service operations.
type Error struct {
	Kind    Kind
	Message string

	// RetryAfter is set for LockedOut.
	RetryAfter time.Duration
	// Similarity is set for VerificationFailed outside production.
	Similarity *float64
	// AttemptsLeft is set for VerificationFailed.
	AttemptsLeft *int

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RetryAfterMinutes rounds RetryAfter up to whole minutes.
func (e *Error) RetryAfterMinutes() int {
	return ceilMinutes(e.RetryAfter)
}

// KindOf returns the Kind carried by err, or Internal for foreign errors.
func KindOf(err error) Kind {
	var faErr *Error
	if errors.As(err, &faErr) {
		return faErr.Kind
	}
	return Internal
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	minutes := int(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes
}
