package faceauth

import "time"

const (
	DefaultMaxAttempts   = 5
	DefaultLockoutWindow = 15 * time.Minute
)

// LockoutPolicy decides from an AttemptRecord whether an identity may attempt
// verification.
type LockoutPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// IsLockedOut is true while the failure count has reached MaxAttempts and
// the last failure is younger than Window.
func (p LockoutPolicy) IsLockedOut(record AttemptRecord, now time.Time) bool {
	return record.Count >= p.MaxAttempts && now.Sub(record.LastAttemptAt) < p.Window
}

// Remaining is the time left until the window measured from the last failure
// closes, floored at zero.
func (p LockoutPolicy) Remaining(record AttemptRecord, now time.Time) time.Duration {
	remaining := p.Window - now.Sub(record.LastAttemptAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RetryAfterMinutes is Remaining rounded up to whole minutes.
func (p LockoutPolicy) RetryAfterMinutes(record AttemptRecord, now time.Time) int {
	return ceilMinutes(p.Remaining(record, now))
}

// AttemptsLeft is how many more failures are tolerated before lockout.
func (p LockoutPolicy) AttemptsLeft(record AttemptRecord) int {
	left := p.MaxAttempts - record.Count
	if left < 0 {
		return 0
	}
	return left
}

// isStale reports whether a record has outlived the window, whether or not
// the backing store has evicted it yet.
func (p LockoutPolicy) isStale(record AttemptRecord, now time.Time) bool {
	return !record.LastAttemptAt.IsZero() && now.Sub(record.LastAttemptAt) >= p.Window
}
