package faceauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockoutPolicy_IsLockedOut(t *testing.T) {
	policy := LockoutPolicy{MaxAttempts: 3, Window: 15 * time.Minute}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record AttemptRecord
		want   bool
	}{
		{name: "no record", record: AttemptRecord{}, want: false},
		{name: "below max", record: AttemptRecord{Count: 2, LastAttemptAt: now.Add(-time.Minute)}, want: false},
		{name: "at max inside window", record: AttemptRecord{Count: 3, LastAttemptAt: now.Add(-time.Minute)}, want: true},
		{name: "above max inside window", record: AttemptRecord{Count: 7, LastAttemptAt: now}, want: true},
		{name: "at max window just elapsed", record: AttemptRecord{Count: 3, LastAttemptAt: now.Add(-15 * time.Minute)}, want: false},
		{name: "at max window long elapsed", record: AttemptRecord{Count: 3, LastAttemptAt: now.Add(-time.Hour)}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsLockedOut(tt.record, now))
		})
	}
}

func TestLockoutPolicy_Remaining(t *testing.T) {
	policy := LockoutPolicy{MaxAttempts: 5, Window: 15 * time.Minute}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	record := AttemptRecord{Count: 5, LastAttemptAt: now.Add(-4*time.Minute - 30*time.Second)}
	assert.Equal(t, 10*time.Minute+30*time.Second, policy.Remaining(record, now))
	assert.Equal(t, 11, policy.RetryAfterMinutes(record, now))

	expired := AttemptRecord{Count: 5, LastAttemptAt: now.Add(-20 * time.Minute)}
	assert.Equal(t, time.Duration(0), policy.Remaining(expired, now))
	assert.Equal(t, 0, policy.RetryAfterMinutes(expired, now))
}

func TestLockoutPolicy_AttemptsLeft(t *testing.T) {
	policy := LockoutPolicy{MaxAttempts: 5, Window: time.Minute}
	assert.Equal(t, 5, policy.AttemptsLeft(AttemptRecord{}))
	assert.Equal(t, 2, policy.AttemptsLeft(AttemptRecord{Count: 3}))
	assert.Equal(t, 0, policy.AttemptsLeft(AttemptRecord{Count: 9}))
}

func TestNextFailure(t *testing.T) {
	window := 15 * time.Minute
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	first := NextFailure(AttemptRecord{}, now, window)
	assert.Equal(t, AttemptRecord{Count: 1, LastAttemptAt: now}, first)

	second := NextFailure(first, now.Add(time.Minute), window)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, now.Add(time.Minute), second.LastAttemptAt)

	stale := NextFailure(AttemptRecord{Count: 4, LastAttemptAt: now.Add(-window)}, now, window)
	assert.Equal(t, AttemptRecord{Count: 1, LastAttemptAt: now}, stale)
}
