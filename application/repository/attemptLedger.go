package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"arcadeportal.io/application/services/faceauth"
)

const attemptKeyPrefix = "face-auth-attempts:"

// AttemptStore is the key-value surface the shared ledger runs on.
type AttemptStore interface {
	FindOneByteArray(ctx context.Context, key string) ([]byte, error)
	DeleteOne(ctx context.Context, key string) (bool, error)
	UpdateEntry(ctx context.Context, key string, ttl time.Duration, fn func(current []byte) ([]byte, error)) ([]byte, error)
}

// RedisAttemptLedger keeps attempt records in the shared store so every
// instance sees the same counts. Each call is bounded by timeout and every
// failure wraps faceauth.ErrStoreDown.
type RedisAttemptLedger struct {
	store   AttemptStore
	window  time.Duration
	timeout time.Duration
	nowF    func() time.Time
}

func NewRedisAttemptLedger(store AttemptStore, window time.Duration, timeout time.Duration) *RedisAttemptLedger {
	return &RedisAttemptLedger{store: store, window: window, timeout: timeout, nowF: time.Now}
}

func attemptKey(identity string) string {
	return attemptKeyPrefix + identity
}

func (l *RedisAttemptLedger) Get(ctx context.Context, identity string) (faceauth.AttemptRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	raw, err := l.store.FindOneByteArray(ctx, attemptKey(identity))
	if err != nil {
		return faceauth.AttemptRecord{}, storeDown(err)
	}
	record := decodeRecord(raw)
	if record.Count > 0 && l.nowF().Sub(record.LastAttemptAt) >= l.window {
		return faceauth.AttemptRecord{}, nil
	}
	return record, nil
}

func (l *RedisAttemptLedger) RecordFailure(ctx context.Context, identity string) (faceauth.AttemptRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var next faceauth.AttemptRecord
	_, err := l.store.UpdateEntry(ctx, attemptKey(identity), l.window, func(current []byte) ([]byte, error) {
		next = faceauth.NextFailure(decodeRecord(current), l.nowF(), l.window)
		return json.Marshal(next)
	})
	if err != nil {
		return faceauth.AttemptRecord{}, storeDown(err)
	}
	return next, nil
}

func (l *RedisAttemptLedger) Reset(ctx context.Context, identity string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if _, err := l.store.DeleteOne(ctx, attemptKey(identity)); err != nil {
		return storeDown(err)
	}
	return nil
}

// decodeRecord reads an unreadable entry as no record.
func decodeRecord(raw []byte) faceauth.AttemptRecord {
	var record faceauth.AttemptRecord
	if len(raw) == 0 {
		return record
	}
	if err := json.Unmarshal(raw, &record); err != nil || record.Count < 0 {
		return faceauth.AttemptRecord{}
	}
	return record
}

func storeDown(err error) error {
	return fmt.Errorf("%w: %v", faceauth.ErrStoreDown, err)
}
