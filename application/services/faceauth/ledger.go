package faceauth

import (
	"context"
	"sync"
	"time"

	"arcadeportal.io/infrastructure/logger"
	gocache "github.com/patrickmn/go-cache"
)

// AttemptRecord counts consecutive failed verifications for one identity.
type AttemptRecord struct {
	Count         int       `json:"count"`
	LastAttemptAt time.Time `json:"lastAttemptAt"`
}

// AttemptLedger stores AttemptRecords with an expiry equal to the lockout window.
type AttemptLedger interface {
	// Get returns the zero record when the identity has no live record.
	Get(ctx context.Context, identity string) (AttemptRecord, error)
	// RecordFailure increments the count, restarting at 1 when the previous
	// record is older than the window, and stamps LastAttemptAt with now.
	RecordFailure(ctx context.Context, identity string) (AttemptRecord, error)
	// Reset removes the record after a successful verification.
	Reset(ctx context.Context, identity string) error
}

// NextFailure computes the record that follows prev after a failure at now.
func NextFailure(prev AttemptRecord, now time.Time, window time.Duration) AttemptRecord {
	policy := LockoutPolicy{Window: window}
	if prev.Count <= 0 || policy.isStale(prev, now) {
		return AttemptRecord{Count: 1, LastAttemptAt: now}
	}
	return AttemptRecord{Count: prev.Count + 1, LastAttemptAt: now}
}

// MemoryLedger is the process-local ledger. Counts are not shared between
// processes.
type MemoryLedger struct {
	mu     sync.Mutex
	items  *gocache.Cache
	window time.Duration
	nowF   func() time.Time
}

// NewMemoryLedger returns a ledger whose records expire after window. A nil
// clock means time.Now.
func NewMemoryLedger(window time.Duration, clock func() time.Time) *MemoryLedger {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryLedger{
		items:  gocache.New(window, window),
		window: window,
		nowF:   clock,
	}
}

func (m *MemoryLedger) Get(ctx context.Context, identity string) (AttemptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(identity), nil
}

func (m *MemoryLedger) RecordFailure(ctx context.Context, identity string) (AttemptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := NextFailure(m.load(identity), m.nowF(), m.window)
	m.items.Set(identity, next, m.window)
	return next, nil
}

func (m *MemoryLedger) Reset(ctx context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items.Delete(identity)
	return nil
}

// load must be called with mu held.
func (m *MemoryLedger) load(identity string) AttemptRecord {
	item, found := m.items.Get(identity)
	if !found {
		return AttemptRecord{}
	}
	record := item.(AttemptRecord)
	if m.nowF().Sub(record.LastAttemptAt) >= m.window {
		m.items.Delete(identity)
		return AttemptRecord{}
	}
	return record
}

const (
	LedgerModeShared    = "shared"
	LedgerModeInProcess = "in-process"
)

// ResilientLedger prefers a shared primary ledger and serves any call that
// fails against it from the in-process fallback. The primary is retried on
// every call. It never returns an error.
type ResilientLedger struct {
	primary  AttemptLedger
	fallback *MemoryLedger
	warn     *logger.Throttled
}

// NewResilientLedger wraps primary, which may be nil for in-process only mode.
func NewResilientLedger(primary AttemptLedger, fallback *MemoryLedger) *ResilientLedger {
	return &ResilientLedger{
		primary:  primary,
		fallback: fallback,
		warn:     logger.NewThrottled(time.Minute),
	}
}

// Mode reports which ledger is preferred.
func (r *ResilientLedger) Mode() string {
	if r.primary == nil {
		return LedgerModeInProcess
	}
	return LedgerModeShared
}

func (r *ResilientLedger) Get(ctx context.Context, identity string) (AttemptRecord, error) {
	if r.primary != nil {
		record, err := r.primary.Get(ctx, identity)
		if err == nil {
			return record, nil
		}
		r.storeUnavailable("get", identity, err)
	}
	return r.fallback.Get(ctx, identity)
}

func (r *ResilientLedger) RecordFailure(ctx context.Context, identity string) (AttemptRecord, error) {
	if r.primary != nil {
		record, err := r.primary.RecordFailure(ctx, identity)
		if err == nil {
			return record, nil
		}
		r.storeUnavailable("recordFailure", identity, err)
	}
	return r.fallback.RecordFailure(ctx, identity)
}

// Reset clears both ledgers so a success is honoured wherever earlier
// failures were counted.
func (r *ResilientLedger) Reset(ctx context.Context, identity string) error {
	if r.primary != nil {
		if err := r.primary.Reset(ctx, identity); err != nil {
			r.storeUnavailable("reset", identity, err)
		}
	}
	return r.fallback.Reset(ctx, identity)
}

func (r *ResilientLedger) storeUnavailable(op string, identity string, err error) {
	r.warn.Warning("attempt ledger falling back to in-process store",
		logger.LoggerOptions{Key: "kind", Data: StoreUnavailable},
		logger.LoggerOptions{Key: "operation", Data: op},
		logger.LoggerOptions{Key: "identity", Data: identity},
		logger.LoggerOptions{Key: "error", Data: err.Error()},
	)
}
