package logger

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Throttled emits at most one entry per interval of wall-clock time and drops
// the rest.
type Throttled struct {
	sometimes *rate.Sometimes
}

func NewThrottled(interval time.Duration) *Throttled {
	return &Throttled{sometimes: &rate.Sometimes{Interval: interval}}
}

// Warning logs at warn level unless an entry was emitted within the interval.
// It reports whether the entry was written.
func (t *Throttled) Warning(msg string, payload ...LoggerOptions) bool {
	written := false
	t.sometimes.Do(func() {
		Warning(msg, payload...)
		written = true
	})
	return written
}

// KeyedThrottled is Throttled per key, so one noisy key does not silence
// the others. Keys are forgotten once their interval has passed.
type KeyedThrottled struct {
	interval time.Duration
	mu       sync.Mutex
	seen     *gocache.Cache
}

func NewKeyedThrottled(interval time.Duration) *KeyedThrottled {
	return &KeyedThrottled{interval: interval, seen: gocache.New(interval, 2*interval)}
}

// Warning logs at warn level unless an entry for key was emitted within the
// interval. It reports whether the entry was written.
func (t *KeyedThrottled) Warning(key string, msg string, payload ...LoggerOptions) bool {
	t.mu.Lock()
	if _, found := t.seen.Get(key); found {
		t.mu.Unlock()
		return false
	}
	t.seen.Set(key, struct{}{}, t.interval)
	t.mu.Unlock()

	Warning(msg, payload...)
	return true
}
