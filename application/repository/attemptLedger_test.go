package repository

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"arcadeportal.io/application/services/faceauth"
	redisConnection "arcadeportal.io/infrastructure/database/connection/cache"
	cacheRepo "arcadeportal.io/infrastructure/database/repository/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryAttemptStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	err     error
}

func newMemoryAttemptStore() *memoryAttemptStore {
	return &memoryAttemptStore{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryAttemptStore) FindOneByteArray(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[key], nil
}

func (m *memoryAttemptStore) DeleteOne(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}

func (m *memoryAttemptStore) UpdateEntry(ctx context.Context, key string, ttl time.Duration, fn func(current []byte) ([]byte, error)) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	next, err := fn(m.entries[key])
	if err != nil {
		return nil, err
	}
	m.entries[key] = next
	m.ttls[key] = ttl
	return next, nil
}

func newTestLedger(store AttemptStore, now *time.Time) *RedisAttemptLedger {
	ledger := NewRedisAttemptLedger(store, 15*time.Minute, 250*time.Millisecond)
	ledger.nowF = func() time.Time { return *now }
	return ledger
}

func TestRedisAttemptLedger_CountsAndResets(t *testing.T) {
	store := newMemoryAttemptStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newTestLedger(store, &now)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		record, err := ledger.RecordFailure(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, i, record.Count)
		assert.Equal(t, now, record.LastAttemptAt)
	}
	assert.Contains(t, store.entries, "face-auth-attempts:a@x.com")
	assert.Equal(t, 15*time.Minute, store.ttls["face-auth-attempts:a@x.com"])

	record, err := ledger.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, record.Count)

	require.NoError(t, ledger.Reset(ctx, "a@x.com"))
	record, err = ledger.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, faceauth.AttemptRecord{}, record)
}

func TestRedisAttemptLedger_StaleRecord(t *testing.T) {
	store := newMemoryAttemptStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newTestLedger(store, &now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := ledger.RecordFailure(ctx, "a@x.com")
		require.NoError(t, err)
	}
	now = now.Add(15 * time.Minute)

	record, err := ledger.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 0, record.Count)

	record, err = ledger.RecordFailure(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, record.Count)
}

func TestRedisAttemptLedger_CorruptEntryReadsAsEmpty(t *testing.T) {
	store := newMemoryAttemptStore()
	store.entries["face-auth-attempts:a@x.com"] = []byte("{not json")
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := newTestLedger(store, &now)

	record, err := ledger.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 0, record.Count)

	record, err = ledger.RecordFailure(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, record.Count)
}

func TestRedisAttemptLedger_FailuresWrapStoreDown(t *testing.T) {
	store := newMemoryAttemptStore()
	store.err = errors.New("i/o timeout")
	now := time.Now()
	ledger := newTestLedger(store, &now)
	ctx := context.Background()

	_, err := ledger.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, faceauth.ErrStoreDown)
	_, err = ledger.RecordFailure(ctx, "a@x.com")
	assert.ErrorIs(t, err, faceauth.ErrStoreDown)
	assert.ErrorIs(t, ledger.Reset(ctx, "a@x.com"), faceauth.ErrStoreDown)
}

func TestRedisAttemptLedger_UnreachableRedisFallsBack(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	shared := NewRedisAttemptLedger(&cacheRepo.RedisRepository{Client: client}, time.Minute, 250*time.Millisecond)
	ctx := context.Background()

	_, err := shared.Get(ctx, "a@x.com")
	require.ErrorIs(t, err, faceauth.ErrStoreDown)

	ledger := faceauth.NewResilientLedger(shared, faceauth.NewMemoryLedger(time.Minute, nil))
	for i := 1; i <= 2; i++ {
		record, err := ledger.RecordFailure(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, i, record.Count)
	}
	record, err := ledger.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, record.Count)
}

// silentListener accepts connections and never answers, like a redis host
// that is up at the TCP level but hung.
func silentListener(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = listener.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			_ = conn.Close()
		}
	})
	return listener.Addr().String()
}

func TestRedisAttemptLedger_HungRedisFallsBackWithinTimeout(t *testing.T) {
	timeout := 250 * time.Millisecond
	client := redisConnection.NewClient(silentListener(t), "", timeout)
	t.Cleanup(func() { _ = client.Close() })

	shared := NewRedisAttemptLedger(&cacheRepo.RedisRepository{Client: client}, time.Minute, timeout)
	ledger := faceauth.NewResilientLedger(shared, faceauth.NewMemoryLedger(time.Minute, nil))
	ctx := context.Background()

	operations := []struct {
		name string
		run  func() error
	}{
		{name: "record failure", run: func() error { _, err := ledger.RecordFailure(ctx, "a@x.com"); return err }},
		{name: "get", run: func() error { _, err := ledger.Get(ctx, "a@x.com"); return err }},
		{name: "reset", run: func() error { return ledger.Reset(ctx, "a@x.com") }},
	}
	for _, op := range operations {
		t.Run(op.name, func(t *testing.T) {
			started := time.Now()
			require.NoError(t, op.run())
			assert.Less(t, time.Since(started), 2*timeout)
		})
	}

	_, err := shared.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, faceauth.ErrStoreDown)
}
