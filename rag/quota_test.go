package rag

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/yyvop9/modify-final-project/internal/metrics"
	"github.com/yyvop9/modify-final-project/store/kv"
)

// memoryKV is an in-memory KV with the same check-and-increment atomicity
// the Redis script provides.
type memoryKV struct {
	mu       sync.Mutex
	counters map[string]int64
	values   map[string][]byte
	failing  bool
}

func newMemoryKV() *memoryKV {
	return &memoryKV{counters: map[string]int64{}, values: map[string][]byte{}}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errors.New("kv down")
	}
	value, ok := m.values[key]
	if !ok {
		return nil, kv.ErrKeyNotFound
	}
	return value, nil
}

func (m *memoryKV) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("kv down")
	}
	m.values[key] = value
	return nil
}

func (m *memoryKV) CheckAndIncr(_ context.Context, key string, limit int64, _ time.Duration) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return 0, false, errors.New("kv down")
	}
	if m.counters[key] >= limit {
		return m.counters[key], false, nil
	}
	m.counters[key]++
	return m.counters[key], true, nil
}

func (m *memoryKV) Close() {}

func TestQuotaGuardEnforcesLimit(t *testing.T) {
	store := newMemoryKV()
	guard := NewQuotaGuard(store, 3, metrics.New())
	ctx := context.Background()

	// Remaining budget decreases strictly across granted calls.
	for want := int64(2); want >= 0; want-- {
		ok, remaining := guard.Acquire(ctx)
		require.True(t, ok)
		require.Equal(t, want, remaining)
	}

	ok, remaining := guard.Acquire(ctx)
	require.False(t, ok)
	require.Zero(t, remaining)
	// A denied call must not consume budget.
	require.Equal(t, int64(3), store.counters[guard.todayKey()])
}

func TestQuotaGuardUnlimited(t *testing.T) {
	guard := NewQuotaGuard(newMemoryKV(), 0, metrics.New())
	for i := 0; i < 100; i++ {
		ok, remaining := guard.Acquire(context.Background())
		require.True(t, ok)
		require.Equal(t, int64(-1), remaining)
	}
}

func TestQuotaGuardDeniesOnStoreFailure(t *testing.T) {
	store := newMemoryKV()
	store.failing = true
	guard := NewQuotaGuard(store, 10, metrics.New())
	ok, _ := guard.Acquire(context.Background())
	require.False(t, ok)
}

func TestQuotaGuardConcurrent(t *testing.T) {
	store := newMemoryKV()
	guard := NewQuotaGuard(store, 10, metrics.New())

	var wg sync.WaitGroup
	granted := make([]bool, 50)
	for i := range granted {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			granted[i], _ = guard.Acquire(context.Background())
		}(i)
	}
	wg.Wait()

	var passed int
	for _, ok := range granted {
		if ok {
			passed++
		}
	}
	require.Equal(t, 10, passed)
	require.Equal(t, int64(10), store.counters[guard.todayKey()])
}

func TestQuotaGuardKeyRollsDaily(t *testing.T) {
	store := newMemoryKV()
	guard := NewQuotaGuard(store, 1, metrics.New())

	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	guard.now = func() time.Time { return day }
	ok, _ := guard.Acquire(context.Background())
	require.True(t, ok)
	ok, _ = guard.Acquire(context.Background())
	require.False(t, ok)

	guard.now = func() time.Time { return day.Add(24 * time.Hour) }
	ok, _ = guard.Acquire(context.Background())
	require.True(t, ok)
}
