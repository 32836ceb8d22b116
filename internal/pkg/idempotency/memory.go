package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryTracker keeps operation state in a process-local ttlcache.
type MemoryTracker struct {
	mu    sync.Mutex
	cache *ttlcache.Cache[string, State]
}

// NewMemory returns an in-memory tracker and starts its expiry loop.
// Call Close to stop it.
func NewMemory() *MemoryTracker {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, State](defaultStateTTL),
		ttlcache.WithDisableTouchOnHit[string, State](),
	)
	go cache.Start()

	return &MemoryTracker{cache: cache}
}

// Acquire tries to start an operation.
func (m *MemoryTracker) Acquire(_ context.Context, key string, lockDuration time.Duration) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item := m.cache.Get(key); item != nil && !item.IsExpired() {
		return parseState(item.Value().String())
	}

	m.cache.Set(key, StateInProgress, lockDuration)
	return StateNone, nil
}

func (m *MemoryTracker) MarkCompleted(_ context.Context, key string, ttl time.Duration) error {
	m.cache.Set(key, StateCompleted, ttl)
	return nil
}

func (m *MemoryTracker) MarkFailed(_ context.Context, key string, ttl time.Duration) error {
	m.cache.Set(key, StateFailed, ttl)
	return nil
}

func (m *MemoryTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	return exec(ctx, m, key, fn, opts...)
}

// Close stops the expiry loop.
func (m *MemoryTracker) Close() error {
	m.cache.Stop()
	return nil
}
