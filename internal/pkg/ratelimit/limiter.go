// Package ratelimit provides a fixed-window request limiter keyed per
// source address, used by the public verification endpoints.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store counts hits per key within a rolling window.
type Store interface {
	// Incr increments the counter for key and returns the new count.
	// The counter expires window after its first increment.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter enforces a maximum number of hits per key per window.
type Limiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewLimiter creates a limiter allowing limit hits per window.
func NewLimiter(store Store, limit int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		limit:  int64(limit),
		window: window,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}

// MemoryStore is an in-process Store for deployments without redis and
// for tests. Expired windows are dropped lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	// now is replaceable in tests.
	now func() time.Time
}

type window struct {
	count   int64
	resetAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, d time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(d)}
		s.windows[key] = w
	}
	w.count++
	return w.count, nil
}
