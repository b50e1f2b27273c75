package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowsUpToLimit(t *testing.T) {
	store := NewMemoryStore()
	limiter := NewLimiter(store, 5, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow returned error on hit %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("hit %d should be allowed", i)
		}
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow returned error on sixth hit: %v", err)
	}
	if ok {
		t.Fatal("sixth hit within the window should be denied")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	limiter := NewLimiter(store, 1, time.Minute)
	ctx := context.Background()

	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatal("first hit for first key should be allowed")
	}
	if ok, _ := limiter.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatal("first hit for second key should be allowed")
	}
	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); ok {
		t.Fatal("second hit for first key should be denied")
	}
}

func TestLimiterWindowResets(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	limiter := NewLimiter(store, 2, time.Minute)
	ctx := context.Background()

	limiter.Allow(ctx, "10.0.0.1")
	limiter.Allow(ctx, "10.0.0.1")
	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); ok {
		t.Fatal("third hit within the window should be denied")
	}

	now = now.Add(61 * time.Second)
	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatal("hit after the window expired should be allowed")
	}
}
