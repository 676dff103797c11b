package ratelimiter

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Basic(t *testing.T) {
	// 1 token per 100ms, max 5 tokens in the bucket
	rl := New(100*time.Millisecond, 5)
	defer rl.Close()

	ctx := context.Background()

	// Use all 5 tokens immediately
	for i := 0; i < 5; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Failed to get token %d: %v", i+1, err)
		}
	}

	// All tokens used, the next call must wait for a refill
	start := time.Now()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("Failed to get token after waiting: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 80*time.Millisecond {
		t.Errorf("Expected to wait at least 80ms, but waited %v", elapsed)
	}
}

func TestRateLimiter_TryAcquire(t *testing.T) {
	rl := New(100*time.Millisecond, 2)
	defer rl.Close()

	if !rl.TryAcquire() {
		t.Error("Failed to acquire first token")
	}
	if !rl.TryAcquire() {
		t.Error("Failed to acquire second token")
	}

	// 3rd attempt should fail
	if rl.TryAcquire() {
		t.Error("Should not have acquired 3rd token")
	}
}

func TestPooledRateLimiter(t *testing.T) {
	prl := NewPooled(100*time.Millisecond, 2)
	defer prl.Close()

	ctx := context.Background()

	// Hosts are limited independently
	if err := prl.Wait(ctx, "host1"); err != nil {
		t.Fatalf("Failed to acquire from host1: %v", err)
	}
	if err := prl.Wait(ctx, "host2"); err != nil {
		t.Fatalf("Failed to acquire from host2: %v", err)
	}

	if !prl.TryAcquire("host1") {
		t.Error("Should be able to acquire another token from host1")
	}
	if !prl.TryAcquire("host2") {
		t.Error("Should be able to acquire another token from host2")
	}

	// Both hosts should now be at their limit
	if prl.TryAcquire("host1") {
		t.Error("host1 should be at limit")
	}
	if prl.TryAcquire("host2") {
		t.Error("host2 should be at limit")
	}
}
