package ratelimiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter wraps golang.org/x/time/rate.Limiter with the
// token-interval configuration style used across our clients.
type RateLimiter struct {
	limiter *rate.Limiter
	burst   int
	rps     int
}

// New creates a rate limiter.
// interval: time between token generation (e.g. 100ms for 10 RPS)
// burst: maximum number of tokens in the bucket
func New(interval time.Duration, burst int) *RateLimiter {
	rps := int(time.Second / interval)
	if rps <= 0 {
		rps = 1
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		burst:   burst,
		rps:     rps,
	}
}

// NewFromRPS creates a rate limiter directly from requests per second.
func NewFromRPS(rps, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		burst:   burst,
		rps:     rps,
	}
}

// Wait blocks until a token is available or the context is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// TryAcquire attempts to acquire a token without blocking.
func (rl *RateLimiter) TryAcquire() bool {
	return rl.limiter.Allow()
}

// Close is a no-op kept for symmetry with pooled limiters.
func (rl *RateLimiter) Close() {}

// Stats returns approximate limiter statistics.
func (rl *RateLimiter) Stats() (available, capacity int, interval time.Duration) {
	available = int(rl.limiter.Tokens())
	if available < 0 {
		available = 0
	}
	capacity = rl.burst
	interval = time.Second / time.Duration(rl.rps)
	return
}
