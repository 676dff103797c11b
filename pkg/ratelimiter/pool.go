package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// PooledRateLimiter manages one rate limiter per host so that calls to
// different API hosts never throttle each other.
type PooledRateLimiter struct {
	limiters map[string]*RateLimiter
	mutex    sync.RWMutex
	interval time.Duration
	burst    int
}

// NewPooled creates a pooled rate limiter.
func NewPooled(interval time.Duration, burst int) *PooledRateLimiter {
	return &PooledRateLimiter{
		limiters: make(map[string]*RateLimiter),
		interval: interval,
		burst:    burst,
	}
}

// Wait waits for permission to make a request to the specified host.
func (p *PooledRateLimiter) Wait(ctx context.Context, host string) error {
	return p.getLimiter(host).Wait(ctx)
}

// TryAcquire attempts to acquire permission without blocking.
func (p *PooledRateLimiter) TryAcquire(host string) bool {
	return p.getLimiter(host).TryAcquire()
}

func (p *PooledRateLimiter) getLimiter(host string) *RateLimiter {
	p.mutex.RLock()
	limiter, exists := p.limiters[host]
	p.mutex.RUnlock()

	if exists {
		return limiter
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	// Double-check in case another goroutine created it
	if limiter, exists := p.limiters[host]; exists {
		return limiter
	}

	limiter = New(p.interval, p.burst)
	p.limiters[host] = limiter
	return limiter
}

// Close closes all rate limiters in the pool.
func (p *PooledRateLimiter) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, limiter := range p.limiters {
		limiter.Close()
	}
	p.limiters = make(map[string]*RateLimiter)
}
