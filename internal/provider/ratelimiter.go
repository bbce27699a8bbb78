package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket guarding the free-tier API quotas.
type RateLimiter struct {
	mu          sync.Mutex
	tokens      int
	maxTokens   int
	refillEvery time.Duration
	lastRefill  time.Time
}

// NewRateLimiter allows maxTokens calls per refillEvery window.
func NewRateLimiter(maxTokens int, refillEvery time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:      maxTokens,
		maxTokens:   maxTokens,
		refillEvery: refillEvery,
		lastRefill:  time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens > 0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.refillEvery):
		}
	}
}

func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill)
	newTokens := int(elapsed / r.refillEvery)
	if newTokens > 0 {
		r.tokens += newTokens
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = r.lastRefill.Add(time.Duration(newTokens) * r.refillEvery)
	}
}
