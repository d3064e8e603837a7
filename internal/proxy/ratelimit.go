package proxy

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter applies a token-bucket limit per upstream mirror so the proxy
// never triggers the mirrors' own throttling.
type RateLimiter struct {
	limiters   map[string]*rate.Limiter
	mu         sync.RWMutex
	rateLimit  rate.Limit
	burstLimit int
}

// NewRateLimiter creates a limiter with the given per-upstream rate and burst.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		rateLimit:  rate.Limit(ratePerSecond),
		burstLimit: burst,
	}
}

// DefaultRateLimiter returns a limiter at 5 requests/second, burst of 10.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(5, 10)
}

// Wait blocks until a request to the upstream is allowed or ctx is canceled.
func (r *RateLimiter) Wait(ctx context.Context, upstream string) error {
	return r.getLimiter(upstream).Wait(ctx)
}

// Allow reports whether a request to the upstream may proceed immediately.
func (r *RateLimiter) Allow(upstream string) bool {
	return r.getLimiter(upstream).Allow()
}

func (r *RateLimiter) getLimiter(upstream string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[upstream]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = r.limiters[upstream]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(r.rateLimit, r.burstLimit)
	r.limiters[upstream] = limiter
	return limiter
}
