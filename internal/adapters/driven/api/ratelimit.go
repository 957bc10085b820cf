package api

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds).
const HeaderRetryAfter = "Retry-After"

// RateLimiter paces outgoing requests and honours Retry-After on 429.
type RateLimiter struct {
	mu         sync.Mutex
	bucket     *rate.Limiter // Proactive throttling
	blockUntil time.Time     // From Retry-After
}

// NewRateLimiter creates a limiter allowing perSecond requests with a
// burst of one. A non-positive rate disables proactive throttling.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	until := r.blockUntil
	r.mu.Unlock()

	if d := time.Until(until); d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}

	return r.bucket.Wait(ctx)
}

// Observe records a response. It reports whether the backend rate limited it.
func (r *RateLimiter) Observe(resp *http.Response) bool {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return false
	}

	wait := time.Second
	if v := resp.Header.Get(HeaderRetryAfter); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			wait = time.Duration(seconds) * time.Second
		}
	}

	r.mu.Lock()
	r.blockUntil = time.Now().Add(wait)
	r.mu.Unlock()
	return true
}

// BlockedUntil returns the time before which Wait will not return.
func (r *RateLimiter) BlockedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blockUntil
}
