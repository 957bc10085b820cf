package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_UnlimitedWhenRateIsZero(t *testing.T) {
	r := NewRateLimiter(0)

	start := time.Now()
	for i := 0; i < 20; i++ {
		require.NoError(t, r.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestRateLimiter_Observe(t *testing.T) {
	r := NewRateLimiter(0)

	assert.False(t, r.Observe(nil))
	assert.False(t, r.Observe(&http.Response{StatusCode: http.StatusOK}))
	assert.True(t, r.BlockedUntil().IsZero())

	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	resp.Header.Set(HeaderRetryAfter, "30")
	assert.True(t, r.Observe(resp))
	assert.WithinDuration(t, time.Now().Add(30*time.Second), r.BlockedUntil(), 2*time.Second)
}

func TestRateLimiter_WaitHonoursContextWhileBlocked(t *testing.T) {
	r := NewRateLimiter(0)
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	resp.Header.Set(HeaderRetryAfter, "60")
	r.Observe(resp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}
