package ports

import (
	"context"
	"time"
)

// RateLimitRepository provides low-level atomic operations for rate limiting
// counters. It abstracts storage (in-process map or Redis). Implementations
// must be safe for concurrent use.
type RateLimitRepository interface {
	// IncrementWindow increments the request counter for clientKey in the
	// current fixed window and returns the updated count and the window start
	// time. ttl bounds how long the counter is retained by the store.
	IncrementWindow(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RateLimitDecision is the outcome of consuming one request unit.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is when the current window ends.
	Reset time.Time
	// RetryAfter is how long a rejected client should wait; zero when allowed.
	RetryAfter time.Duration
}

// RateLimiterService enforces per-client fixed-window quotas.
// Implementations MUST fail open: a storage error yields an allowing decision
// alongside the error so callers can log it without rejecting traffic.
type RateLimiterService interface {
	Allow(ctx context.Context, clientKey string) (RateLimitDecision, error)
}
