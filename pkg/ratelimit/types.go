package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is admitted.
	Allowed bool

	// Limit is the maximum number of requests allowed per window.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// ResetAt is when the oldest request in the window expires, freeing a
	// slot for a rejected client.
	ResetAt time.Time
}

// RetryAfter returns how long a rejected client should wait before trying
// again. Returns 0 when the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Limiter is the interface consumed by the HTTP middleware.
type Limiter interface {
	// Allow checks whether one request is admitted for the given key,
	// recording it when it is.
	Allow(ctx context.Context, key string) (*Result, error)

	// Reset clears the window for the given key.
	Reset(ctx context.Context, key string) error
}

// Store persists per-key request timestamps.
type Store interface {
	// RecordIfUnder prunes timestamps older than now minus window, then
	// appends now if fewer than limit remain. It reports whether the
	// request was admitted, the number of timestamps in the window after
	// the operation, and the oldest surviving timestamp (zero when the
	// window is empty).
	RecordIfUnder(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (allowed bool, count int, oldest time.Time, err error)

	// Delete removes all state for the given key.
	Delete(ctx context.Context, key string) error
}

// Config holds env-driven limiter settings. FailOpen selects the policy for
// store outages: admit everything (availability over strictness) or reject
// until the store recovers.
type Config struct {
	Limit    int           `env:"RATE_LIMIT_MAX" envDefault:"5"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`
	FailOpen bool          `env:"RATE_LIMIT_FAIL_OPEN" envDefault:"true"`
}
