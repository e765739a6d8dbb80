package ratelimit

import (
	"net/http"
	"strconv"
)

// KeyFunc extracts the rate-limit key from an HTTP request, typically the
// client IP. An empty key skips limiting for that request.
type KeyFunc func(*http.Request) string

// MiddlewareOption configures middleware behavior.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	failOpen       bool
	onLimitReached func(w http.ResponseWriter, r *http.Request, result *Result)
	onStoreError   func(w http.ResponseWriter, r *http.Request, err error)
}

// WithFailOpen selects the policy for limiter/store errors. Open (the
// default) admits the request so a store outage never blocks intake; closed
// rejects with 503 until the store recovers.
func WithFailOpen(open bool) MiddlewareOption {
	return func(c *middlewareConfig) { c.failOpen = open }
}

// WithOnLimitReached sets a custom 429 writer.
func WithOnLimitReached(fn func(w http.ResponseWriter, r *http.Request, result *Result)) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.onLimitReached = fn
		}
	}
}

// WithOnStoreError sets the writer used when failing closed.
func WithOnStoreError(fn func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.onStoreError = fn
		}
	}
}

// Middleware enforces the limiter per request. Rejected responses carry
// Retry-After plus the X-RateLimit-* headers.
func Middleware(limiter Limiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	if keyFunc == nil {
		panic("ratelimit.Middleware: keyFunc is required")
	}

	cfg := &middlewareConfig{
		failOpen: true,
		onLimitReached: func(w http.ResponseWriter, r *http.Request, result *Result) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		},
		onStoreError: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" || limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				if cfg.failOpen {
					next.ServeHTTP(w, r)
					return
				}
				cfg.onStoreError(w, r, err)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(result.RetryAfter().Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				cfg.onLimitReached(w, r, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
