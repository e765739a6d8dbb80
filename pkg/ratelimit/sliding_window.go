package ratelimit

import (
	"context"
	"time"
)

// SlidingWindow admits up to limit requests per key within a moving window.
type SlidingWindow struct {
	store  Store
	limit  int
	window time.Duration
}

// NewSlidingWindow creates a sliding-window limiter over the given store.
func NewSlidingWindow(store Store, limit int, window time.Duration) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	return &SlidingWindow{store: store, limit: limit, window: window}, nil
}

// Allow checks whether one request is admitted for the given key.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now()

	allowed, count, oldest, err := sw.store.RecordIfUnder(ctx, key, now, sw.window, sw.limit)
	if err != nil {
		return nil, err
	}

	resetAt := now.Add(sw.window)
	if !oldest.IsZero() {
		resetAt = oldest.Add(sw.window)
	}

	return &Result{
		Allowed:   allowed,
		Limit:     sw.limit,
		Remaining: max(0, sw.limit-count),
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the window for the given key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return sw.store.Delete(ctx, key)
}
