package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps per-key timestamp windows in process memory. Suitable
// for single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often fully-expired keys are evicted.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// NewMemoryStore creates an in-memory store with a background cleanup loop.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:         make(map[string][]time.Time),
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

// RecordIfUnder implements Store.
func (s *MemoryStore) RecordIfUnder(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return false, 0, time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	kept := s.windows[key][:0:len(s.windows[key])]
	for _, ts := range s.windows[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		s.windows[key] = kept
		return false, len(kept), kept[0], nil
	}

	kept = append(kept, now)
	s.windows[key] = kept
	return true, len(kept), kept[0], nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

// Close stops the background cleanup loop.
func (s *MemoryStore) Close() {
	s.cleanupOnce.Do(func() { close(s.stopCleanup) })
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCleanup:
			return
		case <-ticker.C:
			s.evictStale()
		}
	}
}

// evictStale drops keys whose newest timestamp is older than the cleanup
// interval allows to matter; the precise per-window pruning happens on each
// RecordIfUnder call anyway.
func (s *MemoryStore) evictStale() {
	cutoff := time.Now().Add(-24 * time.Hour)

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, window := range s.windows {
		if len(window) == 0 || window[len(window)-1].Before(cutoff) {
			delete(s.windows, key)
		}
	}
}
