package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps per-key timestamp windows in a Redis sorted set, scored
// by unix milliseconds. Keys expire after one window of inactivity, so stale
// clients clean themselves up without an explicit sweep.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Redis-backed store. Keys are namespaced with the
// given prefix ("ratelimit:" when empty).
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// RecordIfUnder implements Store. The prune-count-append sequence is not a
// transaction; concurrent requests from one client can race past the limit.
func (s *RedisStore) RecordIfUnder(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int, time.Time, error) {
	rkey := s.prefix + key
	cutoff := now.Add(-window).UnixMilli()

	if err := s.client.ZRemRangeByScore(ctx, rkey, "0", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
		return false, 0, time.Time{}, err
	}

	entries, err := s.client.ZRangeWithScores(ctx, rkey, 0, -1).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}

	count := len(entries)
	var oldest time.Time
	if count > 0 {
		oldest = time.UnixMilli(int64(entries[0].Score))
	}

	if count >= limit {
		return false, count, oldest, nil
	}

	// Random member suffix keeps same-millisecond requests distinct.
	member := fmt.Sprintf("%d:%s", now.UnixMilli(), uuid.NewString()[:8])

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, rkey, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	pipe.Expire(ctx, rkey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, count, oldest, err
	}

	if oldest.IsZero() {
		oldest = now
	}
	return true, count + 1, oldest, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
