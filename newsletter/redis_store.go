package newsletter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one JSON value per subscriber under sub:<email>.
type RedisStore struct {
	client        redis.UniversalClient
	scanBatchSize int64
}

// NewRedisStore creates a Redis-backed subscriber store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, scanBatchSize: 1000}
}

// Upsert implements Store. SET overwrites, which is exactly the upsert
// semantics subscribe needs.
func (s *RedisStore) Upsert(ctx context.Context, sub Subscriber) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal subscriber: %w", err)
	}
	return s.client.Set(ctx, KeyPrefix+sub.Email, data, 0).Err()
}

// Delete implements Store. DEL of a missing key returns 0, not an error.
func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, KeyPrefix+email).Err()
}

// List implements Store using SCAN so a large list never blocks Redis.
func (s *RedisStore) List(ctx context.Context) ([]Subscriber, error) {
	var subs []Subscriber
	var cursor uint64

	for {
		keys, next, err := s.client.Scan(ctx, cursor, KeyPrefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("scan subscribers: %w", err)
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Bytes()
			if err == redis.Nil {
				// Deleted between SCAN and GET; skip.
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("read subscriber %s: %w", key, err)
			}

			var sub Subscriber
			if err := json.Unmarshal(data, &sub); err != nil {
				return nil, fmt.Errorf("decode subscriber %s: %w", key, err)
			}
			subs = append(subs, sub)
		}

		cursor = next
		if cursor == 0 {
			return subs, nil
		}
	}
}
