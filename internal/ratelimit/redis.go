package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared-cache CounterStore for deployments with more than
// one process instance.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (Window, error) {
	fullKey := s.prefix + key

	count, err := s.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return Window{}, fmt.Errorf("increment counter: %w", err)
	}

	if count == 1 {
		if err := s.client.PExpire(ctx, fullKey, window).Err(); err != nil {
			return Window{}, fmt.Errorf("set window expiry: %w", err)
		}
	}

	ttl, err := s.client.PTTL(ctx, fullKey).Result()
	if err != nil {
		return Window{}, fmt.Errorf("read window expiry: %w", err)
	}
	if ttl < 0 {
		// Key exists without an expiry (e.g. a lost PExpire); reattach it so
		// the counter cannot live forever.
		ttl = window
		if err := s.client.PExpire(ctx, fullKey, window).Err(); err != nil {
			return Window{}, fmt.Errorf("reset window expiry: %w", err)
		}
	}

	return Window{Count: int(count), ResetAt: time.Now().Add(ttl)}, nil
}
