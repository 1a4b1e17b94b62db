package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore is a shared Store backed by Redis with native key TTLs.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing go-redis client as a session store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Set(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, refreshPrefix+jti, userID, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, jti string) (string, bool, error) {
	val, err := s.client.Get(ctx, refreshPrefix+jti).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisStore) Delete(ctx context.Context, jti string) error {
	return s.client.Del(ctx, refreshPrefix+jti).Err()
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	// The client is shared with other components; its owner closes it.
	return nil
}
