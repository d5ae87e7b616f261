package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared cache backend for multi-instance
// deployments. Expiry is delegated to redis TTLs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(cacheDSN string, ttl time.Duration) (*RedisStore, error) {
	if cacheDSN == "" {
		return nil, fmt.Errorf("redis cache_dsn is required")
	}

	options, err := redis.ParseURL(cacheDSN)
	if err != nil {
		return nil, fmt.Errorf("parse redis cache_dsn: %w", err)
	}

	return &RedisStore{
		client: redis.NewClient(options),
		ttl:    ttl,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key Key, dest any) (bool, error) {
	payload, err := s.client.Get(ctx, key.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return false, err
	}

	return true, nil
}

func (s *RedisStore) Put(ctx context.Context, key Key, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key.String(), payload, s.ttl).Err()
}

func (s *RedisStore) Invalidate(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}

	rawKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		rawKeys = append(rawKeys, key.String())
	}

	return s.client.Del(ctx, rawKeys...).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
