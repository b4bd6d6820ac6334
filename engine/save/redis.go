package save

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/nathoo/gacharealm/errors"
)

// RedisConfig holds the configuration for the Redis store.
type RedisConfig struct {
	Client redis.UniversalClient
	TTL    time.Duration // 0 keeps snapshots forever
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.TTL < 0 {
		return errors.InvalidArgument("ttl cannot be negative")
	}
	return nil
}

// RedisStore keeps snapshots as plain Redis string values.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store.
func NewRedis(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &RedisStore{client: cfg.Client, ttl: cfg.TTL}, nil
}

var _ Store = (*RedisStore)(nil)

// Load gets the value under key.
func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, notFound(key)
		}
		return nil, errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to get save %s from Redis", key)
	}
	return data, nil
}

// Save sets the value under key.
func (r *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	if err := requireKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to store save %s in Redis", key)
	}
	return nil
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete save %s from Redis", key)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
