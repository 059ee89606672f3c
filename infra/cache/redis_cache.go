// Package cache provides in-memory and Redis implementations of cache.KeyStore.
package cache

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements cache.KeyStore using Redis, so every instance
// consuming the same stream shares one view of processed keys.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
	owned  bool
}

// NewRedisCache creates a RedisCache over an existing client.
func NewRedisCache(client *redis.Client, prefix string, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{client: client, prefix: prefix, logger: logger.With("component", "redis-cache")}
}

// NewRedisCacheFromURL connects to Redis and creates a RedisCache that owns
// its client.
func NewRedisCacheFromURL(url, prefix string, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis cache: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis cache: connection failed: %w", err)
	}
	c := NewRedisCache(client, prefix, logger)
	c.owned = true
	return c, nil
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

// Exists reports whether key is present.
func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		r.logger.Error("Redis cache exists error", "key", key, "error", err)
		return false, err
	}
	r.logger.Debug("Redis cache lookup", "key", key, "hit", n > 0)
	return n > 0, nil
}

// Set stores key for ttl.
func (r *RedisCache) Set(ctx context.Context, key string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.key(key), 1, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "ttl", ttl)
	return nil
}

// Delete removes key.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "key", key)
	return nil
}

// Close releases the client if the cache created it.
func (r *RedisCache) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Close()
}
