// Package cache provides Redis-backed caching and rate limiting.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/models"
)

// RedisCache wraps the Redis client with the service's key conventions.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// New connects to Redis and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping verifies Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) key(parts ...string) string {
	k := c.keyPrefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

// VerdictKey derives the cache key for a normalized text. Hashing keeps
// transcript content out of Redis keys.
func VerdictKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// GetVerdict returns a cached verdict, or nil on miss.
func (c *RedisCache) GetVerdict(ctx context.Context, key string) (*models.Verdict, error) {
	data, err := c.client.Get(ctx, c.key("verdict", key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var v models.Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetVerdict caches a verdict for ttl.
func (c *RedisCache) SetVerdict(ctx context.Context, key string, v *models.Verdict, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key("verdict", key), data, ttl).Err()
}

// CheckRateLimit counts one request for clientID within the window and
// reports whether it is still under the limit.
func (c *RedisCache) CheckRateLimit(ctx context.Context, clientID string, limit int, window time.Duration) (bool, error) {
	key := c.key("ratelimit", clientID)

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() <= int64(limit), nil
}
