package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/redis/go-redis/v9"
)

const CacheKeyPrefix = "batch_cache:"

// RedisCache keeps completed batch results keyed by job fingerprint.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.BatchResult, error) {
	data, err := c.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return decodeResult(data)
}

func (c *RedisCache) Set(ctx context.Context, key string, result *models.BatchResult) error {
	data, err := encodeResult(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, CacheKeyPrefix+key, data, c.ttl).Err()
}

func (c *RedisCache) HealthCheck(ctx context.Context) string {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return models.HealthUnhealthy + ": " + err.Error()
	}
	return models.HealthHealthy
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func encodeResult(result *models.BatchResult) ([]byte, error) {
	if result.Archive == nil {
		return nil, fmt.Errorf("refusing to cache a result without archive")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return data, nil
}

func decodeResult(data []byte) (*models.BatchResult, error) {
	var result models.BatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}
