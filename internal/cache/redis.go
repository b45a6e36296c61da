package cache

import (
	"context"
	"encoding/json"
	"time"

	"performative-scorer/internal/logger"
	"performative-scorer/pkg/models"

	"github.com/redis/go-redis/v9"
)

// RedisCache backs ResultCache with a Redis instance. Every backend
// error is logged and treated as a miss so analysis keeps working when
// Redis is down.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Ping verifies connectivity, for startup checks and health reporting.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.ScoreResult, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.WithError(err).Warn("Cache read failed, treating as miss")
		return nil, false
	}

	var result models.ScoreResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.WithError(err).Warn("Cache entry corrupt, treating as miss")
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Put(ctx context.Context, key string, result *models.ScoreResult, ttl time.Duration) {
	data, err := json.Marshal(result)
	if err != nil {
		logger.WithError(err).Warn("Failed to encode result for cache")
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.WithError(err).Warn("Cache write failed")
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
