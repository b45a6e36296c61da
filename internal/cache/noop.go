package cache

import (
	"context"
	"time"

	"performative-scorer/pkg/models"
)

// NoopCache always misses. Used when Redis is unreachable at startup
// or caching is disabled.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (*models.ScoreResult, bool) {
	return nil, false
}

func (NoopCache) Put(ctx context.Context, key string, result *models.ScoreResult, ttl time.Duration) {
}
