// Package cache stores finished analysis results keyed by image content
// digest. Cache failures degrade to misses; callers never see them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"performative-scorer/pkg/models"
)

const keyPrefix = "performative_analysis:"

// Key derives the cache key for an image from its content digest.
// Identical bytes always map to the same key.
func Key(imageData []byte) string {
	sum := sha256.Sum256(imageData)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// ResultCache is the read-through store for analysis results.
// Implementations handle backend failures internally and report them
// as misses.
type ResultCache interface {
	// Get returns the cached result and true on a hit.
	Get(ctx context.Context, key string) (*models.ScoreResult, bool)

	// Put stores the result with the given TTL. Best effort.
	Put(ctx context.Context, key string, result *models.ScoreResult, ttl time.Duration)
}
