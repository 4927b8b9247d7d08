package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saludtech/profiling-api/internal/core/domain"
)

const predictionTTL = 24 * time.Hour

// PredictionCache stores model outputs keyed by a hash of the model input,
// so identical inputs skip a round trip to the model backend.
type PredictionCache struct {
	client *redis.Client
}

// NewPredictionCache creates a PredictionCache wrapping the given Redis client.
func NewPredictionCache(client *redis.Client) *PredictionCache {
	return &PredictionCache{client: client}
}

// Get returns the cached result for key, or (nil, nil) on a cache miss.
func (c *PredictionCache) Get(ctx context.Context, key string) (*domain.ProfileResult, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("prediction cache get: %w", err)
	}

	var res domain.ProfileResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("prediction cache decode: %w", err)
	}
	return &res, nil
}

// Set records the result for key (expires after predictionTTL).
func (c *PredictionCache) Set(ctx context.Context, key string, res domain.ProfileResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("prediction cache encode: %w", err)
	}
	return c.client.Set(ctx, key, raw, predictionTTL).Err()
}
