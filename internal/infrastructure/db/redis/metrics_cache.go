package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "metrics:"
	scanBatch = 500
)

// MetricsCache stores aggregation results shared across instances.
// Key format: metrics:<cache key>
type MetricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMetricsCache creates a MetricsCache wrapping the given Redis client.
func NewMetricsCache(client *redis.Client, ttl time.Duration) *MetricsCache {
	return &MetricsCache{client: client, ttl: ttl}
}

func (c *MetricsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("metrics cache get: %w", err)
	}
	return v, true, nil
}

func (c *MetricsCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("metrics cache set: %w", err)
	}
	return nil
}

// Clear deletes every metrics key. Keys of other features in the same
// database are left alone.
func (c *MetricsCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("metrics cache clear: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("metrics cache scan: %w", err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("metrics cache clear: %w", err)
		}
	}
	return nil
}

func (c *MetricsCache) key(k string) string {
	return keyPrefix + k
}
