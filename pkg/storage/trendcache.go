package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SanchoLoco/NoPressure/pkg/common/logger"
	"github.com/SanchoLoco/NoPressure/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

// TrendCache keeps the latest computed healing trend per wound in Redis so
// dashboard reads don't recompute over full scan histories. Entries expire
// after the configured TTL; a miss simply means the caller recomputes.
type TrendCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewTrendCache(client *redis.Client, prefix string, ttl time.Duration) *TrendCache {
	if prefix == "" {
		prefix = "trend"
	}
	return &TrendCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *TrendCache) key(woundID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, woundID)
}

func (c *TrendCache) Put(ctx context.Context, trend models.HealingTrend) error {
	payload, err := json.Marshal(trend)
	if err != nil {
		return fmt.Errorf("marshalling trend: %w", err)
	}
	if err := c.client.Set(ctx, c.key(trend.WoundID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching trend: %w", err)
	}
	return nil
}

// Get returns the cached trend, or nil on a miss.
func (c *TrendCache) Get(ctx context.Context, woundID string) (*models.HealingTrend, error) {
	payload, err := c.client.Get(ctx, c.key(woundID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached trend: %w", err)
	}

	var trend models.HealingTrend
	if err := json.Unmarshal(payload, &trend); err != nil {
		logger.Log.WithError(err).Warn("dropping corrupt trend cache entry")
		c.client.Del(ctx, c.key(woundID))
		return nil, nil
	}
	return &trend, nil
}

func (c *TrendCache) Invalidate(ctx context.Context, woundID string) error {
	return c.client.Del(ctx, c.key(woundID)).Err()
}
