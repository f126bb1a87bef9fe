package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache stores computed dashboard stats for a short time.
type StatsCache interface {
	Get(ctx context.Context, key string) (*DashboardStats, error)
	Set(ctx context.Context, key string, stats *DashboardStats, ttl time.Duration) error
}

// RedisStatsCache keeps dashboard stats as JSON in Redis.
type RedisStatsCache struct {
	client *redis.Client
}

func NewRedisStatsCache(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{client: client}
}

// Get returns nil, nil on a miss.
func (c *RedisStatsCache) Get(ctx context.Context, key string) (*DashboardStats, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, key string, stats *DashboardStats, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}
