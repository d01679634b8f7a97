package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"printshop/m/domain"
)

// StatsCache holds the last computed inventory stats.
type StatsCache interface {
	Get(ctx context.Context, threshold float64) (domain.InventoryStats, bool)
	Set(ctx context.Context, stats domain.InventoryStats) error
	Invalidate(ctx context.Context) error
}

// noopCache is used when no Redis is configured.
type noopCache struct{}

func (noopCache) Get(context.Context, float64) (domain.InventoryStats, bool) {
	return domain.InventoryStats{}, false
}
func (noopCache) Set(context.Context, domain.InventoryStats) error { return nil }
func (noopCache) Invalidate(context.Context) error                 { return nil }

const defaultStatsPrefix = "printshop:inventory:stats:"

// RedisStatsCache stores stats per low-stock threshold in Redis. Redis
// failures are reported as misses.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string

	hits   int64
	misses int64
}

type CacheOption func(*RedisStatsCache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RedisStatsCache) {
		c.ttl = ttl
	}
}

func WithPrefix(prefix string) CacheOption {
	return func(c *RedisStatsCache) {
		c.prefix = prefix
	}
}

func NewRedisStatsCache(client *redis.Client, opts ...CacheOption) *RedisStatsCache {
	c := &RedisStatsCache{
		client: client,
		ttl:    30 * time.Second,
		prefix: defaultStatsPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisStatsCache) key(threshold float64) string {
	return fmt.Sprintf("%s%g", c.prefix, threshold)
}

func (c *RedisStatsCache) Get(ctx context.Context, threshold float64) (domain.InventoryStats, bool) {
	var stats domain.InventoryStats
	val, err := c.client.Get(ctx, c.key(threshold)).Bytes()
	if err != nil {
		atomic.AddInt64(&c.misses, 1)
		return stats, false
	}
	if err := json.Unmarshal(val, &stats); err != nil {
		atomic.AddInt64(&c.misses, 1)
		return stats, false
	}
	atomic.AddInt64(&c.hits, 1)
	return stats, true
}

func (c *RedisStatsCache) Set(ctx context.Context, stats domain.InventoryStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, c.key(stats.LowStockBoundary), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set stats in redis: %w", err)
	}
	return nil
}

// Invalidate drops every cached threshold.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan stats keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete stats keys: %w", err)
	}
	return nil
}

// Counters reports cache hits and misses since start.
func (c *RedisStatsCache) Counters() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}
