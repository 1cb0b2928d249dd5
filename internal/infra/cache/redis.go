package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xavierca1/fortis-crm/internal/report"
)

const (
	keyPrefix  = "fortis:"
	versionKey = keyPrefix + "stats:version"
)

// Connect accepts a redis:// URL or a bare host:port.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// RedisStatsCache stores dashboards as JSON. Keys embed a version counter;
// Invalidate bumps the counter so every older entry becomes unreachable and
// expires on its own. The counter doubles as the cache generation.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) Generation(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return v, nil
}

func (c *RedisStatsCache) Get(ctx context.Context, key string) (*report.GlobalStats, bool, error) {
	gen, err := c.Generation(ctx)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.client.Get(ctx, versionedKey(gen, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var out report.GlobalStats
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

// Set writes under gen only while gen is still current. WATCH on the version
// key aborts the write if Invalidate runs between the check and EXEC.
func (c *RedisStatsCache) Set(ctx context.Context, key string, gen int64, stats report.GlobalStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, versionedKey(gen, key), raw, c.ttl)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func versionedKey(gen int64, key string) string {
	return fmt.Sprintf("%sv%d:%s", keyPrefix, gen, key)
}
