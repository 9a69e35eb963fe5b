package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"droply/models"

	"github.com/go-redis/redis/v8"
)

// IntervalCache holds recently computed open-interval listings so the
// public discovery endpoints do not rerun the projection on every read.
// Schedule edits invalidate eagerly; booking-side changes age out with the
// TTL, which is fine because reservation itself always goes through the
// conditional slot update.
type IntervalCache interface {
	Get(ctx context.Context, providerID string, from, to time.Time) ([]models.OpenInterval, bool)
	Set(ctx context.Context, providerID string, from, to time.Time, intervals []models.OpenInterval)
	Invalidate(ctx context.Context, providerID string)
}

// RedisIntervalCache is the production IntervalCache. Keys embed a
// per-provider version counter; Invalidate bumps the counter, which
// orphans every cached window for that provider at once and lets the
// stale entries expire on their own.
type RedisIntervalCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisIntervalCache wraps the given client with the given entry TTL.
func NewRedisIntervalCache(client *redis.Client, ttl time.Duration) *RedisIntervalCache {
	return &RedisIntervalCache{Client: client, TTL: ttl}
}

func (c *RedisIntervalCache) key(ctx context.Context, providerID string, from, to time.Time) string {
	ver, err := c.Client.Get(ctx, "schedule:ver:"+providerID).Int64()
	if err != nil {
		ver = 0
	}
	return fmt.Sprintf("schedule:open:%s:%d:%d:%d", providerID, ver, from.Unix(), to.Unix())
}

func (c *RedisIntervalCache) Get(ctx context.Context, providerID string, from, to time.Time) ([]models.OpenInterval, bool) {
	data, err := c.Client.Get(ctx, c.key(ctx, providerID, from, to)).Bytes()
	if err != nil {
		return nil, false
	}
	var intervals []models.OpenInterval
	if err := json.Unmarshal(data, &intervals); err != nil {
		return nil, false
	}
	return intervals, true
}

func (c *RedisIntervalCache) Set(ctx context.Context, providerID string, from, to time.Time, intervals []models.OpenInterval) {
	data, err := json.Marshal(intervals)
	if err != nil {
		return
	}
	// Best effort; a failed write just means a recompute on the next read.
	c.Client.Set(ctx, c.key(ctx, providerID, from, to), data, c.TTL)
}

func (c *RedisIntervalCache) Invalidate(ctx context.Context, providerID string) {
	c.Client.Incr(ctx, "schedule:ver:"+providerID)
}
