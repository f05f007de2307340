// Package cache keeps computed dashboard snapshots in redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryhub/internal/reports"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const dashboardKeyPrefix = "libraryhub:dashboard:"

// dashboardKey names the snapshot for one library day, so figures computed
// before midnight are never served after it.
func dashboardKey(day time.Time) string {
	return dashboardKeyPrefix + day.Format("2006-01-02")
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient connects to the redis server at redisURL (redis://host:port/db).
func NewClient(redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// NewDashboardCache wraps client. A nil client gives a cache that never hits.
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl}
}

// Get returns the snapshot cached for day, or nil on a miss.
func (c *DashboardCache) Get(ctx context.Context, day time.Time) (*reports.Dashboard, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, dashboardKey(day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var d reports.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		// a snapshot we cannot read is as good as none
		return nil, nil
	}
	return &d, nil
}

func (c *DashboardCache) Set(ctx context.Context, day time.Time, d *reports.Dashboard) error {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardKey(day), raw, c.ttl).Err()
}

// Invalidate drops every day's snapshot so the next read recomputes it.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, dashboardKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
