// Package cache keeps the most recent duty per type in Redis so the
// frontend's polling does not hit the database on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/officechores/duty-api/entity"
)

const recentDutyTTL = time.Hour

type RecentDutyCache struct {
	rdb *redis.Client
}

// New connects to Redis using a redis:// or rediss:// URL.
func New(ctx context.Context, url string) (*RecentDutyCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RecentDutyCache{rdb: rdb}, nil
}

func key(dutyType entity.DutyType) string {
	return "recent_duty:" + string(dutyType)
}

// Get returns the cached recent duty for the given type, or nil on a miss.
// A corrupt cache entry counts as a miss.
func (c *RecentDutyCache) Get(ctx context.Context, dutyType entity.DutyType) (*entity.DutyResponse, error) {
	val, err := c.rdb.Get(ctx, key(dutyType)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var duty entity.DutyResponse
	if err := json.Unmarshal([]byte(val), &duty); err != nil {
		slog.Warn("invalid JSON in recent duty cache", "duty_type", dutyType)
		return nil, nil
	}

	return &duty, nil
}

// Set caches the recent duty for its type with a one hour TTL.
func (c *RecentDutyCache) Set(ctx context.Context, dutyType entity.DutyType, duty *entity.DutyResponse) error {
	b, err := json.Marshal(duty)
	if err != nil {
		return fmt.Errorf("marshal duty: %w", err)
	}

	if err := c.rdb.Set(ctx, key(dutyType), b, recentDutyTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Invalidate drops the cached duty for the given type. Called whenever a
// completion toggle changes what "most recent" should report.
func (c *RecentDutyCache) Invalidate(ctx context.Context, dutyType entity.DutyType) error {
	if err := c.rdb.Del(ctx, key(dutyType)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}
