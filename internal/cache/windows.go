package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/tutor-marketplace/internal/config"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

// WindowCache caches a teacher's full weekly schedule for public reads.
// A miss is (nil, false, nil).
type WindowCache interface {
	GetWindows(ctx context.Context, teacherID uint) ([]models.AvailabilityWindow, bool, error)
	SetWindows(ctx context.Context, teacherID uint, windows []models.AvailabilityWindow) error
	Invalidate(ctx context.Context, teacherID uint) error
}

type RedisWindowCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisWindowCache(client *redis.Client, ttl time.Duration) *RedisWindowCache {
	return &RedisWindowCache{client: client, ttl: ttl}
}

func (c *RedisWindowCache) GetWindows(
	ctx context.Context,
	teacherID uint,
) ([]models.AvailabilityWindow, bool, error) {

	data, err := c.client.Get(ctx, windowsKey(teacherID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var windows []models.AvailabilityWindow
	if err := json.Unmarshal(data, &windows); err != nil {
		return nil, false, fmt.Errorf("decode cached windows: %w", err)
	}
	return windows, true, nil
}

func (c *RedisWindowCache) SetWindows(
	ctx context.Context,
	teacherID uint,
	windows []models.AvailabilityWindow,
) error {

	payload, err := json.Marshal(windows)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, windowsKey(teacherID), payload, c.ttl).Err()
}

func (c *RedisWindowCache) Invalidate(ctx context.Context, teacherID uint) error {
	return c.client.Del(ctx, windowsKey(teacherID)).Err()
}

func (c *RedisWindowCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func windowsKey(teacherID uint) string {
	return fmt.Sprintf("cache:teacher:%d:windows", teacherID)
}

// Noop is used when REDIS_ADDR is empty. Every lookup misses.
type Noop struct{}

func (Noop) GetWindows(context.Context, uint) ([]models.AvailabilityWindow, bool, error) {
	return nil, false, nil
}

func (Noop) SetWindows(context.Context, uint, []models.AvailabilityWindow) error { return nil }

func (Noop) Invalidate(context.Context, uint) error { return nil }
