package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"academy-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ActiveCoursesKey = "courses:active"
	DefaultCourseTTL = 5 * time.Minute
)

// CourseCache is a read-through cache for the public course list. A miss or
// a Redis failure is reported as (nil, false) so callers fall back to the DB.
type CourseCache interface {
	GetActive(ctx context.Context) ([]models.Course, bool)
	SetActive(ctx context.Context, courses []models.Course)
	Invalidate(ctx context.Context)
}

// RedisCourseCache stores the list as one JSON blob.
type RedisCourseCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCourseCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCourseCache {
	if ttl <= 0 {
		ttl = DefaultCourseTTL
	}
	return &RedisCourseCache{redis: client, ttl: ttl, logger: logger}
}

// NewRedisClient parses redisURL and checks connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (c *RedisCourseCache) GetActive(ctx context.Context) ([]models.Course, bool) {
	data, err := c.redis.Get(ctx, ActiveCoursesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Course cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var courses []models.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		c.logger.Warn("Failed to unmarshal cached courses", zap.Error(err))
		return nil, false
	}
	return courses, true
}

func (c *RedisCourseCache) SetActive(ctx context.Context, courses []models.Course) {
	data, err := json.Marshal(courses)
	if err != nil {
		c.logger.Warn("Failed to marshal courses for cache", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, ActiveCoursesKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache courses", zap.Error(err))
	}
}

func (c *RedisCourseCache) Invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, ActiveCoursesKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate course cache", zap.Error(err))
	}
}
