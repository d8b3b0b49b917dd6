package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/service"
)

const heatmapCacheKey = "safety:heatmap"

type HeatmapCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewHeatmapCache(redisClient *redis.Client, ttl time.Duration) service.HeatmapCache {
	return &HeatmapCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// Get пытается получить тепловую карту из Redis. Промах кеша - (nil, nil).
func (c *HeatmapCache) Get(ctx context.Context) ([]models.ScoredZone, error) {
	val, err := c.redisClient.Get(ctx, heatmapCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get heatmap from cache: %w", err)
	}

	var zones []models.ScoredZone
	if err := json.Unmarshal(val, &zones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal heatmap from cache: %w", err)
	}
	return zones, nil
}

// Set сохраняет тепловую карту в Redis
func (c *HeatmapCache) Set(ctx context.Context, zones []models.ScoredZone) error {
	val, err := json.Marshal(zones)
	if err != nil {
		return fmt.Errorf("failed to marshal heatmap for cache: %w", err)
	}
	if err := c.redisClient.Set(ctx, heatmapCacheKey, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set heatmap in cache: %w", err)
	}
	return nil
}
