package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
)

const settingsKey = "settings:pricing"

// settingsTTL keeps pricing reads cheap without letting an admin change
// go unnoticed for long. Updates invalidate the key explicitly anyway.
const settingsTTL = 60 * time.Second

// SettingsCache is a short-TTL cache in front of the pricing settings row.
type SettingsCache struct {
	redis *RedisClient
}

// NewSettingsCache creates a new SettingsCache.
func NewSettingsCache(redis *RedisClient) *SettingsCache {
	return &SettingsCache{redis: redis}
}

// Get returns the cached settings, or (nil, nil) on a miss.
func (c *SettingsCache) Get(ctx context.Context) (*models.PricingSettings, error) {
	raw, err := c.redis.Get(ctx, settingsKey)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var s models.PricingSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached settings: %w", err)
	}
	return &s, nil
}

// Set stores the settings with the standard TTL.
func (c *SettingsCache) Set(ctx context.Context, s *models.PricingSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return c.redis.Set(ctx, settingsKey, string(raw), settingsTTL)
}

// Invalidate drops the cached settings so the next read hits the store.
// Called after every admin settings update.
func (c *SettingsCache) Invalidate(ctx context.Context) error {
	return c.redis.Delete(ctx, settingsKey)
}
