package cache

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"redunap/internal/init/cache"
	"redunap/internal/modules/home"
)

const dashboardKey = "home:dashboard"

type HomeCache struct {
	ch *cache.Cache
}

func NewHomeCache(ch *cache.Cache) *HomeCache {
	return &HomeCache{
		ch: ch,
	}
}

func (c *HomeCache) GetCachedDashboard() (*home.DashboardData, error) {
	data, err := c.ch.Client.Get(context.Background(), dashboardKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, home.ErrCacheMiss
		}
		return nil, home.ErrInternal
	}

	var dashboard home.DashboardData
	if err := json.Unmarshal([]byte(data), &dashboard); err != nil {
		return nil, home.ErrInternal
	}

	return &dashboard, nil
}

func (c *HomeCache) SaveDashboardToCache(dashboard *home.DashboardData) error {
	data, err := json.Marshal(dashboard)
	if err != nil {
		return home.ErrInternal
	}

	if err := c.ch.Client.Set(context.Background(), dashboardKey, data, c.ch.DefaultDashboardTtl).Err(); err != nil {
		return home.ErrInternal
	}
	return nil
}
