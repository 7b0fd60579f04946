package cache

import (
	"context"
	"fmt"
	"os"
	"redunap/config"
	"time"

	"github.com/go-redis/redis/v8"
)

type Cache struct {
	Client                 *redis.Client
	StateExpiration        time.Duration
	DefaultStoryListTtl    time.Duration
	DefaultCategoryListTtl time.Duration
	DefaultDashboardTtl    time.Duration
}

func NewCache(cfg config.CacheConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		DB:       cfg.Db,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Cache{
		Client:                 client,
		StateExpiration:        cfg.StateExpiration,
		DefaultStoryListTtl:    cfg.DefaultStoryListTtl,
		DefaultCategoryListTtl: cfg.DefaultCategoryListTtl,
		DefaultDashboardTtl:    cfg.DefaultDashboardTtl,
	}, nil
}
