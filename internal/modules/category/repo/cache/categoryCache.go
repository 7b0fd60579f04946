package cache

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"redunap/internal/init/cache"
	"redunap/internal/modules/category"
)

const categoryListKey = "categories:list"

type CategoryCache struct {
	ch *cache.Cache
}

func NewCategoryCache(ch *cache.Cache) *CategoryCache {
	return &CategoryCache{
		ch: ch,
	}
}

func (c *CategoryCache) GetCachedCategoryList() ([]*category.Category, error) {
	data, err := c.ch.Client.Get(context.Background(), categoryListKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, category.ErrCacheMiss
		}
		return nil, category.ErrInternal
	}

	var categories []*category.Category
	if err := json.Unmarshal([]byte(data), &categories); err != nil {
		return nil, category.ErrInternal
	}

	return categories, nil
}

func (c *CategoryCache) SaveCategoryListToCache(categories []*category.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return category.ErrInternal
	}

	if err := c.ch.Client.Set(context.Background(), categoryListKey, data, c.ch.DefaultCategoryListTtl).Err(); err != nil {
		return category.ErrInternal
	}
	return nil
}

func (c *CategoryCache) InvalidateCategoryListCache() error {
	return c.ch.Client.Del(context.Background(), categoryListKey).Err()
}
