package cache

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"redunap/internal/init/cache"
	"redunap/internal/modules/story"
)

// frontPageKey кэширует только первую страницу ленты без фильтров для
// анонимных читателей. Персонализированные выборки не кэшируются.
const frontPageKey = "stories:front_page"

type StoryCache struct {
	ch *cache.Cache
}

func NewStoryCache(ch *cache.Cache) *StoryCache {
	return &StoryCache{
		ch: ch,
	}
}

func (c *StoryCache) GetCachedFrontPage() (*story.StoryListResponse, error) {
	data, err := c.ch.Client.Get(context.Background(), frontPageKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, story.ErrCacheMiss
		}
		return nil, story.ErrInternal
	}

	var list story.StoryListResponse
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, story.ErrInternal
	}

	return &list, nil
}

func (c *StoryCache) SaveFrontPageToCache(list *story.StoryListResponse) error {
	data, err := json.Marshal(list)
	if err != nil {
		return story.ErrInternal
	}

	if err := c.ch.Client.Set(context.Background(), frontPageKey, data, c.ch.DefaultStoryListTtl).Err(); err != nil {
		return story.ErrInternal
	}
	return nil
}

func (c *StoryCache) InvalidateFrontPageCache() error {
	return c.ch.Client.Del(context.Background(), frontPageKey).Err()
}
