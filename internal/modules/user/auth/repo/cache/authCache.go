package cache

import (
	"context"

	"github.com/go-redis/redis/v8"

	"redunap/internal/init/cache"
	"redunap/internal/modules/user"
)

const statePrefix = "oauth_state:"

type AuthCache struct {
	ch *cache.Cache
}

func NewAuthCache(ch *cache.Cache) *AuthCache {
	return &AuthCache{
		ch: ch,
	}
}

func (c *AuthCache) SaveStateCode(state string) error {
	err := c.ch.Client.Set(context.Background(), statePrefix+state, "1", c.ch.StateExpiration).Err()
	if err != nil {
		return user.ErrInternal
	}
	return nil
}

// VerifyStateCode проверяет state и удаляет его, чтобы исключить повторное использование.
func (c *AuthCache) VerifyStateCode(state string) (bool, error) {
	key := statePrefix + state

	_, err := c.ch.Client.Get(context.Background(), key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, user.ErrInternal
	}

	c.ch.Client.Del(context.Background(), key)
	return true, nil
}
