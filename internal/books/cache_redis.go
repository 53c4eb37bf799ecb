package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
)

const listCacheKey = "books:list"

// RedisListCache stores the catalog listing in Redis with a TTL. Entries are
// sonic-encoded JSON.
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListCache(client *redis.Client, ttl time.Duration) *RedisListCache {
	return &RedisListCache{client: client, ttl: ttl}
}

func (c *RedisListCache) GetList(ctx context.Context) ([]Book, error) {
	payload, err := c.client.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached listing: %w", err)
	}

	var result []Book
	if err := sonic.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode cached listing: %w", err)
	}
	return result, nil
}

func (c *RedisListCache) SetList(ctx context.Context, list []Book) error {
	payload, err := sonic.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode listing: %w", err)
	}
	if err := c.client.Set(ctx, listCacheKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached listing: %w", err)
	}
	return nil
}

func (c *RedisListCache) InvalidateList(ctx context.Context) error {
	if err := c.client.Del(ctx, listCacheKey).Err(); err != nil {
		return fmt.Errorf("invalidate cached listing: %w", err)
	}
	return nil
}
