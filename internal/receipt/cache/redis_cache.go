package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/warungos/datastore/internal/receipt/domain"
)

// RedisTemplateCache caches receipt templates in redis.
type RedisTemplateCache struct {
	client *redis.Client
}

// NewRedisTemplateCache connects a template cache to redis.
func NewRedisTemplateCache(addr string, password string, db int) *RedisTemplateCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisTemplateCache{client: client}
}

func (c *RedisTemplateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisTemplateCache) Close() error {
	return c.client.Close()
}

func (c *RedisTemplateCache) Get(ctx context.Context, key string) (*domain.Template, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var tpl domain.Template
	if err := json.Unmarshal([]byte(val), &tpl); err != nil {
		return nil, false, err
	}
	return &tpl, true, nil
}

func (c *RedisTemplateCache) Set(ctx context.Context, key string, value *domain.Template, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *RedisTemplateCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
