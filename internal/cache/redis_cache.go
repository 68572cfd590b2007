package cache

import (
	"context"
	"fmt"
	"time"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/example/ordermart/internal/domain"
)

type redisCache struct {
	client radix.Client
}

// NewRedisCache 基于 radix 连接池实现缓存端口
func NewRedisCache(client radix.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(_ context.Context, key string) (string, error) {
	var stored string
	if err := c.client.Do(radix.Cmd(&stored, "GET", key)); err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, domain.ErrUnavailable)
	}
	// 缓存的都是 JSON 快照，空串只会来自不存在的键
	if stored == "" {
		return "", domain.ErrNotFound
	}
	return stored, nil
}

func (c *redisCache) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	seconds := int(ttl / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	if err := c.client.Do(radix.FlatCmd(nil, "SETEX", key, seconds, value)); err != nil {
		return fmt.Errorf("redis setex %s: %w", key, domain.ErrUnavailable)
	}
	return nil
}

func (c *redisCache) Delete(_ context.Context, key string) (int, error) {
	var n int
	if err := c.client.Do(radix.Cmd(&n, "DEL", key)); err != nil {
		return 0, fmt.Errorf("redis del %s: %w", key, domain.ErrUnavailable)
	}
	return n, nil
}
