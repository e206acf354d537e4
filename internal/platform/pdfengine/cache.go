// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pdfengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bayan/internal/platform/constants"
)

// TextCache stores extracted page text.
type TextCache interface {
	Get(ctx context.Context, key string) (text string, found bool, err error)
	Set(ctx context.Context, key, text string) error
}

// TextKey builds the cache key for one page of one document version.
func TextKey(name, version string, page int) string {
	return fmt.Sprintf("%s%s:%s:%d", constants.RedisPrefixPageText, name, version, page)
}

// RedisTextCache keeps page text in Redis with a fixed TTL.
type RedisTextCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisTextCache creates a cache; a non-positive ttl uses constants.PageTextTTL.
func NewRedisTextCache(client redis.UniversalClient, ttl time.Duration) *RedisTextCache {
	if ttl <= 0 {
		ttl = constants.PageTextTTL
	}
	return &RedisTextCache{client: client, ttl: ttl}
}

// Get implements [TextCache].
func (c *RedisTextCache) Get(ctx context.Context, key string) (string, bool, error) {
	text, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// Set implements [TextCache].
func (c *RedisTextCache) Set(ctx context.Context, key, text string) error {
	return c.client.Set(ctx, key, text, c.ttl).Err()
}
