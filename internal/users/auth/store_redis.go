// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taibuivan/bayan/internal/platform/constants"
	"github.com/taibuivan/bayan/internal/platform/sec"
)

// RedisSessionCache implements [SessionCache] using Redis.
type RedisSessionCache struct {
	client redis.UniversalClient
}

// NewSessionCache creates a new Redis-backed [SessionCache].
func NewSessionCache(client redis.UniversalClient) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

// sessionKey never embeds the raw token.
func sessionKey(accessToken string) string {
	return constants.RedisPrefixSession + sec.HashToken(accessToken)
}

/*
Get returns the cached user for accessToken.

Returns:
  - *User: The cached user, nil on a miss
  - bool: Whether the token was cached
  - error: Connectivity or decoding errors
*/
func (repository *RedisSessionCache) Get(context context.Context, accessToken string) (*User, bool, error) {
	raw, err := repository.client.Get(context, sessionKey(accessToken)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	user := &User{}
	if err := json.Unmarshal(raw, user); err != nil {
		return nil, false, fmt.Errorf("redis_session_decode_failed: %w", err)
	}
	return user, true, nil
}

// Set stores user under accessToken for ttl.
func (repository *RedisSessionCache) Set(context context.Context, accessToken string, user *User, ttl time.Duration) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := repository.client.Set(context, sessionKey(accessToken), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

// Delete forgets accessToken.
func (repository *RedisSessionCache) Delete(context context.Context, accessToken string) error {
	if err := repository.client.Del(context, sessionKey(accessToken)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
