// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache for serialized list responses.
// The unfiltered post list, the category list with live counts, and the
// distinct-tag list are cached briefly and invalidated on every post
// mutation, so cached category counts never survive a write.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached list responses.
	listKeyPrefix = "list:"

	// DefaultListTTL is how long a cached list stays valid without a
	// mutation forcing it out earlier.
	DefaultListTTL = time.Minute
)

// Well-known list cache keys.
const (
	KeyPosts      = "posts"
	KeyCategories = "categories"
	KeyTags       = "tags"
)

// ListCache caches serialized JSON list responses in Valkey.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns (nil, false) on miss.
func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key)
	return val, true
}

// Set stores a response body for a key with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, key string, body []byte) {
	if err := lc.client.Set(ctx, listKeyPrefix+key, body, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// Invalidate removes all cached lists. Called after every post mutation so
// post lists, category counts, and tag sets are recomputed on the next read.
func (lc *ListCache) Invalidate(ctx context.Context) {
	keys := []string{
		listKeyPrefix + KeyPosts,
		listKeyPrefix + KeyCategories,
		listKeyPrefix + KeyTags,
	}
	if err := lc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("list cache invalidate error", "error", err)
	}
	slog.Debug("list cache invalidated")
}
