// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// share.go provides a Valkey-backed cache for rendered share pages.
// Published snapshots are immutable, so a share page renders once and
// is served from Valkey until the TTL lapses or the snapshot is
// deleted.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// shareKeyPrefix is the Valkey key prefix for cached share pages.
	shareKeyPrefix = "share:"

	// DefaultShareTTL is how long a rendered share page stays cached.
	// Snapshots never change, so the TTL only bounds memory use.
	DefaultShareTTL = time.Hour
)

// ShareCache holds rendered HTML for published articles, keyed by
// share ID.
type ShareCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewShareCache creates a share-page cache backed by the given Valkey
// client. A nil client produces a cache that always misses, so a
// deployment without Valkey still works.
func NewShareCache(client *redis.Client, ttl time.Duration) *ShareCache {
	if ttl == 0 {
		ttl = DefaultShareTTL
	}
	return &ShareCache{client: client, ttl: ttl}
}

// Get retrieves the cached HTML for a share ID.
func (c *ShareCache) Get(ctx context.Context, shareID string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, shareKeyPrefix+shareID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("share cache get error", "id", shareID, "error", err)
		return nil, false
	}
	slog.Debug("share cache hit", "id", shareID)
	return val, true
}

// Set stores rendered HTML for a share ID with the configured TTL.
func (c *ShareCache) Set(ctx context.Context, shareID string, html []byte) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, shareKeyPrefix+shareID, html, c.ttl).Err(); err != nil {
		slog.Warn("share cache set error", "id", shareID, "error", err)
	}
}

// Invalidate removes the cached page for a share ID. Called when a
// published snapshot is deleted.
func (c *ShareCache) Invalidate(ctx context.Context, shareID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, shareKeyPrefix+shareID).Err(); err != nil {
		slog.Warn("share cache invalidate error", "id", shareID, "error", err)
	}
}
