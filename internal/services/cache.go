package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"finboard/internal/cache"
	"finboard/internal/log"
)

// PayloadCache memoizes upstream payloads per caller. Keys are the hashed
// Authorization value plus the endpoint, so raw tokens never sit in memory
// as map keys and one caller's mutation only evicts that caller's entries.
type PayloadCache struct {
	lru    *cache.LRUCache[any]
	logger *log.Logger
}

func NewPayloadCache(size int, ttl time.Duration, logger *log.Logger) *PayloadCache {
	if logger == nil {
		logger = log.Discard()
	}
	return &PayloadCache{
		lru:    cache.NewLRUCache[any](size, ttl),
		logger: logger.WithComponent(log.ComponentCache),
	}
}

// CleanExpired lets a cache.Manager sweep the cache.
func (c *PayloadCache) CleanExpired() int {
	return c.lru.CleanExpired()
}

// Size reports the number of cached payloads.
func (c *PayloadCache) Size() int {
	if c == nil {
		return 0
	}
	return c.lru.Size()
}

// Invalidate drops every payload cached for auth.
func (c *PayloadCache) Invalidate(ctx context.Context, auth string) {
	if c == nil {
		return
	}
	if n := c.lru.DeletePrefix(tokenKey(auth) + ":"); n > 0 {
		c.logger.DebugContext(ctx, "Invalidated cached payloads", log.FieldCount, n)
	}
}

func tokenKey(auth string) string {
	sum := sha256.Sum256([]byte(auth))
	return hex.EncodeToString(sum[:16])
}

// fetchCached returns the cached payload for (auth, endpoint) or calls fetch
// and caches its result. Cached values are shared and must not be mutated.
func fetchCached[T any](ctx context.Context, c *PayloadCache, auth, endpoint string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return fetch(ctx)
	}
	key := tokenKey(auth) + ":" + endpoint
	if v, ok := c.lru.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.logger.DebugContext(ctx, "Payload served from cache", log.FieldEndpoint, endpoint, log.FieldCacheHit, true)
			return typed, nil
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	c.lru.Set(key, v)
	return v, nil
}
