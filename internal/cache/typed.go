// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// TypedCache stores JSON-encoded values of type T under a key namespace.
type TypedCache[T any] struct {
	cache     Cacher
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewTypedCache wraps cache. Keys are stored as namespace + ":" + key.
func NewTypedCache[T any](cache Cacher, namespace string, ttl time.Duration, logger *slog.Logger) *TypedCache[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypedCache[T]{
		cache:     cache,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger,
	}
}

func (c *TypedCache[T]) key(k string) string {
	return c.namespace + ":" + k
}

// Get returns the cached value for key. Undecodable entries count as misses.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := c.cache.Get(ctx, c.key(key))
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Warn("dropping undecodable cache entry", "key", c.key(key), "error", err)
		_ = c.cache.Delete(ctx, c.key(key))
		return value, false
	}
	return value, true
}

// Set stores value under key with the cache's TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	return c.cache.Set(ctx, c.key(key), data, c.ttl)
}

// GetOrSet returns the cached value or computes, stores and returns it.
// A failing store is logged; the computed value is still returned.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	value, err := fn(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value); err != nil {
		c.logger.Warn("cache store failed", "key", c.key(key), "error", err)
	}
	return value, nil
}

// Invalidate drops every entry of the namespace.
func (c *TypedCache[T]) Invalidate(ctx context.Context) error {
	return c.cache.DeleteByPrefix(ctx, c.namespace+":")
}

// Delete removes one key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, c.key(key))
}
