// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// newTestRedisCache skips the test unless PORTAL_TEST_REDIS_URL is set.
func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("PORTAL_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: PORTAL_TEST_REDIS_URL not set")
	}

	opts := DefaultRedisCacheOptions()
	opts.URL = url
	opts.Prefix = "portal-test:"
	c, err := NewRedisCache(context.Background(), opts)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Clear(context.Background())
		_ = c.Close()
	})
	_ = c.Clear(context.Background())
	return c
}

func TestRedisCache_Basic(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get() = %q, %v", got, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "directory:all", []byte("1"), 0)
	_ = c.Set(ctx, "directory:q:x", []byte("2"), 0)
	_ = c.Set(ctx, "profile:1", []byte("3"), 0)

	if err := c.DeleteByPrefix(ctx, "directory:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if _, err := c.Get(ctx, "directory:all"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("directory:all not removed: %v", err)
	}
	if _, err := c.Get(ctx, "profile:1"); err != nil {
		t.Errorf("profile:1 removed: %v", err)
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisCacheOptions{}); err == nil {
		t.Error("expected error for empty URL")
	}
	if _, err := NewRedisCache(context.Background(), RedisCacheOptions{URL: "http://not-redis"}); err == nil {
		t.Error("expected error for non-redis URL")
	}
}

func TestRedisCache_ClosedOperations(t *testing.T) {
	c := newTestRedisCache(t)
	_ = c.Close()

	if err := c.Set(context.Background(), "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
}
