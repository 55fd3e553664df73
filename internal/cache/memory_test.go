// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"
)

func newTestMemoryCache(maxSize int) (*MemoryCache, *time.Time) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: maxSize})
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache, _ := newTestMemoryCache(100)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if err := cache.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", string(val))
	}

	if err := cache.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache, now := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "default", []byte("a"), 0)
	_ = cache.Set(ctx, "long", []byte("b"), time.Hour)

	*now = now.Add(2 * time.Minute)

	if _, err := cache.Get(ctx, "default"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("default TTL entry should have expired, got %v", err)
	}
	if _, err := cache.Get(ctx, "long"); err != nil {
		t.Errorf("custom TTL entry should still be present: %v", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	cache, _ := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "directory:list:", []byte("1"), 0)
	_ = cache.Set(ctx, "directory:list:chem", []byte("2"), 0)
	_ = cache.Set(ctx, "profile:7", []byte("3"), 0)

	if err := cache.DeleteByPrefix(ctx, "directory:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if got := cache.Stats().Items; got != 1 {
		t.Errorf("items = %d, want 1", got)
	}
	if _, err := cache.Get(ctx, "profile:7"); err != nil {
		t.Errorf("unrelated key removed: %v", err)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := cache.Stats().Items; got != 0 {
		t.Errorf("items after Clear = %d, want 0", got)
	}
}

func TestMemoryCache_MaxSizeEvictsOldest(t *testing.T) {
	cache, now := newTestMemoryCache(2)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("a"), 0)
	*now = now.Add(time.Second)
	_ = cache.Set(ctx, "b", []byte("b"), 0)
	*now = now.Add(time.Second)
	_ = cache.Set(ctx, "c", []byte("c"), 0)

	if got := cache.Stats().Items; got != 2 {
		t.Errorf("items = %d, want 2", got)
	}
	if _, err := cache.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("oldest entry should have been evicted, got %v", err)
	}

	// overwriting an existing key does not evict
	_ = cache.Set(ctx, "c", []byte("c2"), 0)
	if _, err := cache.Get(ctx, "b"); err != nil {
		t.Errorf("b evicted by an overwrite: %v", err)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache, _ := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "k", []byte("v"), 0)
	_, _ = cache.Get(ctx, "k")
	_, _ = cache.Get(ctx, "k")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Backend != "memory" || stats.Hits != 2 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.HitRate < 66 || stats.HitRate > 67 {
		t.Errorf("hit rate = %v, want ~66.7", stats.HitRate)
	}
}

func TestMemoryCache_ValueCopy(t *testing.T) {
	cache, _ := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	original := []byte("value")
	_ = cache.Set(ctx, "k", original, 0)
	original[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "value" {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}
	got[0] = 'Y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "value" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 50})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := "k" + strconv.Itoa((n*100+j)%75)
				_ = cache.Set(ctx, key, []byte(key), 0)
				_, _ = cache.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	if got := cache.Stats().Items; got > 50 {
		t.Errorf("items = %d, exceeds max size 50", got)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, CleanupInterval: time.Millisecond})
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if err := cache.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
	if _, err := cache.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close = %v, want ErrCacheClosed", err)
	}
}
