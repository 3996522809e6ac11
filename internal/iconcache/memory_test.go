package iconcache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryBasic(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory(1024 * 1024) // 1MB

	stats := cache.Stats()
	if stats.IconCount != 0 {
		t.Errorf("Expected empty cache, got %d icons", stats.IconCount)
	}

	if _, ok := cache.Get(ctx, "missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	loadCount := 0
	data, err := cache.GetOrLoad(ctx, "https://example.com/a.png", func() ([]byte, error) {
		loadCount++
		return []byte("first"), nil
	})
	if err != nil {
		t.Fatalf("Failed to load icon: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("Expected 'first', got '%s'", data)
	}

	data, err = cache.GetOrLoad(ctx, "https://example.com/a.png", func() ([]byte, error) {
		loadCount++
		return []byte("second"), nil
	})
	if err != nil {
		t.Fatalf("Failed to get cached icon: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("Expected cached 'first', got '%s'", data)
	}
	if loadCount != 1 {
		t.Errorf("Expected loader called once, got %d times", loadCount)
	}

	stats = cache.Stats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("hits/misses = %d/%d, want 1/2", stats.Hits, stats.Misses)
	}
}

func TestMemoryLoaderError(t *testing.T) {
	cache := NewMemory(0)
	boom := errors.New("boom")
	_, err := cache.GetOrLoad(context.Background(), "k", func() ([]byte, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped boom", err)
	}
	if cache.Stats().IconCount != 0 {
		t.Error("failed load was cached")
	}
}

func TestMemoryEviction(t *testing.T) {
	ctx := context.Background()
	// Room for about three 1KB icons
	cache := NewMemory(3 * (1024 + entryOverhead))

	for i := 0; i < 10; i++ {
		cache.Set(ctx, fmt.Sprintf("icon-%d", i), make([]byte, 1024))
	}

	stats := cache.Stats()
	if stats.IconCount != 3 {
		t.Errorf("Expected 3 icons after eviction, got %d", stats.IconCount)
	}
	if stats.UsedMemory > cache.maxMemory {
		t.Errorf("Cache exceeded max memory: %d > %d", stats.UsedMemory, cache.maxMemory)
	}
	if _, ok := cache.Get(ctx, "icon-0"); ok {
		t.Error("oldest icon survived eviction")
	}
	if _, ok := cache.Get(ctx, "icon-9"); !ok {
		t.Error("newest icon was evicted")
	}
}

func TestMemoryLRUOrder(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory(2 * (10 + entryOverhead))

	cache.Set(ctx, "a", make([]byte, 10))
	cache.Set(ctx, "b", make([]byte, 10))
	cache.Get(ctx, "a") // a becomes most recent
	cache.Set(ctx, "c", make([]byte, 10))

	if _, ok := cache.Get(ctx, "b"); ok {
		t.Error("b should have been evicted as least recently used")
	}
	if _, ok := cache.Get(ctx, "a"); !ok {
		t.Error("a should have survived")
	}
}

func TestMemoryTooLarge(t *testing.T) {
	cache := NewMemory(100)
	if err := cache.Add("big", make([]byte, 1000)); err == nil {
		t.Error("Expected error adding icon larger than cache")
	}
}

func TestMemoryRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory(0)
	cache.Set(ctx, "a", []byte("1"))
	cache.Set(ctx, "b", []byte("2"))

	cache.Remove("a")
	if _, ok := cache.Get(ctx, "a"); ok {
		t.Error("removed icon still cached")
	}

	cache.Clear()
	stats := cache.Stats()
	if stats.IconCount != 0 || stats.UsedMemory != 0 {
		t.Errorf("after Clear: %+v", stats)
	}
}

func TestRedisUnavailableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewRedis(client, "", time.Minute, nil)
	ctx := context.Background()
	cache.Set(ctx, "k", []byte("v"))
	if _, ok := cache.Get(ctx, "k"); ok {
		t.Error("Get succeeded against an unreachable server")
	}
	if cache.key("k") != DefaultKeyPrefix+"k" {
		t.Errorf("key = %q", cache.key("k"))
	}
}

func TestOpenRedisFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "not-a-number")

	client := OpenRedisFromEnv()
	defer client.Close()

	opts := client.Options()
	if opts.Addr != "cache.internal:6380" {
		t.Errorf("Addr = %q, want cache.internal:6380", opts.Addr)
	}
	if opts.DB != 0 {
		t.Errorf("DB = %d, want 0", opts.DB)
	}
}
