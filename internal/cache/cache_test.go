package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type identitySnapshot struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache[identitySnapshot]()
	ctx := context.Background()

	err := cache.Set(ctx, "alice", identitySnapshot{ID: "1", Username: "alice"}, time.Minute)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := cache.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if value.ID != "1" || value.Username != "alice" {
		t.Errorf("Unexpected value %+v", value)
	}
}

func TestMemoryCache_GetMiss(t *testing.T) {
	cache := NewMemoryCache[identitySnapshot]()

	_, err := cache.Get(context.Background(), "non-existent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	if err := cache.Set(ctx, "expire-key", 100, 50*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := cache.Get(ctx, "expire-key"); err != nil {
		t.Fatalf("Get failed before expiration: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := cache.Get(ctx, "expire-key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after expiration, got %v", err)
	}
}

func TestMemoryCache_Cleanup(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	_ = cache.Set(ctx, "short", 1, 10*time.Millisecond)
	_ = cache.Set(ctx, "long", 2, time.Minute)

	time.Sleep(30 * time.Millisecond)

	if removed := cache.Cleanup(); removed != 1 {
		t.Errorf("Expected 1 expired entry removed, got %d", removed)
	}
	if cache.Len() != 1 {
		t.Errorf("Expected 1 entry left, got %d", cache.Len())
	}
	if _, err := cache.Get(ctx, "long"); err != nil {
		t.Errorf("Live entry should survive cleanup: %v", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	if err := cache.Set(ctx, "delete-key", 1, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := cache.Delete(ctx, "delete-key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "delete-key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	_ = cache.Set(ctx, "key1", 1, time.Minute)
	_ = cache.Set(ctx, "key2", 2, time.Minute)

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := cache.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Error("Expected cache to be cleared after Close")
	}
}

func TestMemoryCache_Health(t *testing.T) {
	cache := NewMemoryCache[int64]()

	if err := cache.Health(context.Background()); err != nil {
		t.Errorf("Health check should always succeed for memory cache, got: %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				_ = cache.Set(ctx, "concurrent-key", int64(n*1000+j), time.Minute)
			}
		}(i)
		go func() {
			defer wg.Done()
			for range 100 {
				_, _ = cache.Get(ctx, "concurrent-key")
				cache.Cleanup()
			}
		}()
	}
	wg.Wait()

	if _, err := cache.Get(ctx, "concurrent-key"); err != nil {
		t.Errorf("Cache corrupted after concurrent access: %v", err)
	}
}

func TestMemoryCache_GetWithFetch_CacheMiss(t *testing.T) {
	c := NewMemoryCache[identitySnapshot]()
	ctx := context.Background()

	fetchCount := 0
	fetchFunc := func(ctx context.Context, key string) (identitySnapshot, error) {
		fetchCount++
		return identitySnapshot{ID: "42", Username: key}, nil
	}

	value, err := c.GetWithFetch(ctx, "bob", time.Minute, fetchFunc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value.Username != "bob" {
		t.Errorf("expected bob, got %q", value.Username)
	}

	// Second call should use cache (fetchFunc not called again)
	if _, err := c.GetWithFetch(ctx, "bob", time.Minute, fetchFunc); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if fetchCount != 1 {
		t.Errorf("expected fetchFunc called once, got %d", fetchCount)
	}
}

func TestMemoryCache_GetWithFetch_FetchErrorNotCached(t *testing.T) {
	c := NewMemoryCache[identitySnapshot]()
	ctx := context.Background()

	expectedErr := errors.New("fetch failed")
	var calls atomic.Int32
	fetch := func(ctx context.Context, key string) (identitySnapshot, error) {
		calls.Add(1)
		return identitySnapshot{}, expectedErr
	}

	for range 2 {
		if _, err := c.GetWithFetch(ctx, "key", time.Minute, fetch); !errors.Is(err, expectedErr) {
			t.Errorf("expected fetch error, got %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("failed fetches must not be cached, fetch called %d times", calls.Load())
	}
}

func TestEncodeDecodeValue(t *testing.T) {
	encoded, err := encodeValue(identitySnapshot{ID: "7", Username: "carol"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodeValue[identitySnapshot](encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Username != "carol" {
		t.Errorf("expected carol, got %q", decoded.Username)
	}

	if _, err := decodeValue[identitySnapshot]("{not json"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}
