package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bitebot/backend/internal/domain"
)

// newTestCache returns a cache whose clock is controlled by the returned advance func.
func newTestCache(t *testing.T) (*MemoryCache, func(time.Duration)) {
	t.Helper()
	cache := NewMemoryCache()
	t.Cleanup(func() { cache.Close() })

	var mu sync.Mutex
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
	return cache, advance
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		key    string
		value  []byte
		ttl    time.Duration
		wait   time.Duration
		wantOK bool
	}{
		{
			name:   "store and retrieve bytes",
			key:    "test-key-1",
			value:  []byte("test-value"),
			ttl:    time.Minute,
			wantOK: true,
		},
		{
			name:   "store and retrieve json document",
			key:    "food:usda:oatmeal",
			value:  []byte(`{"fdcId":"173904","description":"Oats"}`),
			ttl:    time.Minute,
			wantOK: true,
		},
		{
			name:   "expired entry is a miss",
			key:    "test-key-3",
			value:  []byte("expires-soon"),
			ttl:    time.Millisecond,
			wait:   time.Second,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, advance := newTestCache(t)

			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			advance(tt.wait)

			got, err := cache.Get(ctx, tt.key)
			if !tt.wantOK {
				if err != domain.ErrCacheMiss {
					t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != string(tt.value) {
				t.Errorf("Get() = %s, want %s", got, tt.value)
			}
		})
	}
}

func TestMemoryCache_StoresCopies(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	value := []byte("original")
	if err := cache.Set(ctx, "k", value, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "original" {
		t.Errorf("Get() = %s, want original (caller mutation leaked)", got)
	}

	got[0] = 'Y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("Get() = %s, want original (returned slice aliased)", again)
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := cache.Get(ctx, key); err != nil {
		t.Fatalf("Get() before delete error = %v", err)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache, advance := newTestCache(t)
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "exists-test")
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false for non-existent key")
	}

	if err := cache.Set(ctx, "exists-test", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if exists, _ := cache.Exists(ctx, "exists-test"); !exists {
		t.Errorf("Exists() = false, want true after setting value")
	}

	advance(2 * time.Minute)
	if exists, _ := cache.Exists(ctx, "exists-test"); exists {
		t.Errorf("Exists() = true, want false after expiration")
	}
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	cache, advance := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "short", []byte("a"), time.Second)
	cache.Set(ctx, "long", []byte("b"), time.Hour)

	advance(time.Minute)
	cache.removeExpired()

	if size := cache.Size(); size != 1 {
		t.Fatalf("Size() = %d, want 1 after cleanup", size)
	}
	if _, err := cache.Get(ctx, "long"); err != nil {
		t.Errorf("Get(long) error = %v, want nil", err)
	}
}

func TestMemoryCache_SizeAndClear(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 for empty cache", size)
	}

	for i := 0; i < 5; i++ {
		if err := cache.Set(ctx, fmt.Sprintf("key-%d", i), []byte{byte(i)}, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	if size := cache.Size(); size != 5 {
		t.Errorf("Size() = %d, want 5", size)
	}

	cache.Delete(ctx, "key-0")
	if size := cache.Size(); size != 4 {
		t.Errorf("Size() = %d, want 4 after delete", size)
	}

	cache.Clear()
	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache()
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id)
			if err := cache.Set(ctx, key, []byte(key), time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}
