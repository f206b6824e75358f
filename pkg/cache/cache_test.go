package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/artboard/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	ak := k.AssetKey("https://example.com/a.png")
	if !strings.HasPrefix(ak, "asset:") || len(ak) != len("asset:")+64 {
		t.Errorf("AssetKey unexpected: %s", ak)
	}
	if ak == k.AssetKey("https://example.com/b.png") {
		t.Error("Different URLs should produce different keys")
	}

	ek1 := k.ExportKey("hash123", ExportKeyOpts{Format: "png", Scale: 1})
	ek2 := k.ExportKey("hash123", ExportKeyOpts{Format: "png", Scale: 2})
	if ek1 == ek2 {
		t.Error("Different ExportKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "staging:")
	key := scoped.AssetKey("https://example.com/a.png")
	if key != "staging:"+NewDefaultKeyer().AssetKey("https://example.com/a.png") {
		t.Errorf("ScopedKeyer AssetKey unexpected: %s", key)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if !strings.HasPrefix(nilInner.ExportKey("h", ExportKeyOpts{}), "p:export:") {
		t.Error("nil inner should fall back to DefaultKeyer")
	}
}

func TestKeyType(t *testing.T) {
	tests := []struct{ key, want string }{
		{"asset:abc", "asset"},
		{"staging:export:abc", "export"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := keyType(tt.key); got != tt.want {
			t.Errorf("keyType(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestBackends(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc.now = now

	backends := map[string]Cache{
		"file":   fc,
		"memory": NewMemoryCache(now),
	}
	for name, c := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, ok, err := c.Get(ctx, "missing"); ok || err != nil {
				t.Fatalf("Get(missing) = %v, %v", ok, err)
			}
			if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
				t.Fatal(err)
			}
			if err := c.Set(ctx, "forever", []byte("f"), 0); err != nil {
				t.Fatal(err)
			}
			data, ok, err := c.Get(ctx, "k")
			if err != nil || !ok || string(data) != "v" {
				t.Fatalf("Get(k) = %q, %v, %v", data, ok, err)
			}

			clock = clock.Add(2 * time.Minute)
			if _, ok, _ := c.Get(ctx, "k"); ok {
				t.Error("expired entry returned")
			}
			if _, ok, _ := c.Get(ctx, "forever"); !ok {
				t.Error("entry without ttl expired")
			}

			if err := c.Delete(ctx, "forever"); err != nil {
				t.Fatal(err)
			}
			if err := c.Delete(ctx, "forever"); err != nil {
				t.Errorf("second Delete error: %v", err)
			}
			if _, ok, _ := c.Get(ctx, "forever"); ok {
				t.Error("deleted entry returned")
			}
		})
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get(corrupt) = %v, %v", ok, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear() = %d, %v", n, err)
	}
	left, _ := os.ReadDir(c.Dir())
	if len(left) != 0 {
		t.Errorf("%d entries left after Clear", len(left))
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestJSONHelpers(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	c := NewMemoryCache(nil)
	type dims struct{ W, H int }

	var got dims
	if err := GetJSON(ctx, c, "asset:x", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("GetJSON(missing) = %v", err)
	}
	if err := SetJSON(ctx, c, "asset:x", dims{W: 4, H: 3}, 0); err != nil {
		t.Fatal(err)
	}
	if err := GetJSON(ctx, c, "asset:x", &got); err != nil || got.W != 4 {
		t.Fatalf("GetJSON() = %+v, %v", got, err)
	}
	c.Set(ctx, "asset:bad", []byte("nope"), 0)
	if err := GetJSON(ctx, c, "asset:bad", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON(undecodable) = %v", err)
	}
	if hooks.hits != 1 || hooks.misses != 2 || hooks.sets != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestRedisCachePrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	c := NewRedisCache(client, "")
	defer c.Close()
	if c.prefix != "artboard:cache:" {
		t.Errorf("prefix = %q", c.prefix)
	}
}
