package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), "redis://"+mr.Addr(), "lehmer:")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	if err := c.Set(ctx, "page:abc", []byte(`{"ranks":[0,1]}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "page:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || !bytes.Equal(data, []byte(`{"ranks":[0,1]}`)) {
		t.Errorf("Get = %q, %v", data, hit)
	}

	// Keys carry the prefix on the server
	if !mr.Exists("lehmer:page:abc") {
		t.Errorf("expected prefixed key, have %v", mr.Keys())
	}
	if got, _ := mr.Get("lehmer:page:abc"); got != `{"ranks":[0,1]}` {
		t.Errorf("stored value = %q", got)
	}
}

func TestRedisCacheMiss(t *testing.T) {
	c, _ := newTestRedisCache(t)

	data, hit, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("a missing key is not an error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get = %q, %v, want miss", data, hit)
	}
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	if err := c.Set(ctx, "tree", []byte("digraph"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("lehmer:tree"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
	if _, hit, _ := c.Get(ctx, "tree"); !hit {
		t.Fatal("entry should be present before expiry")
	}

	mr.FastForward(2 * time.Minute)
	if _, hit, err := c.Get(ctx, "tree"); hit || err != nil {
		t.Errorf("expired entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestRedisCacheNoExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	for _, ttl := range []time.Duration{0, -time.Second} {
		if err := c.Set(ctx, "k", []byte("v"), ttl); err != nil {
			t.Fatalf("Set(ttl=%v): %v", ttl, err)
		}
		if got := mr.TTL("lehmer:k"); got != 0 {
			t.Errorf("ttl=%v stored with TTL %v, want none", ttl, got)
		}
	}
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists("lehmer:k") {
		t.Error("key should be gone")
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestRedisCacheBackendError(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond

	c, mr := newTestRedisCache(t)
	mr.SetError("ERR backend failure")

	_, _, err := c.Get(context.Background(), "k")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get error = %v, want ErrNetwork", err)
	}

	mr.SetError("")
	if _, _, err := c.Get(context.Background(), "k"); err != nil {
		t.Errorf("Get after recovery: %v", err)
	}
}

func TestRedisCacheClosed(t *testing.T) {
	c, _ := newTestRedisCache(t)
	c.Close()

	if _, _, err := c.Get(context.Background(), "k"); err != ErrClosed {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "redis://127.0.0.1:1", "")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}
