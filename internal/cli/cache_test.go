package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/lehmer/pkg/cache"
	"github.com/matzehuels/lehmer/pkg/config"
)

func TestCacheDirFromConfig(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Cache.Dir = "/tmp/lehmer-cache"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/tmp/lehmer-cache" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}

func TestCacheDirDefault(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c := New(&bytes.Buffer{}, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Cache.Dir = t.TempDir()

	tests := []struct {
		backend string
		noCache bool
		check   func(cache.Cache) bool
	}{
		{config.BackendFile, false, func(s cache.Cache) bool { _, ok := s.(*cache.FileCache); return ok }},
		{config.BackendMemory, false, func(s cache.Cache) bool { _, ok := s.(*cache.MemoryCache); return ok }},
		{config.BackendNone, false, func(s cache.Cache) bool { _, ok := s.(*cache.NullCache); return ok }},
		{config.BackendFile, true, func(s cache.Cache) bool { _, ok := s.(*cache.NullCache); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			c.Config.Cache.Backend = tt.backend
			store, err := c.newCache(ctx, tt.noCache)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer store.Close()
			if !tt.check(store) {
				t.Errorf("backend %q (noCache=%v) opened %T", tt.backend, tt.noCache, store)
			}
		})
	}
}

func TestNewCacheRedisUnreachable(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Cache.Backend = config.BackendRedis
	c.Config.Cache.RedisURL = "redis://127.0.0.1:1/0"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := c.newCache(ctx, false); err == nil {
		t.Error("an unreachable redis server should fail the command")
	}
}

func TestNewKeyerPrefix(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	plain := c.newKeyer().PageKey("h", cache.PageKeyOpts{Limit: 10})

	c.Config.Cache.KeyPrefix = "team-a"
	scoped := c.newKeyer().PageKey("h", cache.PageKeyOpts{Limit: 10})

	if scoped == plain || !strings.HasPrefix(scoped, "team-a") {
		t.Errorf("scoped key = %q, plain key = %q", scoped, plain)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	cfg := writeConfig(t, "[cache]\ndir = "+quote(dir)+"\n")
	if _, err := runCLI(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if _, ok, _ := store.Get(ctx, k); ok {
			t.Errorf("entry %q survived cache clear", k)
		}
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache directory should remain: %v", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[cache]\ndir = "+quote(dir)+"\n")

	out, err := runCLI(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}
}
