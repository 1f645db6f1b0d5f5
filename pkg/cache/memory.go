package cache

import (
	"context"
	"slices"
	"time"

	gcache "github.com/Code-Hex/go-generics-cache"
	"github.com/Code-Hex/go-generics-cache/policy/lru"
)

// DefaultMemoryCapacity is the LRU capacity used when none is configured.
const DefaultMemoryCapacity = 1024

// MemoryCache is an in-process LRU cache with per-entry expiration.
// It is safe for concurrent use and suits the API server when a single
// instance is running.
type MemoryCache struct {
	lru    *gcache.Cache[string, []byte]
	cancel context.CancelFunc
}

// NewMemoryCache creates an LRU cache holding at most capacity entries.
// capacity <= 0 uses DefaultMemoryCapacity.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	// The context stops the expiration janitor on Close.
	ctx, cancel := context.WithCancel(context.Background())
	return &MemoryCache{
		lru:    gcache.NewContext(ctx, gcache.AsLRU[string, []byte](lru.WithCapacity(capacity))),
		cancel: cancel,
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(data), true, nil
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var opts []gcache.ItemOption
	if ttl > 0 {
		opts = append(opts, gcache.WithExpiration(ttl))
	}
	c.lru.Set(key, slices.Clone(data), opts...)
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Delete(key)
	return nil
}

// Len returns the number of stored entries, including expired entries the
// janitor has not collected yet.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// Close stops the background expiration janitor.
func (c *MemoryCache) Close() error {
	c.cancel()
	return nil
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
