// Package cache stores computed permutation pages and rendered decision trees.
//
// Decoding a single rank is cheap, but listing large rank windows or
// rendering trees through Graphviz is not, and the same queries tend to be
// repeated by the CLI, the browser and the HTTP API. This package provides a
// byte-oriented [Cache] with several backends and a [Keyer] that derives
// stable keys from query parameters.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under ~/.cache/lehmer (CLI default)
//   - [MemoryCache]: in-process LRU with per-entry TTL
//   - [RedisCache]: shared cache for several API instances
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: caching disabled
//
// All backends treat a missing or expired entry as a miss (hit == false, nil
// error). Errors are reserved for backend failures.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiration.
type Cache interface {
	// Get returns the value for key. hit is false when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 means the entry does not expire.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// PageKeyOpts are the parameters that distinguish cached permutation pages.
type PageKeyOpts struct {
	Offset int64 `json:"offset"`
	Limit  int64 `json:"limit"`
}

// TreeKeyOpts are the parameters that distinguish cached decision trees.
type TreeKeyOpts struct {
	Highlight int64  `json:"highlight"`
	Format    string `json:"format"`
}

// Keyer derives cache keys from query parameters.
// itemsHash identifies the item sequence; see ItemsHash.
type Keyer interface {
	PageKey(itemsHash string, opts PageKeyOpts) string
	TreeKey(itemsHash string, opts TreeKeyOpts) string
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PageKey generates a key for a page of permutations.
func (DefaultKeyer) PageKey(itemsHash string, opts PageKeyOpts) string {
	return hashKey("page", itemsHash, opts)
}

// TreeKey generates a key for a rendered decision tree.
func (DefaultKeyer) TreeKey(itemsHash string, opts TreeKeyOpts) string {
	return hashKey("tree", itemsHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
