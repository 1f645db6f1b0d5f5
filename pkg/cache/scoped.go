package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis or Mongo backend without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lehmer:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PageKey generates a prefixed key for a page of permutations.
func (k *ScopedKeyer) PageKey(itemsHash string, opts PageKeyOpts) string {
	return k.prefix + k.inner.PageKey(itemsHash, opts)
}

// TreeKey generates a prefixed key for a rendered decision tree.
func (k *ScopedKeyer) TreeKey(itemsHash string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(itemsHash, opts)
}
