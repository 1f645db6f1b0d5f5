package query

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/lehmer/pkg/cache"
	"github.com/matzehuels/lehmer/pkg/errors"
	"github.com/matzehuels/lehmer/pkg/observability"
	"github.com/matzehuels/lehmer/pkg/perm"
)

// DefaultTTL is how long pages and trees stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Runner executes queries with caching.
//
// The Runner is stateless except for its dependencies. Multiple goroutines
// can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Workers is the number of page decoders; 0 means GOMAXPROCS.
	Workers int
	// TTL applies to cached pages and trees; 0 means DefaultTTL.
	TTL time.Duration
	// PageLimit and MaxPageLimit bound page sizes; 0 means the defaults.
	PageLimit    int64
	MaxPageLimit int64
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Factorial returns n!.
func (r *Runner) Factorial(ctx context.Context, n int) (res *FactorialResult, err error) {
	done := r.observe(ctx, "factorial", n)
	defer func() { done(0, err) }()

	v, err := perm.Factorial(n)
	if err != nil {
		return nil, err
	}
	return &FactorialResult{N: n, Value: v}, nil
}

// At decodes the permutation with the requested rank.
func (r *Runner) At(ctx context.Context, opts AtOptions) (res *AtResult, err error) {
	done := r.observe(ctx, "at", len(opts.Items))
	defer func() {
		n := 0
		if res != nil {
			n = 1
		}
		done(n, err)
	}()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	total, err := perm.Count(opts.Items)
	if err != nil {
		return nil, err
	}

	rank := opts.Rank
	var p []string
	if opts.Wrap {
		p, err = perm.AtMod(rank, opts.Items)
		rank = wrap(rank, total)
	} else {
		p, err = perm.At(rank, opts.Items)
	}
	if err != nil {
		return nil, err
	}
	return &AtResult{Rank: rank, Total: total, Permutation: p}, nil
}

// Page decodes a window of ranks in parallel, consulting the cache first.
func (r *Runner) Page(ctx context.Context, opts PageOptions) (res *PageResult, err error) {
	done := r.observe(ctx, "page", len(opts.Items))
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Permutations)
		}
		done(n, err)
	}()

	if err := opts.ValidateAndSetDefaults(r.pageLimit(), r.maxPageLimit()); err != nil {
		return nil, err
	}
	total, err := perm.Count(opts.Items)
	if err != nil {
		return nil, err
	}

	res = &PageResult{Offset: opts.Offset, Limit: opts.Limit, Total: total}
	key := r.Keyer.PageKey(cache.ItemsHash(opts.Items), opts.KeyOpts())

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, "page", key); ok {
			var perms [][]string
			if err := json.Unmarshal(data, &perms); err == nil {
				res.Permutations = perms
				res.CacheHit = true
				return res, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key)
		}
	}

	perms, err := perm.Collect(ctx, opts.Items, opts.Offset, opts.Limit, r.Workers)
	if err != nil {
		return nil, err
	}
	res.Permutations = perms

	if data, err := json.Marshal(perms); err == nil {
		r.store(ctx, "page", key, data)
	}
	return res, nil
}

// Rank returns the rank of opts.Permutation relative to opts.Items.
func (r *Runner) Rank(ctx context.Context, opts RankOptions) (res *RankResult, err error) {
	done := r.observe(ctx, "rank", len(opts.Items))
	defer func() { done(0, err) }()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	total, err := perm.Count(opts.Items)
	if err != nil {
		return nil, err
	}
	rank, err := perm.RankOf(opts.Items, opts.Permutation)
	if err != nil {
		return nil, err
	}
	return &RankResult{Rank: rank, Total: total}, nil
}

// Tree renders the decision tree, consulting the cache first.
func (r *Runner) Tree(ctx context.Context, opts TreeOptions) (res *TreeResult, err error) {
	done := r.observe(ctx, "tree", len(opts.Items))
	defer func() { done(0, err) }()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res = &TreeResult{Format: opts.Format}
	key := r.Keyer.TreeKey(cache.ItemsHash(opts.Items), opts.KeyOpts())

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, "tree", key); ok {
			res.Data = data
			res.CacheHit = true
			return res, nil
		}
	}

	switch opts.Format {
	case FormatDOT:
		dot, err := perm.ToDOT(opts.Items, opts.Highlight)
		if err != nil {
			return nil, err
		}
		res.Data = []byte(dot)
	default:
		svg, err := perm.RenderSVG(opts.Items, opts.Highlight)
		if err != nil {
			return nil, err
		}
		res.Data = svg
	}

	r.store(ctx, "tree", key, res.Data)
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key from the cache. Backend failures are logged and treated
// as misses so a broken cache never fails a query.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// observe emits the start hook and returns a func that emits the completion
// hook and a debug log line.
func (r *Runner) observe(ctx context.Context, op string, n int) func(results int, err error) {
	start := time.Now()
	observability.Query().OnQueryStart(ctx, op, n)
	return func(results int, err error) {
		d := time.Since(start)
		observability.Query().OnQueryComplete(ctx, op, results, d, err)
		if err != nil {
			r.Logger.Debug("query failed", "op", op, "code", errors.GetCode(err), "err", err)
			return
		}
		r.Logger.Debug("query done", "op", op, "n", n, "results", results, "duration", d)
	}
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return DefaultTTL
}

func (r *Runner) pageLimit() int64 {
	if r.PageLimit > 0 {
		return min(r.PageLimit, r.maxPageLimit())
	}
	return min(DefaultPageLimit, r.maxPageLimit())
}

func (r *Runner) maxPageLimit() int64 {
	if r.MaxPageLimit > 0 {
		return r.MaxPageLimit
	}
	return DefaultMaxPageLimit
}

// wrap reduces rank into [0, total) the same way perm.AtMod does.
func wrap(rank, total int64) int64 {
	rank %= total
	if rank < 0 {
		rank += total
	}
	return rank
}
