// Package cli implements the lehmer command-line interface.
//
// The commands expose the permutation engine on the terminal:
//   - factorial: n! for 0 <= n <= 20
//   - at: the permutation with a given rank
//   - list: a window of permutations in rank order
//   - rank: the rank of an ordering
//   - tree: the decision tree as SVG or DOT
//   - browse: an interactive pager over all ranks
//   - serve: the HTTP API
//   - cache, config: maintenance
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lehmer/pkg/cache"
	"github.com/matzehuels/lehmer/pkg/client"
	"github.com/matzehuels/lehmer/pkg/config"
	"github.com/matzehuels/lehmer/pkg/query"
)

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded by the root command before any subcommand runs.
	Config     *config.Config
	configPath string

	// server, when set, sends queries to a remote lehmer API.
	server string
}

// engine answers queries, either locally (*query.Runner) or through a
// remote server (*client.Client).
type engine interface {
	Factorial(ctx context.Context, n int) (*query.FactorialResult, error)
	At(ctx context.Context, opts query.AtOptions) (*query.AtResult, error)
	Page(ctx context.Context, opts query.PageOptions) (*query.PageResult, error)
	Rank(ctx context.Context, opts query.RankOptions) (*query.RankResult, error)
	Tree(ctx context.Context, opts query.TreeOptions) (*query.TreeResult, error)
	Close() error
}

var (
	_ engine = (*query.Runner)(nil)
	_ engine = (*client.Client)(nil)
)

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration file selected by --config or the
// environment.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// newEngine returns a client for --server, else a local runner.
func (c *CLI) newEngine(ctx context.Context, noCache bool) (engine, error) {
	if c.server != "" {
		return client.New(c.server)
	}
	return c.newRunner(ctx, noCache)
}

// newRunner creates a query runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*query.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := query.NewRunner(store, c.newKeyer(), c.Logger)
	runner.Workers = c.Config.Engine.Workers
	runner.TTL = c.Config.Cache.TTL.Duration
	runner.PageLimit = c.Config.Engine.PageLimit
	runner.MaxPageLimit = c.Config.Engine.MaxPageLimit
	return runner, nil
}

func (c *CLI) newKeyer() cache.Keyer {
	if p := c.Config.Cache.KeyPrefix; p != "" {
		return cache.NewScopedKeyer(nil, p)
	}
	return cache.NewDefaultKeyer()
}

// newCache opens the configured backend. A file cache that cannot be created
// degrades to no caching; remote backends must be reachable.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cc.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendMemory:
		return cache.NewMemoryCache(cc.MemoryCapacity), nil
	case config.BackendRedis:
		store, err := cache.NewRedisCache(ctx, cc.RedisURL, "")
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return store, nil
	case config.BackendMongo:
		store, err := cache.NewMongoCache(ctx, cc.MongoURI, cc.MongoDatabase, cc.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("open mongo cache: %w", err)
		}
		return store, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		store, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("caching disabled", "dir", dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return store, nil
	}
}

// cacheDir returns the file cache directory: cache.dir from the
// configuration, else ~/.cache/lehmer.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// cacheBackend names the backend newCache opens.
func (c *CLI) cacheBackend(noCache bool) string {
	if noCache {
		return config.BackendNone
	}
	if c.Config.Cache.Backend == "" {
		return config.BackendFile
	}
	return c.Config.Cache.Backend
}
