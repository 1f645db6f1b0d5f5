// Package config loads lehmer's TOML configuration file.
//
// A missing file is not an error: every setting has a default. A typical
// file looks like:
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
//	[engine]
//	workers = 4
//	page_limit = 100
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lehmer/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "lehmer"

// EnvPath overrides the configuration file location.
const EnvPath = "LEHMER_CONFIG"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists the valid cache backends.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}

// Config is the root of the configuration file.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Engine EngineConfig `toml:"engine"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	TTL             Duration `toml:"ttl"`
	KeyPrefix       string   `toml:"key_prefix"`
	MemoryCapacity  int      `toml:"memory_capacity"`
	RedisURL        string   `toml:"redis_url"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// EngineConfig tunes permutation listing.
type EngineConfig struct {
	// Workers is the number of decoders used for pages; 0 means GOMAXPROCS.
	Workers      int   `toml:"workers"`
	PageLimit    int64 `toml:"page_limit"`
	MaxPageLimit int64 `toml:"max_page_limit"`
}

// Duration is a time.Duration written as a Go duration string ("90s", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend:         BackendFile,
			TTL:             Duration{7 * 24 * time.Hour},
			MemoryCapacity:  1024,
			MongoDatabase:   AppName,
			MongoCollection: "cache",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Engine: EngineConfig{
			PageLimit:    50,
			MaxPageLimit: 10000,
		},
	}
}

// DefaultPath returns $LEHMER_CONFIG, else $XDG_CONFIG_HOME/lehmer/config.toml,
// else ~/.config/lehmer/config.toml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/lehmer/).
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path over the defaults and validates the result.
// An empty path uses DefaultPath. A missing file yields the defaults.
// Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Cache.Backend) {
		return invalid("cache.backend must be one of %s", strings.Join(Backends, ", "))
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache.ttl must not be negative")
	}
	if c.Cache.MemoryCapacity < 0 {
		return invalid("cache.memory_capacity must not be negative")
	}
	switch c.Cache.Backend {
	case BackendRedis:
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
	case BackendMongo:
		if err := errors.ValidateURL(c.Cache.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.mongo_uri")
		}
		if c.Cache.MongoDatabase == "" || c.Cache.MongoCollection == "" {
			return invalid("cache.mongo_database and cache.mongo_collection are required")
		}
	}

	if c.Server.Addr == "" {
		return invalid("server.addr cannot be empty")
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 || c.Server.ShutdownTimeout.Duration < 0 {
		return invalid("server timeouts must not be negative")
	}

	if c.Engine.Workers < 0 {
		return invalid("engine.workers must not be negative")
	}
	if c.Engine.MaxPageLimit <= 0 {
		return invalid("engine.max_page_limit must be positive")
	}
	if c.Engine.PageLimit <= 0 || c.Engine.PageLimit > c.Engine.MaxPageLimit {
		return invalid("engine.page_limit must be between 1 and %d", c.Engine.MaxPageLimit)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}
