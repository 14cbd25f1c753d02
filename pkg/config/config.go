// Package config loads the cyclegen TOML configuration file.
//
// The file is optional. Every key has a default, and a file only needs the
// keys it changes:
//
//	[generator]
//	seed = 7
//	max_depth = 4
//	overall = "lock_and_key"
//	patterns = ["~/dungeons/vaults.json"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "72h"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Command-line flags override values read from the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cyclegen/pkg/cache"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/pipeline"
	"github.com/matzehuels/cyclegen/pkg/store"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// DefaultAddr is the address the HTTP API listens on.
const DefaultAddr = ":8080"

// Config is the decoded configuration file.
type Config struct {
	Generator Generator `toml:"generator"`
	Cache     Cache     `toml:"cache"`
	Store     Store     `toml:"store"`
	Server    Server    `toml:"server"`
}

// Generator holds run settings.
type Generator struct {
	Seed               int64  `toml:"seed"`
	MaxDepth           int    `toml:"max_depth"`
	MaxInsertionsTotal int    `toml:"max_insertions_total"`
	MaxNodes           int    `toml:"max_nodes"`
	Overall            string `toml:"overall"`

	// Patterns lists pattern files loaded on top of the built-in library.
	Patterns []string `toml:"patterns"`
}

// Cache selects the result cache backend.
type Cache struct {
	Backend   string   `toml:"backend"` // file, redis or none
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	Prefix    string   `toml:"prefix"` // key prefix shared by every backend
	TTL       Duration `toml:"ttl"`
}

// Store selects the run archive backend.
type Store struct {
	Backend  string `toml:"backend"` // memory, file or mongo
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "36h".
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
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	s := generator.DefaultSettings()
	return Config{
		Generator: Generator{
			Seed:               s.Seed,
			MaxDepth:           s.MaxDepth,
			MaxInsertionsTotal: s.MaxInsertionsTotal,
			MaxNodes:           s.MaxNodes,
		},
		Cache: Cache{
			Backend: cache.BackendFile,
			Prefix:  "cyclegen:",
			TTL:     Duration{cache.TTLResult},
		},
		Store: Store{
			Backend:  store.BackendMemory,
			Database: store.DefaultDatabase,
		},
		Server: Server{Addr: DefaultAddr},
	}
}

// DefaultPath returns ~/.config/cyclegen/config.toml, honouring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cyclegen", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cyclegen", FileName), nil
}

// Load reads the file at path on top of Default. An empty path means
// DefaultPath, and a missing default file is not an error. A missing
// explicit file is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	if err := errs.ValidatePath(path); err != nil {
		return Config{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r on top of Default and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(cfg Config, w io.Writer) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return err
	}
	if c.Generator.Overall != "" {
		if err := errs.ValidateCycleType(c.Generator.Overall); err != nil {
			return err
		}
	}
	for _, p := range c.Generator.Patterns {
		if err := errs.ValidatePath(p); err != nil {
			return err
		}
	}

	cacheBackends := []string{cache.BackendFile, cache.BackendRedis, cache.BackendNone}
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "cache backend %q (must be one of: %s)",
			c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "cache backend redis needs redis_addr")
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache ttl must be >= 0, got %s", c.Cache.TTL)
	}

	storeBackends := []string{store.BackendMemory, store.BackendFile, store.BackendMongo}
	if !slices.Contains(storeBackends, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "store backend %q (must be one of: %s)",
			c.Store.Backend, strings.Join(storeBackends, ", "))
	}
	if c.Store.Backend == store.BackendMongo {
		if err := errs.ValidateMongoURI(c.Store.MongoURI); err != nil {
			return err
		}
	}
	return nil
}

// Settings returns the generator section as run settings.
func (c Config) Settings() generator.Settings {
	return generator.Settings{
		Seed:               c.Generator.Seed,
		MaxDepth:           c.Generator.MaxDepth,
		MaxInsertionsTotal: c.Generator.MaxInsertionsTotal,
		MaxNodes:           c.Generator.MaxNodes,
	}
}

// Apply copies the generator section onto opts.
func (c Config) Apply(opts *pipeline.Options) {
	opts.Settings = c.Settings()
	opts.Overall = c.Generator.Overall
}

// CacheOptions returns the options for cache.Open. dir is used when the file
// backend has no directory configured. The key prefix is applied by a
// cache.ScopedKeyer, not by the backend.
func (c Config) CacheOptions(dir string) cache.Options {
	if c.Cache.Dir != "" {
		dir = c.Cache.Dir
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis:   cache.RedisOptions{Addr: c.Cache.RedisAddr},
	}
}

// StoreOptions returns the options for store.Open.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Dir:     c.Store.Dir,
		Mongo: store.MongoOptions{
			URI:      c.Store.MongoURI,
			Database: c.Store.Database,
		},
	}
}
