// Package config loads stackfetch settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, a .env file, and STACKFETCH_* environment variables. Command-line
// flags are applied by the caller on top of the loaded Config.
//
//	repositories = ["central", "sonatype:snapshots"]
//	workers = 4
//
//	[cache]
//	backend = "redis"
//	ttl = "72h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[versions]
//	runner = "1.4.0"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/stackfetch/pkg/artifacts"
	"github.com/matzehuels/stackfetch/pkg/errors"
	"github.com/matzehuels/stackfetch/pkg/repository"
)

const appName = "stackfetch"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists the accepted cache backends.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}

// Environment variables read by [Config.ApplyEnv].
const (
	EnvCache     = "STACKFETCH_CACHE"
	EnvCacheDir  = "STACKFETCH_CACHE_DIR"
	EnvRedisAddr = "STACKFETCH_REDIS_ADDR"
	EnvMongoURI  = "STACKFETCH_MONGO_URI"
	EnvWorkers   = "STACKFETCH_WORKERS"
)

// Config is the full set of settings.
type Config struct {
	Repositories []string           `toml:"repositories"`
	Workers      int                `toml:"workers"`
	Cache        CacheConfig        `toml:"cache"`
	Versions     artifacts.Versions `toml:"versions"`
}

// CacheConfig selects and configures the metadata cache.
type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"` // Metadata and downloaded artifacts
	TTL     time.Duration `toml:"ttl"`
	Entries int           `toml:"entries"` // Memory backend size
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Workers: artifacts.DefaultWorkers,
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     7 * 24 * time.Hour,
			Entries: 4096,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
			Mongo:   MongoConfig{Database: appName, Collection: "cache"},
		},
		Versions: artifacts.DefaultVersions(),
	}
}

// Path returns the default config file location
// ($XDG_CONFIG_HOME/stackfetch/config.toml).
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// CacheDir returns the default cache directory (~/.cache/stackfetch).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file at path over the defaults, then applies the
// environment. An empty path uses [Path]; a missing default file is not an
// error, a missing explicit one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	LoadEnv()
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes TOML data over the defaults without consulting the
// environment.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if err := undecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return undecoded(md)
}

func undecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(names, ", "))
}

// LoadEnv loads .env files (default ".env") into the process environment.
// Variables already set are not overridden; missing files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overrides settings from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvCache)); v != "" {
		c.Cache.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvCacheDir)); v != "" {
		c.Cache.Dir = v
	}
	if v := strings.TrimSpace(getenv(EnvRedisAddr)); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := strings.TrimSpace(getenv(EnvMongoURI)); v != "" {
		c.Cache.Mongo.URI = v
	}
	if v := strings.TrimSpace(getenv(EnvWorkers)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
}

// Validate checks settings that cannot be checked while decoding.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want one of %s)",
			c.Cache.Backend, strings.Join(Backends, ", "))
	}
	if c.Cache.Backend == BackendMongo && c.Cache.Mongo.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend mongo requires a URI (set %s)", EnvMongoURI)
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.RepositoryList(); err != nil {
		return err
	}
	return nil
}

// RepositoryList parses the configured repositories. An empty list means
// [repository.Default].
func (c *Config) RepositoryList() ([]repository.Repository, error) {
	if len(c.Repositories) == 0 {
		return repository.Default(), nil
	}
	repos, err := repository.ParseAll(c.Repositories)
	if err != nil {
		return nil, fmt.Errorf("config repositories: %w", err)
	}
	return repos, nil
}
