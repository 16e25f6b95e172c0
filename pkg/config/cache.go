package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matzehuels/stackfetch/pkg/cache"
	"github.com/matzehuels/stackfetch/pkg/errors"
)

// ResolveDir returns the configured cache directory or the default one.
func (c CacheConfig) ResolveDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	return CacheDir()
}

// OpenCache opens the configured metadata cache. File metadata lives under
// <dir>/metadata, next to the downloaded artifacts.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	var (
		cc  cache.Cache
		err error
	)
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		cc, err = newMemory(c.Entries)
	case BackendRedis:
		cc, err = newRedis(ctx, cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
	case BackendMongo:
		cc, err = newMongo(ctx, cache.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		})
	case BackendFile, "":
		dir, err := c.ResolveDir()
		if err != nil {
			return nil, err
		}
		cc, err = newFile(filepath.Join(dir, "metadata"))
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", c.Backend, err)
	}
	return cc, nil
}

// The constructors return concrete types; wrapping them keeps a failed open
// from producing a non-nil interface holding a nil pointer.

func newMemory(size int) (cache.Cache, error) {
	c, err := cache.NewMemoryCache(size)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newRedis(ctx context.Context, opts cache.RedisOptions) (cache.Cache, error) {
	c, err := cache.NewRedisCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newMongo(ctx context.Context, opts cache.MongoOptions) (cache.Cache, error) {
	c, err := cache.NewMongoCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newFile(dir string) (cache.Cache, error) {
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}
