// Package cache stores resolution metadata between runs.
//
// The resolution engine caches parsed POM files under keys produced by a
// [Keyer]. Several backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry, the CLI default
//   - [MemoryCache]: bounded in-process LRU, for the HTTP server and tests
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: shared cache with a TTL index
//   - [NullCache]: disables caching
//
// Downloaded artifact files are not stored here; they live in the artifact
// directory managed by the engine.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
