// Package cache stores generated results and rendered exports.
//
// Generation is deterministic, so a result is fully described by its seed,
// budgets and pattern library. The CLI and HTTP API key cached results on
// exactly those inputs and skip the driver on a hit.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (HTTP API)
//   - [NullCache]: stores nothing
//
// # Keys
//
// [Keyer] builds keys of the form "result:v1:<sha256>" and
// "render:v1:<sha256>". The version changes whenever the encoding of cached
// results does, so stale entries are never decoded.
// [ScopedKeyer] prefixes them for tenant or environment isolation.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLResult = 30 * 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache stores nothing; every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                    { return nil }
func (*NullCache) Close() error                                            { return nil }
