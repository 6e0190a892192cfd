// Package cache stores rendered artifacts and query results between runs.
//
// # Backends
//
//   - [FileCache]: one JSON entry per key under a directory (CLI default)
//   - [BoltCache]: a single bbolt database file with msgpack entries
//   - [RedisCache]: a shared redis server, for the HTTP server and CI
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// Keys are built by a [Keyer] from content fingerprints and the options that
// affect the cached value, so a changed table or setting never hits a stale
// entry. [ScopedKeyer] prefixes every key to share one backend between
// tenants.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	TTLTable    = 10 * time.Minute
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// A ttl of zero stores the entry without expiry. Get reports a miss (not an
// error) for absent and expired keys. Implementations are safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
