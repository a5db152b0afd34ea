// Package cache provides byte-oriented storage backends for snapshots.
//
// # Overview
//
// A [Cache] stores opaque byte values under string keys with an optional TTL.
// The snapshot store ([github.com/matzehuels/typegraph/pkg/store]) keeps
// flattened graphs in a Cache, so every backend can hold any graph:
//
//   - [NullCache] stores nothing, for disabled caching and tests
//   - [FileCache] stores one JSON entry file per key, for the CLI
//   - [MemoryCache] is a bounded in-process LRU
//   - [RedisCache] shares entries between processes through Redis
//
// # Keys
//
// A [Keyer] derives keys from content hashes and names. [ScopedKeyer] prefixes
// every key to give callers separate namespaces inside one backend:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "project:demo:")
//	key := keyer.SnapshotKey(cache.Hash(data))
//
// # Errors
//
// A miss is not an error: Get reports it through its bool result. Backend
// failures are returned as errors; network failures from [RedisCache] are
// wrapped with [Retryable] and retried with [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Cache stores byte values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Clearer is implemented by backends that can drop all their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Keyer derives cache keys.
type Keyer interface {
	// SnapshotKey returns the key of a snapshot with the given content hash.
	SnapshotKey(contentHash string) string

	// TagKey returns the key of a named pointer to a snapshot.
	TagKey(name string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey returns "snapshot:<hash>". Content hashes are already uniform,
// so they are used as is.
func (DefaultKeyer) SnapshotKey(contentHash string) string {
	return "snapshot:" + contentHash
}

// TagKey returns a hashed key for a tag name, so arbitrary names are safe in
// every backend.
func (DefaultKeyer) TagKey(name string) string {
	return hashKey("tag", name)
}
