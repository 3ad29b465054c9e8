// Package cache provides byte-oriented caching for solver state.
//
// The solver's memo table and serialized decompositions are stored through
// the Cache interface as opaque blobs. Implementations:
//   - MemoryCache: bounded in-process store, the default for one-shot runs
//   - FileCache: directory-backed store for reuse across CLI invocations
//   - RedisCache: shared store for long-running or multi-process solving
//   - NullCache: disables caching entirely
//
// Keys are produced by a Keyer so every consumer hashes the same way. All
// keys are derived from canonical state forms and residual-graph
// signatures, so recomputing and re-inserting an existing key always
// yields the same value: concurrent inserts are idempotent and need no
// at-most-once enforcement.
package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache closed")
)

// Cache is the interface for cache storage backends.
// Get returns (nil, false, nil) on a miss; errors are reserved for storage
// failures.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value in the cache. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer produces cache keys for the solver's addressable artifacts.
type Keyer interface {
	// StateKey identifies a search state: a canonical lattice configuration
	// paired with the residual-graph signature.
	StateKey(canonical, signature string) string

	// TableKey identifies a persisted memo-table blob for a given solve
	// configuration fingerprint.
	TableKey(fingerprint string) string

	// ResultKey identifies a serialized decomposition for (n, fingerprint).
	ResultKey(n int, fingerprint string) string
}

// DefaultKeyer hashes key parts with SHA-256 under stable prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// StateKey generates a key for a canonicalized search state.
func (k *DefaultKeyer) StateKey(canonical, signature string) string {
	return hashKey("state", canonical, signature)
}

// TableKey generates a key for a persisted memo table.
func (k *DefaultKeyer) TableKey(fingerprint string) string {
	return hashKey("table", fingerprint)
}

// ResultKey generates a key for a serialized decomposition.
func (k *DefaultKeyer) ResultKey(n int, fingerprint string) string {
	return hashKey("result", n, fingerprint)
}
