package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a bounded in-process cache. When the entry limit is
// reached, insertion evicts the oldest entries first (insertion order
// approximates recency well enough for the solver's monotone workload).
//
// MemoryCache is safe for concurrent use. Entry values for a given key are
// idempotent by construction, so insert races are harmless.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	order   []string // insertion order for eviction
	limit   int
	closed  bool
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// DefaultMemoryLimit bounds the number of entries when no limit is given.
const DefaultMemoryLimit = 1 << 20

// NewMemoryCache creates a memory cache holding at most limit entries.
// A non-positive limit selects DefaultMemoryLimit.
func NewMemoryCache(limit int) *MemoryCache {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		limit:   limit,
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, false, ErrClosed
	}
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores a value in the cache, evicting oldest entries if full.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = e

	for len(c.entries) > c.limit && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	delete(c.entries, key)
	return nil
}

// Len returns the current number of entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close marks the cache closed and drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.entries = nil
	c.order = nil
	return nil
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
