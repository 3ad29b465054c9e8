package solve

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/prost/pkg/cache"
)

// Table memoizes optimal completions by residual edge set. It is shared by
// every search a solver runs, including searches on different graphs:
// entries written while solving a small graph are hit again when a larger
// graph's search reaches the same residual edges.
//
// Table is safe for concurrent use. Values for a key are deterministic, so
// racing writers store the same entry and the last write is as good as the
// first.
type Table struct {
	mu      sync.RWMutex
	entries map[string][]Round
	limit   int

	hits   atomic.Int64
	misses atomic.Int64
}

// NewTable creates a memo table capped at limit entries. Entries past the
// cap are computed but not retained; a non-positive limit selects
// DefaultTableLimit.
func NewTable(limit int) *Table {
	if limit <= 0 {
		limit = DefaultTableLimit
	}
	return &Table{
		entries: make(map[string][]Round),
		limit:   limit,
	}
}

// Lookup returns the memoized completion for a residual edge set.
func (t *Table) Lookup(ctx context.Context, key string) ([]Round, bool) {
	t.mu.RLock()
	rounds, ok := t.entries[key]
	t.mu.RUnlock()
	if ok {
		t.hits.Add(1)
		return rounds, true
	}
	t.misses.Add(1)
	return nil, false
}

// Store memoizes a completion. A full table drops the entry.
func (t *Table) Store(ctx context.Context, key string, rounds []Round) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[key]; !exists && len(t.entries) >= t.limit {
		return
	}
	t.entries[key] = rounds
}

// Len returns the number of memoized entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Hits returns the number of lookup hits.
func (t *Table) Hits() int64 { return t.hits.Load() }

// Misses returns the number of lookup misses.
func (t *Table) Misses() int64 { return t.misses.Load() }

// Persist serializes every entry into the store as one blob under the
// fingerprint's table key.
func (t *Table) Persist(ctx context.Context, store cache.Cache, keyer cache.Keyer, fingerprint string, ttl time.Duration) error {
	t.mu.RLock()
	data, err := json.Marshal(t.entries)
	t.mu.RUnlock()
	if err != nil {
		return err
	}
	return store.Set(ctx, keyer.TableKey(fingerprint), data, ttl)
}

// Load merges a previously persisted blob into the table. A missing blob is
// not an error. Existing entries win over loaded ones.
func (t *Table) Load(ctx context.Context, store cache.Cache, keyer cache.Keyer, fingerprint string) error {
	data, ok, err := store.Get(ctx, keyer.TableKey(fingerprint))
	if err != nil || !ok {
		return err
	}
	var loaded map[string][]Round
	if err := json.Unmarshal(data, &loaded); err != nil {
		// A corrupt blob is treated as a miss; it will be overwritten on
		// the next Persist.
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range loaded {
		if _, exists := t.entries[k]; exists {
			continue
		}
		if len(t.entries) >= t.limit {
			break
		}
		t.entries[k] = v
	}
	return nil
}
