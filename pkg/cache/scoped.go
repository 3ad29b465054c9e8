package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This keeps strict and lenient solver runs, or runs with different
// canonicalization settings, from sharing memo entries.
//
// Example usage:
//
//	// Keys for a lenient-mode run
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lenient:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// StateKey generates a prefixed key for a canonicalized search state.
func (k *ScopedKeyer) StateKey(canonical, signature string) string {
	return k.prefix + k.inner.StateKey(canonical, signature)
}

// TableKey generates a prefixed key for a persisted memo table.
func (k *ScopedKeyer) TableKey(fingerprint string) string {
	return k.prefix + k.inner.TableKey(fingerprint)
}

// ResultKey generates a prefixed key for a serialized decomposition.
func (k *ScopedKeyer) ResultKey(n int, fingerprint string) string {
	return k.prefix + k.inner.ResultKey(n, fingerprint)
}
