package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Snapshots saved through different scopes never collide, even in a
// shared Redis instance.
//
// Example usage:
//
//	// Keys private to one project
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:demo:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
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

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(contentHash string) string {
	return k.prefix + k.inner.SnapshotKey(contentHash)
}

// TagKey generates a prefixed tag key.
func (k *ScopedKeyer) TagKey(name string) string {
	return k.prefix + k.inner.TagKey(name)
}
