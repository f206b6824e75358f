package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one cache backend.
//
// Example usage:
//
//	// Keys of the staging server
//	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// AssetKey generates a prefixed key for image metadata.
func (k *ScopedKeyer) AssetKey(url string) string {
	return k.prefix + k.inner.AssetKey(url)
}

// ExportKey generates a prefixed key for export artifacts.
func (k *ScopedKeyer) ExportKey(docHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(docHash, opts)
}
