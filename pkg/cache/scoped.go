package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating several tenants that
// share one backend (for example two server deployments on one Redis).
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// POMKey generates a prefixed POM key.
func (k *ScopedKeyer) POMKey(repo, module, version string) string {
	return k.prefix + k.inner.POMKey(repo, module, version)
}

// MissKey generates a prefixed miss key.
func (k *ScopedKeyer) MissKey(url string) string {
	return k.prefix + k.inner.MissKey(url)
}
