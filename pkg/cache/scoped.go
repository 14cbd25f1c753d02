package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without seeing each other's entries.
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
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(opts)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(resultHash, opts)
}
