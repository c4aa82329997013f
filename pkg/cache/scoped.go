package cache

// ScopedKeyer wraps a Keyer and prefixes every key with a fixed scope,
// so multiple deployments can share one cache backend without collisions.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prefixes all keys with scope.
// If inner is nil, a DefaultKeyer is used.
func NewScopedKeyer(inner Keyer, scope string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: scope + ":"}
}

func (k *ScopedKeyer) ReportKey(xmlHash, imageHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(xmlHash, imageHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
