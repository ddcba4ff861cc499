package cache

// ScopedKeyer prefixes every key from an inner keyer. The server uses it
// to namespace its entries when sharing a redis instance with other
// services.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps a keyer with a prefix. A nil inner keyer defaults
// to the standard one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PlanKey(specHash string) string {
	return k.prefix + k.inner.PlanKey(specHash)
}

func (k *ScopedKeyer) LayoutKey(planHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(planHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
