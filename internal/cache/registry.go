package cache

import (
	"context"
	"time"

	"github.com/NikitaCOEUR/bft/internal/compspec"
)

// DefaultTTL is how long a cached lookup is trusted.
const DefaultTTL = 24 * time.Hour

// Registry answers lookups from the cache and falls back to next on a
// miss. Failed lookups are never cached.
type Registry struct {
	next    compspec.Registry
	cache   *Cache
	ttl     time.Duration
	version string
}

// NewRegistry wraps next with c. Entries written by another version are
// treated as stale.
func NewRegistry(next compspec.Registry, c *Cache, ttl time.Duration, version string) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{next: next, cache: c, ttl: ttl, version: version}
}

// Lookup implements compspec.Registry.
func (r *Registry) Lookup(ctx context.Context, command string) (*compspec.Spec, error) {
	if r.cache.IsFresh(command, r.version, r.ttl) {
		entry, _ := r.cache.Get(command)
		if entry.Spec == nil {
			return nil, nil
		}
		spec := entry.Spec.Clone()
		spec.Strategy = compspec.StrategyRegistered
		return spec, nil
	}

	spec, err := r.next.Lookup(ctx, command)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Command:   command,
		Timestamp: time.Now(),
		Version:   r.version,
	}
	if spec != nil {
		entry.Spec = spec.Clone()
	}
	r.cache.Set(entry)
	return spec, nil
}

// Save persists new lookups.
func (r *Registry) Save() error {
	return r.cache.Save()
}
