package cache

import (
	"context"

	"github.com/alex-user-go/tripplanner/internal/obs"
	"github.com/alex-user-go/tripplanner/internal/providers"
)

// Provider puts a Cache in front of another provider.
type Provider struct {
	next    providers.Provider
	cache   *Cache
	metrics *obs.Metrics
}

// NewProvider wraps next with c.
func NewProvider(next providers.Provider, c *Cache, metrics *obs.Metrics) *Provider {
	return &Provider{next: next, cache: c, metrics: metrics}
}

// Name returns the wrapped provider's name.
func (p *Provider) Name() string {
	return p.next.Name()
}

// Query serves from the cache when possible.
func (p *Provider) Query(ctx context.Context, text string) (providers.Response, error) {
	resp, hit, err := p.cache.GetOrFetch(ctx, p.cache.Key(text), func() (providers.Response, error) {
		return p.next.Query(ctx, text)
	})
	if hit {
		p.metrics.IncCacheHits()
	}
	return resp, err
}
