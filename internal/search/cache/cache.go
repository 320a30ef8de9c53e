package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alex-user-go/tripplanner/internal/providers"
)

// keyPrefix namespaces search cache keys.
const keyPrefix = "tripplanner:query:"

// Store persists search responses for a limited time.
type Store interface {
	// Get returns the cached response and whether it was present.
	Get(ctx context.Context, key string) (providers.Response, bool, error)
	// Set stores the response for ttl.
	Set(ctx context.Context, key string, resp providers.Response, ttl time.Duration) error
	// Delete removes a key.
	Delete(ctx context.Context, key string) error
}

// Cache provides TTL caching of search responses with request collapsing
// (singleflight) on top of a Store.
type Cache struct {
	mu       sync.Mutex
	store    Store
	ttl      time.Duration
	inflight map[string]*inflightRequest
}

type inflightRequest struct {
	done   chan struct{}
	result providers.Response
	err    error
}

// New creates a new Cache over store with the specified TTL.
func New(store Store, ttl time.Duration) *Cache {
	return &Cache{
		store:    store,
		ttl:      ttl,
		inflight: make(map[string]*inflightRequest),
	}
}

// Key generates a cache key from a search query. Case and whitespace
// differences map to the same key.
func (c *Cache) Key(query string) string {
	return keyPrefix + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// GetOrFetch retrieves from cache or executes the fetch function.
// Concurrent requests for the same key are collapsed (singleflight pattern).
// Returns the result and a boolean indicating if it was a cache hit.
// Store failures degrade to a fetch; they are never returned.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func() (providers.Response, error)) (providers.Response, bool, error) {
	c.mu.Lock()

	// Check for existing in-flight request
	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.result, false, inflight.err
		case <-ctx.Done():
			return providers.Response{}, false, context.Cause(ctx)
		}
	}

	inflight := &inflightRequest{
		done: make(chan struct{}),
	}
	c.inflight[key] = inflight
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
		close(inflight.done)
	}()

	if resp, ok, err := c.store.Get(ctx, key); err == nil && ok {
		inflight.result = resp
		return resp, true, nil
	}

	result, err := fetch()
	inflight.result = result
	inflight.err = err

	// Empty answers are not cached so the next run searches again.
	if err == nil && !result.IsEmpty() {
		_ = c.store.Set(ctx, key, result, c.ttl) // a failed write only costs a future search
	}

	return result, false, err
}

// Invalidate removes a specific key from the cache.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate %q: %w", key, err)
	}
	return nil
}
