package cache

import (
	"context"
	"sync"
	"time"

	"github.com/alex-user-go/tripplanner/internal/providers"
)

// MemoryStore is an in-process Store with periodic cleanup of expired entries.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	done    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	result    providers.Response
	expiresAt time.Time
}

// NewMemoryStore creates a MemoryStore and starts its cleanup goroutine.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*cacheEntry),
		done:    make(chan struct{}),
	}

	go s.cleanup(time.Minute)

	return s
}

// Close stops the background cleanup goroutine.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (providers.Response, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok || !time.Now().Before(entry.expiresAt) {
		return providers.Response{}, false, nil
	}
	return entry.result, true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, resp providers.Response, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = &cacheEntry{
		result:    resp,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) purgeExpired(now time.Time) {
	s.mu.Lock()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// cleanup periodically removes expired entries.
func (s *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purgeExpired(time.Now())
		case <-s.done:
			return
		}
	}
}
