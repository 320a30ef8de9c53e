// Package ratelimit limits how often each client may ask for a trip plan.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key. Each bucket holds up to n tokens
// and refills n tokens per window.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	n       int
	window  time.Duration
	done    chan struct{}
	once    sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a new Limiter allowing n requests per window per key.
// A non-positive n blocks everything.
func New(n int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		n:       n,
		window:  window,
		done:    make(chan struct{}),
	}

	go l.cleanup()

	return l
}

// Close stops the background cleanup goroutine.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.done) })
}

// Allow checks if a request for the given key is allowed.
func (l *Limiter) Allow(key string) bool {
	if l.n <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.refill(), l.n)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1)
}

func (l *Limiter) refill() rate.Limit {
	if l.window <= 0 {
		return rate.Inf
	}
	return rate.Every(l.window / time.Duration(l.n))
}

// cleanup periodically removes buckets idle for more than two windows.
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for key, b := range l.buckets {
				if now.Sub(b.lastSeen) > 2*l.window {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}
