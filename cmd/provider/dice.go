package main

import (
	"math/rand"
	"sync"
	"time"
)

// dice is a goroutine-safe random source for simulated latency, failures
// and prices.
type dice struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newDice(seed int64) *dice {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &dice{rng: rand.New(rand.NewSource(seed))}
}

func (d *dice) intn(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(n)
}

func (d *dice) chance(p float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64() < p
}

// price returns a random amount in [lo, hi) rounded down to cents.
func (d *dice) price(lo, hi float64) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := lo + d.rng.Float64()*(hi-lo)
	return float64(int(p*100)) / 100
}

// latency returns a duration in [base, base+spread).
func (d *dice) latency(base, spread int) time.Duration {
	return time.Duration(base+d.intn(spread)) * time.Millisecond
}
