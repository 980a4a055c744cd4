// Package ratelimit provides per-identity sliding-window rate limiting
// for the analysis endpoint. Two backends share the same semantics: an
// in-memory limiter for single-process deployments and a Redis-backed
// limiter for running multiple replicas behind one budget.
package ratelimit

import (
	"sync"
	"time"
)

// Default window parameters.
const (
	DefaultRequests = 10
	DefaultWindow   = 60 * time.Second

	// sweepInterval is how often the memory limiter drops identities
	// that have gone idle for a full window. Without the sweep the map
	// grows by one entry per distinct client for the process lifetime.
	sweepInterval = 5 * time.Minute
)

// MemoryLimiter keeps an ordered timestamp window per client identity.
// The whole check-evict-append sequence runs under one coarse lock; the
// work per check is tiny so contention is not a concern.
type MemoryLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration

	now       func() time.Time // injected for tests
	lastSweep time.Time
}

// NewMemoryLimiter creates a limiter allowing limit requests per window
// for each identity. Non-positive arguments fall back to the defaults.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = DefaultRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// Allow reports whether identity may make a request now, recording the
// request if so. Expired timestamps are evicted lazily on each check.
func (l *MemoryLimiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.requests[identity][:0]
	for _, ts := range l.requests[identity] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.requests[identity] = recent
		return false
	}

	l.requests[identity] = append(recent, now)

	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweepLocked(cutoff)
		l.lastSweep = now
	}

	return true
}

// sweepLocked drops identities whose newest request predates the window.
// Caller holds l.mu.
func (l *MemoryLimiter) sweepLocked(cutoff time.Time) {
	for id, timestamps := range l.requests {
		if len(timestamps) == 0 || !timestamps[len(timestamps)-1].After(cutoff) {
			delete(l.requests, id)
		}
	}
}

// Tracked returns the number of identities currently held in memory.
func (l *MemoryLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}
