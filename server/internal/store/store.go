package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/obsidianstack/launchdash/pkg/launch"
)

// Entry is a computed view together with the time it was stored.
type Entry struct {
	View      launch.View
	UpdatedAt time.Time
}

// Store is a thread-safe cache of computed views keyed by launch.Criteria.Key.
// The dataset never changes, so a cached view is always correct; the TTL only
// bounds memory. A TTL of zero disables the cache.
//
// A background goroutine (Run) periodically evicts expired entries.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTL returns the configured time-to-live.
func (s *Store) TTL() time.Duration { return s.ttl }

// Put stores or replaces the view for its criteria.
func (s *Store) Put(v launch.View) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[v.Criteria.Key()] = &Entry{View: v, UpdatedAt: s.now()}
}

// Get returns the live view stored for c. Expired entries that have not
// been evicted yet are reported as missing.
func (s *Store) Get(c launch.Criteria) (launch.View, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[c.Key()]
	if !ok || !e.UpdatedAt.After(s.now().Add(-s.ttl)) {
		return launch.View{}, false
	}
	return e.View, true
}

// Count returns the number of entries currently held, including expired ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes entries whose UpdatedAt is older than now minus TTL.
// It returns the number of entries removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for key, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			delete(s.data, key)
			removed++
		}
	}
	return removed
}

// Run starts the background eviction loop. It ticks at half the TTL
// (minimum 1 second) and blocks until ctx is cancelled. With caching
// disabled it returns immediately.
func (s *Store) Run(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted cached views", "count", n)
			}
		}
	}
}
