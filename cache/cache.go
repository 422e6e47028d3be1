// Package cache implements the short-TTL memoization layer that fronts the
// upstream feeds. Concurrent requests for the same expired key coalesce onto a
// single in-flight fetch, which bounds worst-case upstream QPS to 1/TTL per
// key no matter how many clients poll.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Recorder receives cache events. Implemented by metrics.Collector; nil is
// allowed.
type Recorder interface {
	CacheHit(kind string)
	CacheMiss(kind string)
	StaleServe(kind string)
}

type entry struct {
	payload   any
	fetchedAt time.Time
}

// Store maps cache keys to payloads with per-call-site TTLs. Entries are never
// evicted by size; growth is bounded by the number of distinct keys ever
// requested, which is acceptable for a per-process ephemeral cache.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
	now     func() time.Time
	rec     Recorder
}

// New creates a Store. now may be nil, in which case time.Now is used; tests
// inject a fake clock.
func New(now func() time.Time, rec Recorder) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		entries: map[string]entry{},
		now:     now,
		rec:     rec,
	}
}

// GetAny returns the cached payload for key if it is younger than ttl,
// otherwise refreshes it via fetch. The second return is true when an expired
// payload was served because the refresh failed (stale-but-available beats
// no-data). The fetch runs detached from the caller's cancellation: coalesced
// waiters may still need the result after the triggering caller is gone.
func (s *Store) GetAny(ctx context.Context, key, kind string, ttl time.Duration, fetch func(context.Context) (any, error)) (any, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && s.now().Sub(e.fetchedAt) < ttl {
		if s.rec != nil {
			s.rec.CacheHit(kind)
		}
		return e.payload, false, nil
	}
	if s.rec != nil {
		s.rec.CacheMiss(kind)
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A coalesced waiter can arrive just after the previous flight
		// stored a fresh value; don't refetch in that case.
		s.mu.RLock()
		e, ok := s.entries[key]
		s.mu.RUnlock()
		if ok && s.now().Sub(e.fetchedAt) < ttl {
			return e.payload, nil
		}
		payload, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.entries[key] = entry{payload: payload, fetchedAt: s.now()}
		s.mu.Unlock()
		return payload, nil
	})
	if err != nil {
		if ok {
			if s.rec != nil {
				s.rec.StaleServe(kind)
			}
			return e.payload, true, nil
		}
		return nil, false, err
	}
	return v, false, nil
}

// SecondsSinceFetch reports the age of the entry for key, or false when the
// key has never been fetched successfully.
func (s *Store) SecondsSinceFetch(key string) (int64, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return 0, false
	}
	return int64(s.now().Sub(e.fetchedAt) / time.Second), true
}

// Get is the typed wrapper around Store.GetAny.
func Get[T any](ctx context.Context, s *Store, key, kind string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, bool, error) {
	v, stale, err := s.GetAny(ctx, key, kind, ttl, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v.(T), stale, nil
}
