package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/teamflow/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type Options struct {
	// TTL <= 0 keeps entries until they are deleted.
	TTL time.Duration
	// MaxEntries <= 0 means unbounded.
	MaxEntries int
	Clock      clockwork.Clock
}

// Store is an in-process TTL cache with single-flight loading.
type Store[V any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	clock      clockwork.Clock
	flight     resilience.SingleFlight[V]
}

func NewStore[V any](opts Options) *Store[V] {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Store[V]{
		entries:    make(map[string]entry[V]),
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		clock:      opts.Clock,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	now := s.clock.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.expired(e, now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	now := s.clock.Now()
	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictExpired(now)
		if len(s.entries) >= s.maxEntries {
			s.evictOne()
		}
	}
	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: expiresAt,
	}
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key or loads it once, even when many
// callers miss at the same time. Load errors are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return zero, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	return value, nil
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

func (s *Store[V]) evictExpired(now time.Time) {
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
		}
	}
}

func (s *Store[V]) evictOne() {
	for key := range s.entries {
		delete(s.entries, key)
		return
	}
}
