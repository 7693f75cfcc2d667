package cache

import (
	"context"
	"sync/atomic"

	"github.com/riskibarqy/teamflow/internal/domain/record"
	basecache "github.com/riskibarqy/teamflow/internal/platform/cache"
)

const keyPrefix = "slot:"

// Slot is a read-through cache over another slot. Every write invalidates the
// cached snapshot, whether or not the write succeeded.
//
// Snapshots carry the write generation they were loaded under. A snapshot
// whose load overlapped a write is never served once that write has returned.
type Slot[T any] struct {
	next       record.Slot[T]
	cache      *basecache.Store[any]
	key        string
	clone      func(T) T
	generation atomic.Uint64
}

type snapshot[T any] struct {
	generation uint64
	items      []T
}

// NewSlot shares cache between slots; key must be unique per slot. A nil clone
// copies records by value.
func NewSlot[T any](next record.Slot[T], cache *basecache.Store[any], key string, clone func(T) T) *Slot[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Slot[T]{next: next, cache: cache, key: keyPrefix + key, clone: clone}
}

func (s *Slot[T]) Read(ctx context.Context) ([]T, error) {
	v, err := s.cache.GetOrLoad(ctx, s.key, s.load)
	if err != nil {
		return nil, err
	}

	snap, ok := v.(snapshot[T])
	if ok && snap.generation == s.generation.Load() {
		return s.cloneAll(snap.items), nil
	}

	s.cache.Delete(ctx, s.key)
	items, err := s.next.Read(ctx)
	if err != nil {
		return nil, err
	}
	return s.cloneAll(items), nil
}

func (s *Slot[T]) Write(ctx context.Context, fn func([]T) []T) error {
	defer func() {
		s.generation.Add(1)
		s.cache.Delete(ctx, s.key)
	}()
	return s.next.Write(ctx, fn)
}

func (s *Slot[T]) load(ctx context.Context) (any, error) {
	generation := s.generation.Load()
	items, err := s.next.Read(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot[T]{generation: generation, items: s.cloneAll(items)}, nil
}

func (s *Slot[T]) cloneAll(items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, s.clone(item))
	}
	return out
}
