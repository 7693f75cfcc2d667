package memory

import (
	"context"
	"sync"
)

// Slot keeps one record collection in process memory. Records are cloned on
// the way in and out so callers never share mutable state with the slot.
type Slot[T any] struct {
	mu    sync.RWMutex
	items []T
	clone func(T) T
}

// NewSlot seeds the slot with items. A nil clone copies records by value.
func NewSlot[T any](items []T, clone func(T) T) *Slot[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	s := &Slot[T]{clone: clone}
	s.items = s.cloneAll(items)
	return s
}

func (s *Slot[T]) Read(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cloneAll(s.items), nil
}

// Write holds the slot lock while fn runs, so concurrent writers are applied
// one after another.
func (s *Slot[T]) Write(_ context.Context, fn func([]T) []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.cloneAll(fn(s.cloneAll(s.items)))
	return nil
}

func (s *Slot[T]) cloneAll(items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, s.clone(item))
	}
	return out
}
