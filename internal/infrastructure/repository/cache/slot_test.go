package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/record"
	"github.com/riskibarqy/teamflow/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/teamflow/internal/platform/cache"
)

type countingSlot[T any] struct {
	record.Slot[T]
	reads    atomic.Int32
	writeErr error
}

func (s *countingSlot[T]) Read(ctx context.Context) ([]T, error) {
	s.reads.Add(1)
	return s.Slot.Read(ctx)
}

func (s *countingSlot[T]) Write(ctx context.Context, fn func([]T) []T) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.Slot.Write(ctx, fn)
}

// gatedSlot parks the first Read after it has taken its snapshot until release
// is closed.
type gatedSlot[T any] struct {
	record.Slot[T]
	hold    atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (s *gatedSlot[T]) Read(ctx context.Context) ([]T, error) {
	items, err := s.Slot.Read(ctx)
	if s.hold.CompareAndSwap(true, false) {
		close(s.entered)
		<-s.release
	}
	return items, err
}

func TestSlot_CachesReadsAndInvalidatesOnWrite(t *testing.T) {
	next := &countingSlot[event.Event]{Slot: memory.NewEventSlot([]event.Event{{ID: "e1"}})}
	store := basecache.NewStore[any](basecache.Options{TTL: time.Minute})
	slot := NewSlot[event.Event](next, store, record.KeyEvents, event.Event.Clone)

	for i := 0; i < 3; i++ {
		items, err := slot.Read(t.Context())
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected one event, got %d", len(items))
		}
		items[0].Availability["p1"] = event.StatusMaybe
	}
	if got := next.reads.Load(); got != 1 {
		t.Fatalf("expected one backing read, got %d", got)
	}

	if err := slot.Write(t.Context(), func(current []event.Event) []event.Event {
		return append(current, event.Event{ID: "e2"})
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	items, err := slot.Read(t.Context())
	if err != nil {
		t.Fatalf("read after write: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected fresh snapshot after write, got %d items", len(items))
	}
	if _, leaked := items[0].Availability["p1"]; leaked {
		t.Fatalf("mutation of a cached read leaked into the cache")
	}
	if got := next.reads.Load(); got != 2 {
		t.Fatalf("expected second backing read after invalidation, got %d", got)
	}
}

func TestSlot_InvalidatesOnFailedWrite(t *testing.T) {
	boom := errors.New("boom")
	next := &countingSlot[string]{Slot: memory.NewSlot([]string{"a"}, nil)}
	store := basecache.NewStore[any](basecache.Options{TTL: time.Minute})
	slot := NewSlot[string](next, store, record.KeyRoster, nil)

	if _, err := slot.Read(t.Context()); err != nil {
		t.Fatalf("read: %v", err)
	}

	next.writeErr = boom
	if err := slot.Write(t.Context(), func(c []string) []string { return c }); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if _, ok := store.Get(t.Context(), "slot:"+record.KeyRoster); ok {
		t.Fatalf("expected cache entry to be dropped after failed write")
	}
}

func TestSlot_LoadOverlappingWriteIsNotServedAfterWrite(t *testing.T) {
	next := &gatedSlot[event.Event]{
		Slot:    memory.NewEventSlot([]event.Event{{ID: "e1"}}),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	next.hold.Store(true)
	store := basecache.NewStore[any](basecache.Options{TTL: time.Minute})
	slot := NewSlot[event.Event](next, store, record.KeyEvents, event.Event.Clone)

	done := make(chan error, 1)
	go func() {
		_, err := slot.Read(t.Context())
		done <- err
	}()
	<-next.entered

	if err := slot.Write(t.Context(), func(current []event.Event) []event.Event {
		return append(current, event.Event{ID: "e2"})
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	close(next.release)
	if err := <-done; err != nil {
		t.Fatalf("overlapping read: %v", err)
	}

	for i := 0; i < 2; i++ {
		items, err := slot.Read(t.Context())
		if err != nil {
			t.Fatalf("read after write: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("read %d after committed write returned %d events, want 2", i, len(items))
		}
	}
}
