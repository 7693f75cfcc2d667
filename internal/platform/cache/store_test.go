package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](Options{TTL: time.Minute})
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "roster", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueUntilExpiry(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := NewStore[int](Options{TTL: time.Minute, Clock: clock})
	var calls atomic.Int32

	loader := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	for i := 0; i < 2; i++ {
		got, err := store.GetOrLoad(t.Context(), "k", loader)
		if err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
		if got != 1 {
			t.Fatalf("expected cached value 1, got %d", got)
		}
	}

	clock.Advance(time.Minute)
	got, err := store.GetOrLoad(t.Context(), "k", loader)
	if err != nil {
		t.Fatalf("GetOrLoad after expiry: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected reload after expiry, got %d", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](Options{})
	if _, err := store.GetOrLoad(t.Context(), "k", func(context.Context) (string, error) {
		return "", errUnexpectedValue
	}); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := store.Get(t.Context(), "k"); ok {
		t.Fatalf("expected failed load to leave no entry")
	}
}

func TestStore_MaxEntriesAndDelete(t *testing.T) {
	t.Parallel()

	store := NewStore[string](Options{MaxEntries: 2})
	ctx := t.Context()

	store.Set(ctx, "slot:roster", "a")
	store.Set(ctx, "slot:events", "b")
	store.Set(ctx, "token:x", "c")
	if got := store.Len(); got != 2 {
		t.Fatalf("expected store bounded at 2 entries, got %d", got)
	}
	if v, ok := store.Get(ctx, "token:x"); !ok || v != "c" {
		t.Fatalf("expected newest entry to be kept")
	}

	store.DeletePrefix(ctx, "slot:")
	store.Delete(ctx, "token:x")
	if got := store.Len(); got != 0 {
		t.Fatalf("expected empty store, got %d", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
