package memory

import (
	"sync"
	"testing"

	"github.com/riskibarqy/teamflow/internal/domain/event"
)

func TestSlot_ReadReturnsIsolatedCopies(t *testing.T) {
	slot := NewEventSlot([]event.Event{{ID: "e1", Availability: map[string]event.Status{"p1": event.StatusAvailable}}})

	items, err := slot.Read(t.Context())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	items[0].Availability["p1"] = event.StatusUnavailable
	items[0].Location = "changed"

	again, _ := slot.Read(t.Context())
	if again[0].Availability["p1"] != event.StatusAvailable || again[0].Location != "" {
		t.Fatalf("slot state leaked through a read: %+v", again[0])
	}
}

func TestSlot_WriteReplacesCollection(t *testing.T) {
	slot := NewSlot([]string{"a", "b"}, nil)

	if err := slot.Write(t.Context(), func(current []string) []string {
		return append(current, "c")
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	items, _ := slot.Read(t.Context())
	if len(items) != 3 || items[2] != "c" {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestSlot_ConcurrentWritesAreSerialized(t *testing.T) {
	slot := NewSlot([]int{}, nil)

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			_ = slot.Write(t.Context(), func(current []int) []int {
				return append(current, n)
			})
		}(i)
	}
	wg.Wait()

	items, _ := slot.Read(t.Context())
	if len(items) != writers {
		t.Fatalf("expected %d items, got %d", writers, len(items))
	}
}
