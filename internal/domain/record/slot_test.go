package record

import (
	"slices"
	"testing"
)

func isTwo(v int) bool { return v == 2 }

func TestFind(t *testing.T) {
	items := []int{1, 2, 3, 2}

	if got, ok := Find(items, isTwo); !ok || got != 2 {
		t.Fatalf("expected hit, got %d %v", got, ok)
	}
	if _, ok := Find(items, func(v int) bool { return v > 5 }); ok {
		t.Fatalf("expected miss")
	}
}

func TestFilter(t *testing.T) {
	items := []int{1, 2, 3, 2}

	if got := Filter(items, isTwo); !slices.Equal(got, []int{2, 2}) {
		t.Fatalf("unexpected filter result: %v", got)
	}
	if got := Filter(nil, isTwo); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRemoveAll(t *testing.T) {
	items := []int{1, 2, 3, 2}

	all, ok := RemoveAll(items, isTwo)
	if !ok || !slices.Equal(all, []int{1, 3}) {
		t.Fatalf("unexpected result: %v %v", all, ok)
	}
	if !slices.Equal(items, []int{1, 2, 3, 2}) {
		t.Fatalf("input was mutated: %v", items)
	}
	if same, ok := RemoveAll(items, func(v int) bool { return v == 9 }); ok || len(same) != 4 {
		t.Fatalf("unexpected miss result: %v %v", same, ok)
	}
}

func TestReplaceFirst(t *testing.T) {
	items := []int{1, 2, 3, 2}

	replaced, updated, ok := ReplaceFirst(items, isTwo, func(v int) int { return v * 10 })
	if !ok || updated != 20 || !slices.Equal(replaced, []int{1, 20, 3, 2}) {
		t.Fatalf("unexpected result: %v %d %v", replaced, updated, ok)
	}
	if items[1] != 2 {
		t.Fatalf("input was mutated: %v", items)
	}
	if _, _, ok := ReplaceFirst(items, func(v int) bool { return v == 9 }, func(v int) int { return v }); ok {
		t.Fatalf("expected miss")
	}
}

func TestReplaceAll(t *testing.T) {
	items := []int{1, 2, 3, 2}

	out, replaced := ReplaceAll(items, isTwo, func(v int) int { return v * 10 })
	if !slices.Equal(out, []int{1, 20, 3, 20}) || !slices.Equal(replaced, []int{20, 20}) {
		t.Fatalf("unexpected result: out=%v replaced=%v", out, replaced)
	}
	if !slices.Equal(items, []int{1, 2, 3, 2}) {
		t.Fatalf("input was mutated: %v", items)
	}

	out, replaced = ReplaceAll(items, func(v int) bool { return v == 9 }, func(v int) int { return v })
	if len(replaced) != 0 || !slices.Equal(out, items) {
		t.Fatalf("unexpected miss result: out=%v replaced=%v", out, replaced)
	}
}
