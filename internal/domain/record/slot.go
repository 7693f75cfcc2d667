package record

import (
	"context"
	"errors"
)

// Keys of the record slots owned by the store. Each slot is independent and
// there are no cross-slot transactions.
const (
	KeyRoster      = "roster"
	KeyEvents      = "events"
	KeyTeamFiles   = "team-files"
	KeyMessages    = "messages"
	KeyPlayerStats = "player-stats"
)

// Slot is a keyed collection of records persisted as one value.
//
// Write hands the current snapshot to fn and commits whatever fn returns as the
// next snapshot. Implementations apply the transform atomically with respect to
// other writers on the same slot. fn must not retain the slice it receives.
type Slot[T any] interface {
	Read(ctx context.Context) ([]T, error)
	Write(ctx context.Context, fn func(current []T) []T) error
}

// Find returns the first record matching pred.
func Find[T any](items []T, pred func(T) bool) (T, bool) {
	for _, item := range items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the records matching pred, preserving order.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// RemoveAll drops every record matching pred and reports whether any was removed.
func RemoveAll[T any](items []T, pred func(T) bool) ([]T, bool) {
	out := Filter(items, func(item T) bool { return !pred(item) })
	return out, len(out) != len(items)
}

// ReplaceFirst applies fn to the first record matching pred.
func ReplaceFirst[T any](items []T, pred func(T) bool, fn func(T) T) ([]T, T, bool) {
	for i, item := range items {
		if !pred(item) {
			continue
		}
		out := make([]T, len(items))
		copy(out, items)
		out[i] = fn(item)
		return out, out[i], true
	}
	var zero T
	return items, zero, false
}

// ReplaceAll applies fn to every record matching pred and returns the
// replaced records in order.
func ReplaceAll[T any](items []T, pred func(T) bool, fn func(T) T) ([]T, []T) {
	var replaced []T
	out := make([]T, len(items))
	for i, item := range items {
		if pred(item) {
			item = fn(item)
			replaced = append(replaced, item)
		}
		out[i] = item
	}
	return out, replaced
}

// ErrUnavailable marks failures to reach the backing store, as opposed to
// corrupt or undecodable slot contents.
var ErrUnavailable = errors.New("record store unavailable")
