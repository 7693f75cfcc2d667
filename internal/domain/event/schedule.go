package event

import (
	"slices"
	"strings"
	"time"
)

const DefaultListLimit = 10

// SortChronological orders events by date then time. Ties keep their order.
func SortChronological(events []Event) []Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b Event) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})
	return out
}

type timedEvent struct {
	event Event
	at    time.Time
}

// Upcoming returns the events starting at or after now, soonest first.
// A limit <= 0 returns every match.
func Upcoming(events []Event, now time.Time, loc *time.Location, limit int) []Event {
	matched := partition(events, loc, func(at time.Time) bool { return !at.Before(now) })
	slices.SortStableFunc(matched, func(a, b timedEvent) int { return a.at.Compare(b.at) })
	return truncate(matched, limit)
}

// Past returns the events that started strictly before now, most recent first.
// A limit <= 0 returns every match.
func Past(events []Event, now time.Time, loc *time.Location, limit int) []Event {
	matched := partition(events, loc, func(at time.Time) bool { return at.Before(now) })
	slices.SortStableFunc(matched, func(a, b timedEvent) int { return b.at.Compare(a.at) })
	return truncate(matched, limit)
}

// Events with an unparseable date or time belong to neither partition.
func partition(events []Event, loc *time.Location, keep func(time.Time) bool) []timedEvent {
	out := make([]timedEvent, 0, len(events))
	for _, e := range events {
		at, ok := e.StartsAt(loc)
		if !ok || !keep(at) {
			continue
		}
		out = append(out, timedEvent{event: e, at: at})
	}
	return out
}

func truncate(items []timedEvent, limit int) []Event {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]Event, 0, len(items))
	for _, item := range items {
		out = append(out, item.event)
	}
	return out
}
