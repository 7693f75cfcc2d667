package event

import (
	"maps"
	"testing"
)

func TestRecordAvailability_UpsertKeepsSingleEntry(t *testing.T) {
	e := Event{ID: "e1", Type: TypeGame, Date: "2024-06-01", Time: "18:00", Availability: map[string]Status{}}

	e = RecordAvailability(e, "p1", StatusAvailable)
	e = RecordAvailability(e, "p1", StatusMaybe)

	if len(e.Availability) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(e.Availability))
	}
	if got := e.Availability["p1"]; got != StatusMaybe {
		t.Fatalf("expected p1=maybe, got %q", got)
	}
}

func TestRecordAvailability_Idempotent(t *testing.T) {
	base := Event{ID: "e1", Availability: map[string]Status{"p2": StatusUnavailable}}

	once := RecordAvailability(base, "p1", StatusAvailable)
	twice := RecordAvailability(once, "p1", StatusAvailable)

	if !maps.Equal(once.Availability, twice.Availability) {
		t.Fatalf("expected idempotent upsert, got %v vs %v", once.Availability, twice.Availability)
	}
}

func TestRecordAvailability_DoesNotTouchOtherPlayersOrInput(t *testing.T) {
	base := Event{ID: "e1", Availability: map[string]Status{
		"p2": StatusUnavailable,
		"p3": StatusMaybe,
	}}

	got := RecordAvailability(base, "p1", StatusAvailable)

	if got.Availability["p2"] != StatusUnavailable || got.Availability["p3"] != StatusMaybe {
		t.Fatalf("other entries changed: %v", got.Availability)
	}
	if _, ok := base.Availability["p1"]; ok {
		t.Fatalf("input event map was mutated")
	}
}

func TestRecordAvailability_NilMap(t *testing.T) {
	got := RecordAvailability(Event{ID: "e1"}, "ghost", StatusMaybe)
	if got.Availability["ghost"] != StatusMaybe {
		t.Fatalf("expected unknown player to be accepted, got %v", got.Availability)
	}
}

func TestTallyWithRoster_SumsToRosterSize(t *testing.T) {
	roster := []string{"p1", "p2", "p3", "p4", "p5"}
	statuses := []map[string]Status{
		{},
		{"p1": StatusAvailable},
		{"p1": StatusAvailable, "p2": StatusMaybe, "p3": StatusUnavailable},
		{"p1": StatusAvailable, "p2": StatusAvailable, "p3": StatusAvailable, "p4": StatusMaybe, "p5": StatusUnavailable},
	}

	for _, availability := range statuses {
		got := TallyWithRoster(Event{Availability: availability}, len(roster))
		if !got.RosterKnown {
			t.Fatalf("expected roster to be known")
		}
		if sum := got.Available + got.Maybe + got.Unavailable + got.NoResponse; sum != len(roster) {
			t.Fatalf("expected counts to sum to %d, got %d (%+v)", len(roster), sum, got)
		}
	}
}

func TestTallyResponses_WithoutRoster(t *testing.T) {
	e := Event{Availability: map[string]Status{
		"p1": StatusAvailable,
		"p2": StatusAvailable,
		"p3": StatusMaybe,
	}}

	got := TallyResponses(e)
	if got.Available != 2 || got.Maybe != 1 || got.Unavailable != 0 {
		t.Fatalf("unexpected tally: %+v", got)
	}
	if got.RosterKnown || got.NoResponse != 0 {
		t.Fatalf("expected no-response to be unknown, got %+v", got)
	}
}

func TestTallyWithRoster_FloorsForeignResponses(t *testing.T) {
	e := Event{Availability: map[string]Status{
		"former-1": StatusAvailable,
		"former-2": StatusAvailable,
		"p1":       StatusMaybe,
	}}

	got := TallyWithRoster(e, 1)
	if got.NoResponse != 0 {
		t.Fatalf("expected no-response floored at zero, got %d", got.NoResponse)
	}
}
