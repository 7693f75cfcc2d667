// Package attendance derives attendance rates and participation summaries from
// event and roster snapshots. Every function is pure.
package attendance

import (
	"math"

	"github.com/riskibarqy/teamflow/internal/domain/event"
)

// PlayerRate is a player's record across the events they responded to.
type PlayerRate struct {
	PlayerID  string
	Responded int
	Available int
	Rate      int
}

// RateFor counts only the events in which playerID has an availability entry.
func RateFor(playerID string, events []event.Event) PlayerRate {
	out := PlayerRate{PlayerID: playerID}
	for _, e := range events {
		status, ok := e.Availability[playerID]
		if !ok {
			continue
		}
		out.Responded++
		if status == event.StatusAvailable {
			out.Available++
		}
	}
	out.Rate = percent(out.Available, out.Responded)
	return out
}

// AttendanceRate is the rounded percentage of playerID's responded events
// marked available. It is 0 when the player has not responded to any event.
func AttendanceRate(playerID string, events []event.Event) int {
	return RateFor(playerID, events).Rate
}

// ResponseRate is the rounded percentage of the roster that answered e,
// capped at 100. It is 0 for an empty roster.
func ResponseRate(e event.Event, rosterSize int) int {
	return min(percent(len(e.Availability), rosterSize), 100)
}

// EventParticipation summarises responses to one event.
type EventParticipation struct {
	Event        event.Event
	Tally        event.Tally
	ResponseRate int
}

func Participation(events []event.Event, rosterSize int) []EventParticipation {
	out := make([]EventParticipation, 0, len(events))
	for _, e := range events {
		out = append(out, EventParticipation{
			Event:        e,
			Tally:        event.TallyWithRoster(e, rosterSize),
			ResponseRate: ResponseRate(e, rosterSize),
		})
	}
	return out
}

// Summary is the team overview shown on dashboards.
type Summary struct {
	TeamSize    int
	TotalEvents int
	Games       int
	Practices   int
}

func Summarize(rosterSize int, events []event.Event) Summary {
	out := Summary{TeamSize: rosterSize, TotalEvents: len(events)}
	for _, e := range events {
		switch e.Type {
		case event.TypeGame:
			out.Games++
		case event.TypePractice:
			out.Practices++
		}
	}
	return out
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
