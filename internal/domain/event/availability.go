package event

// RecordAvailability upserts playerID's response and returns the updated
// event. The input event's map is left untouched and entries for other players
// are preserved. Unknown player ids are accepted.
func RecordAvailability(e Event, playerID string, status Status) Event {
	e = e.Clone()
	e.Availability[playerID] = status
	return e
}

// Tally counts responses for one event.
type Tally struct {
	Available   int
	Maybe       int
	Unavailable int
	// NoResponse is only meaningful when RosterKnown is true.
	NoResponse  int
	RosterKnown bool
}

func (t Tally) Responded() int {
	return t.Available + t.Maybe + t.Unavailable
}

// TallyResponses counts the availability entries of e by status. Without a
// roster size the number of missing responses is unknown.
func TallyResponses(e Event) Tally {
	var t Tally
	for _, status := range e.Availability {
		switch status {
		case StatusAvailable:
			t.Available++
		case StatusMaybe:
			t.Maybe++
		case StatusUnavailable:
			t.Unavailable++
		}
	}
	return t
}

// TallyWithRoster is TallyResponses plus the count of roster members who have
// not responded. Responses from ids outside the roster can push the raw
// difference below zero; it is floored at zero.
func TallyWithRoster(e Event, rosterSize int) Tally {
	t := TallyResponses(e)
	t.RosterKnown = true
	t.NoResponse = max(rosterSize-t.Responded(), 0)
	return t
}
