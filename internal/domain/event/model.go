package event

import (
	"maps"
	"strings"
	"time"
)

// Type categorises a calendar entry.
type Type string

const (
	TypeGame     Type = "game"
	TypePractice Type = "practice"
	TypeEvent    Type = "event"
)

func (t Type) Valid() bool {
	switch t {
	case TypeGame, TypePractice, TypeEvent:
		return true
	default:
		return false
	}
}

// Status is a player's response to an event. A player with no entry in the
// availability map has not responded, which is distinct from every Status.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusMaybe       Status = "maybe"
	StatusUnavailable Status = "unavailable"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusMaybe, StatusUnavailable:
		return true
	default:
		return false
	}
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Event is a game, practice or other team event with per-player responses.
type Event struct {
	ID           string            `json:"id" yaml:"id"`
	Title        string            `json:"title,omitempty" yaml:"title,omitempty"`
	Type         Type              `json:"type" yaml:"type"`
	Date         string            `json:"date" yaml:"date"`
	Time         string            `json:"time" yaml:"time"`
	Location     string            `json:"location" yaml:"location"`
	Opponent     string            `json:"opponent,omitempty" yaml:"opponent,omitempty"`
	Notes        string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Availability map[string]Status `json:"availability" yaml:"availability"`
}

// Clone returns a copy that shares no map with e.
func (e Event) Clone() Event {
	if e.Availability == nil {
		e.Availability = map[string]Status{}
		return e
	}
	e.Availability = maps.Clone(e.Availability)
	return e
}

// StartsAt combines date and time in loc. It reports false when either part
// cannot be parsed.
func (e Event) StartsAt(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	date := strings.TrimSpace(e.Date)
	clock := strings.TrimSpace(e.Time)
	for _, layout := range []string{DateLayout + " " + TimeLayout, DateLayout + " 15:04:05"} {
		if at, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

// Update holds the mergeable event fields. Availability is not mergeable; it
// only changes through RecordAvailability.
type Update struct {
	Title    *string
	Type     *Type
	Date     *string
	Time     *string
	Location *string
	Opponent *string
	Notes    *string
}

func (e Event) ApplyUpdate(u Update) Event {
	e = e.Clone()
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Type != nil {
		e.Type = *u.Type
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Time != nil {
		e.Time = *u.Time
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.Opponent != nil {
		e.Opponent = *u.Opponent
	}
	if u.Notes != nil {
		e.Notes = *u.Notes
	}

	return e
}

// Filter narrows event listings. Zero-valued fields are ignored and the date
// bounds are inclusive.
type Filter struct {
	Type      Type
	StartDate string
	EndDate   string
}

func (f Filter) Match(e Event) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.StartDate != "" && e.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && e.Date > f.EndDate {
		return false
	}
	return true
}
