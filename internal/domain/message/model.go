package message

import (
	"slices"
	"time"
)

// Audience is the recipient group of a message.
type Audience string

const (
	AudienceAll     Audience = "all"
	AudienceCoaches Audience = "coaches"
	AudiencePlayers Audience = "players"
	AudienceParents Audience = "parents"
)

func (a Audience) Valid() bool {
	switch a {
	case AudienceAll, AudienceCoaches, AudiencePlayers, AudienceParents:
		return true
	default:
		return false
	}
}

// Message is a team announcement. Messages are immutable once posted.
type Message struct {
	ID         string    `json:"id" yaml:"id"`
	Sender     string    `json:"sender" yaml:"sender"`
	Content    string    `json:"content" yaml:"content"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Recipients Audience  `json:"recipients" yaml:"recipients"`
}

// Filter narrows message listings. Zero-valued fields are ignored and the
// time bounds are inclusive.
type Filter struct {
	Recipients Audience
	Sender     string
	Start      time.Time
	End        time.Time
}

func (f Filter) Match(m Message) bool {
	if f.Recipients != "" && m.Recipients != f.Recipients {
		return false
	}
	if f.Sender != "" && m.Sender != f.Sender {
		return false
	}
	if !f.Start.IsZero() && m.Timestamp.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && m.Timestamp.After(f.End) {
		return false
	}
	return true
}

// SortNewestFirst orders messages by timestamp descending. Ties keep their order.
func SortNewestFirst(messages []Message) []Message {
	out := slices.Clone(messages)
	slices.SortStableFunc(out, func(a, b Message) int { return b.Timestamp.Compare(a.Timestamp) })
	return out
}
