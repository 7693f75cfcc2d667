package player

import (
	"strings"

	"golang.org/x/text/cases"
)

// Player is a roster member. Players are independent of events: responses may
// reference ids that are no longer on the roster.
type Player struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	JerseyNumber     string `json:"jerseyNumber" yaml:"jerseyNumber"`
	Position         string `json:"position" yaml:"position"`
	Email            string `json:"email" yaml:"email"`
	Phone            string `json:"phone" yaml:"phone"`
	EmergencyContact string `json:"emergencyContact" yaml:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone" yaml:"emergencyPhone"`
	PhotoURL         string `json:"photoUrl,omitempty" yaml:"photoUrl,omitempty"`
}

// Update holds the mergeable player fields. Nil fields keep their prior value.
type Update struct {
	Name             *string
	JerseyNumber     *string
	Position         *string
	Email            *string
	Phone            *string
	EmergencyContact *string
	EmergencyPhone   *string
	PhotoURL         *string
}

func (p Player) ApplyUpdate(u Update) Player {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.JerseyNumber != nil {
		p.JerseyNumber = *u.JerseyNumber
	}
	if u.Position != nil {
		p.Position = *u.Position
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.EmergencyContact != nil {
		p.EmergencyContact = *u.EmergencyContact
	}
	if u.EmergencyPhone != nil {
		p.EmergencyPhone = *u.EmergencyPhone
	}
	if u.PhotoURL != nil {
		p.PhotoURL = *u.PhotoURL
	}

	return p
}

// Matches reports whether query is a case-insensitive substring of the
// player's name, jersey number, position or email. An empty query matches.
func (p Player) Matches(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}

	fold := cases.Fold()
	needle := fold.String(query)
	for _, field := range []string{p.Name, p.JerseyNumber, p.Position, p.Email} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}

	return false
}
