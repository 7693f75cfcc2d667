package playerstats

import "maps"

// Record is one player's stat line for one game. Records are addressed by the
// (PlayerID, GameID) pair and have no id of their own. Uniqueness of the pair
// is not enforced on create.
type Record struct {
	PlayerID string             `json:"playerId" yaml:"playerId"`
	GameID   string             `json:"gameId" yaml:"gameId"`
	Points   *int               `json:"points,omitempty" yaml:"points,omitempty"`
	Assists  *int               `json:"assists,omitempty" yaml:"assists,omitempty"`
	Rebounds *int               `json:"rebounds,omitempty" yaml:"rebounds,omitempty"`
	Goals    *int               `json:"goals,omitempty" yaml:"goals,omitempty"`
	Extra    map[string]float64 `json:"extra,omitempty" yaml:"extra,omitempty"`
}

func (r Record) Is(playerID, gameID string) bool {
	return r.PlayerID == playerID && r.GameID == gameID
}

func (r Record) Clone() Record {
	r.Points = cloneInt(r.Points)
	r.Assists = cloneInt(r.Assists)
	r.Rebounds = cloneInt(r.Rebounds)
	r.Goals = cloneInt(r.Goals)
	if r.Extra != nil {
		r.Extra = maps.Clone(r.Extra)
	}
	return r
}

// Update holds the mergeable stat fields. Extra keys are merged one by one;
// keys absent from the update keep their prior value.
type Update struct {
	Points   *int
	Assists  *int
	Rebounds *int
	Goals    *int
	Extra    map[string]float64
}

func (r Record) ApplyUpdate(u Update) Record {
	r = r.Clone()
	if u.Points != nil {
		r.Points = cloneInt(u.Points)
	}
	if u.Assists != nil {
		r.Assists = cloneInt(u.Assists)
	}
	if u.Rebounds != nil {
		r.Rebounds = cloneInt(u.Rebounds)
	}
	if u.Goals != nil {
		r.Goals = cloneInt(u.Goals)
	}
	if len(u.Extra) > 0 {
		if r.Extra == nil {
			r.Extra = make(map[string]float64, len(u.Extra))
		}
		maps.Copy(r.Extra, u.Extra)
	}
	return r
}

// Filter narrows stat listings. Zero-valued fields are ignored.
type Filter struct {
	PlayerID string
	GameID   string
}

func (f Filter) Match(r Record) bool {
	if f.PlayerID != "" && r.PlayerID != f.PlayerID {
		return false
	}
	if f.GameID != "" && r.GameID != f.GameID {
		return false
	}
	return true
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func valueOf(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
