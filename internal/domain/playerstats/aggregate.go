package playerstats

import "slices"

const DefaultTopScorersLimit = 10

type ScorerTotal struct {
	PlayerID    string
	TotalPoints int
}

// TopScorers sums points per player and returns the highest totals first.
// Ties keep the order in which players first appear. A limit <= 0 yields an
// empty result.
func TopScorers(records []Record, limit int) []ScorerTotal {
	if limit <= 0 {
		return []ScorerTotal{}
	}

	index := make(map[string]int, len(records))
	totals := make([]ScorerTotal, 0, len(records))
	for _, r := range records {
		i, ok := index[r.PlayerID]
		if !ok {
			i = len(totals)
			index[r.PlayerID] = i
			totals = append(totals, ScorerTotal{PlayerID: r.PlayerID})
		}
		totals[i].TotalPoints += valueOf(r.Points)
	}

	slices.SortStableFunc(totals, func(a, b ScorerTotal) int { return b.TotalPoints - a.TotalPoints })
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals
}

type Aggregation struct {
	PlayerID        string
	TotalGames      int
	TotalPoints     int
	TotalAssists    int
	TotalRebounds   int
	TotalGoals      int
	AveragePoints   float64
	AverageAssists  float64
	AverageRebounds float64
	AverageGoals    float64
}

// Aggregate totals and averages a player's stat lines. TotalGames counts
// records, so duplicate (player, game) records are each counted.
func Aggregate(playerID string, records []Record) Aggregation {
	agg := Aggregation{PlayerID: playerID}
	for _, r := range records {
		if r.PlayerID != playerID {
			continue
		}
		agg.TotalGames++
		agg.TotalPoints += valueOf(r.Points)
		agg.TotalAssists += valueOf(r.Assists)
		agg.TotalRebounds += valueOf(r.Rebounds)
		agg.TotalGoals += valueOf(r.Goals)
	}
	if agg.TotalGames == 0 {
		return agg
	}

	games := float64(agg.TotalGames)
	agg.AveragePoints = float64(agg.TotalPoints) / games
	agg.AverageAssists = float64(agg.TotalAssists) / games
	agg.AverageRebounds = float64(agg.TotalRebounds) / games
	agg.AverageGoals = float64(agg.TotalGoals) / games
	return agg
}
