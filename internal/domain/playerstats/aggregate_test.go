package playerstats

import "testing"

func intPtr(v int) *int { return &v }

func TestTopScorers_GroupsAndSortsDescending(t *testing.T) {
	records := []Record{
		{PlayerID: "p1", GameID: "g1", Points: intPtr(10)},
		{PlayerID: "p2", GameID: "g1", Points: intPtr(30)},
		{PlayerID: "p1", GameID: "g2", Points: intPtr(5)},
	}

	got := TopScorers(records, 10)
	want := []ScorerTotal{{PlayerID: "p2", TotalPoints: 30}, {PlayerID: "p1", TotalPoints: 15}}
	if len(got) != len(want) {
		t.Fatalf("expected %d scorers, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scorer %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestTopScorers_TiesKeepFirstSeenOrder(t *testing.T) {
	records := []Record{
		{PlayerID: "late", GameID: "g0"},
		{PlayerID: "b", GameID: "g1", Points: intPtr(8)},
		{PlayerID: "a", GameID: "g1", Points: intPtr(8)},
		{PlayerID: "late", GameID: "g2", Points: intPtr(8)},
	}

	got := TopScorers(records, 10)
	order := []string{got[0].PlayerID, got[1].PlayerID, got[2].PlayerID}
	if order[0] != "late" || order[1] != "b" || order[2] != "a" {
		t.Fatalf("unexpected tie order: %v", order)
	}
}

func TestTopScorers_Limit(t *testing.T) {
	records := []Record{
		{PlayerID: "p1", Points: intPtr(1)},
		{PlayerID: "p2", Points: intPtr(2)},
		{PlayerID: "p3", Points: intPtr(3)},
	}

	if got := TopScorers(records, 2); len(got) != 2 || got[0].PlayerID != "p3" {
		t.Fatalf("unexpected truncated result: %+v", got)
	}
	for _, limit := range []int{0, -1} {
		got := TopScorers(records, limit)
		if got == nil || len(got) != 0 {
			t.Fatalf("limit %d: expected empty non-nil result, got %+v", limit, got)
		}
	}
}

func TestTopScorers_MissingPointsCountAsZero(t *testing.T) {
	got := TopScorers([]Record{{PlayerID: "p1", GameID: "g1", Goals: intPtr(2)}}, 10)
	if len(got) != 1 || got[0].TotalPoints != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestAggregate_NoRecords(t *testing.T) {
	got := Aggregate("p1", []Record{{PlayerID: "p2", Points: intPtr(4)}})
	want := Aggregation{PlayerID: "p1"}
	if got != want {
		t.Fatalf("expected zero aggregation, got %+v", got)
	}
}

func TestAggregate_TotalsAndAverages(t *testing.T) {
	records := []Record{
		{PlayerID: "p1", GameID: "g1", Points: intPtr(10), Assists: intPtr(3), Rebounds: intPtr(5)},
		{PlayerID: "p1", GameID: "g2", Points: intPtr(20), Goals: intPtr(1)},
		{PlayerID: "p2", GameID: "g1", Points: intPtr(99)},
	}

	got := Aggregate("p1", records)
	if got.TotalGames != 2 || got.TotalPoints != 30 || got.TotalAssists != 3 || got.TotalRebounds != 5 || got.TotalGoals != 1 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.AveragePoints != 15 || got.AverageAssists != 1.5 || got.AverageRebounds != 2.5 || got.AverageGoals != 0.5 {
		t.Fatalf("unexpected averages: %+v", got)
	}
}

// Duplicate (player, game) records are kept by the store and each one counts
// as a game here.
func TestAggregate_DuplicateRecordsInflateGames(t *testing.T) {
	records := []Record{
		{PlayerID: "p1", GameID: "g1", Points: intPtr(10)},
		{PlayerID: "p1", GameID: "g1", Points: intPtr(10)},
	}

	got := Aggregate("p1", records)
	if got.TotalGames != 2 {
		t.Fatalf("expected duplicate records to count twice, got %d games", got.TotalGames)
	}
	if got.AveragePoints != 10 {
		t.Fatalf("unexpected average: %v", got.AveragePoints)
	}
}

func TestApplyUpdate_MergesExtraKeys(t *testing.T) {
	base := Record{PlayerID: "p1", GameID: "g1", Points: intPtr(4), Extra: map[string]float64{"steals": 2, "blocks": 1}}

	got := base.ApplyUpdate(Update{Rebounds: intPtr(7), Extra: map[string]float64{"steals": 3}})

	if *got.Points != 4 || *got.Rebounds != 7 {
		t.Fatalf("unexpected merged fields: %+v", got)
	}
	if got.Extra["steals"] != 3 || got.Extra["blocks"] != 1 {
		t.Fatalf("unexpected extra merge: %v", got.Extra)
	}
	if base.Extra["steals"] != 2 || base.Rebounds != nil {
		t.Fatalf("input record was mutated: %+v", base)
	}
}
