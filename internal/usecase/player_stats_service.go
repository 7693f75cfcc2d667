package usecase

import (
	"context"

	"github.com/riskibarqy/teamflow/internal/domain/playerstats"
	"github.com/riskibarqy/teamflow/internal/domain/record"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

type StatsService struct {
	stats  playerstats.Repository
	logger *logging.Logger
}

func NewStatsService(stats playerstats.Repository, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		stats:  stats,
		logger: logger,
	}
}

// List returns matching stat lines in insertion order.
func (s *StatsService) List(ctx context.Context, filter playerstats.Filter) ([]playerstats.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.List")
	defer span.End()

	items, err := s.stats.Read(ctx)
	if err != nil {
		return nil, storeError("read player stats", err)
	}
	return record.Filter(items, filter.Match), nil
}

func (s *StatsService) ListByPlayer(ctx context.Context, playerID string) ([]playerstats.Record, error) {
	playerID, err := requireID("player id", playerID)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, playerstats.Filter{PlayerID: playerID})
}

func (s *StatsService) ListByGame(ctx context.Context, gameID string) ([]playerstats.Record, error) {
	gameID, err := requireID("game id", gameID)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, playerstats.Filter{GameID: gameID})
}

// Create appends a stat line. Lines for an existing (player, game) pair are
// kept alongside the earlier ones.
func (s *StatsService) Create(ctx context.Context, input playerstats.Record) (playerstats.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Create")
	defer span.End()

	playerID, err := requireID("player id", input.PlayerID)
	if err != nil {
		return playerstats.Record{}, err
	}
	gameID, err := requireID("game id", input.GameID)
	if err != nil {
		return playerstats.Record{}, err
	}

	created := input.Clone()
	created.PlayerID = playerID
	created.GameID = gameID

	if err := s.stats.Write(ctx, func(current []playerstats.Record) []playerstats.Record {
		return append(current, created)
	}); err != nil {
		return playerstats.Record{}, storeError("write player stats", err)
	}

	s.logger.InfoContext(ctx, "player stats recorded", "player_id", playerID, "game_id", gameID)
	return created.Clone(), nil
}

// Update merges u into every stat line for the pair and returns the first
// of them.
func (s *StatsService) Update(ctx context.Context, playerID, gameID string, u playerstats.Update) (playerstats.Record, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Update")
	defer span.End()

	playerID, gameID, err := requireStatKey(playerID, gameID)
	if err != nil {
		return playerstats.Record{}, false, err
	}

	var updated []playerstats.Record
	if err := s.stats.Write(ctx, func(current []playerstats.Record) []playerstats.Record {
		var next []playerstats.Record
		next, updated = record.ReplaceAll(current, byStatKey(playerID, gameID), func(r playerstats.Record) playerstats.Record {
			return r.ApplyUpdate(u)
		})
		return next
	}); err != nil {
		return playerstats.Record{}, false, storeError("write player stats", err)
	}
	if len(updated) == 0 {
		return playerstats.Record{}, false, nil
	}
	return updated[0].Clone(), true, nil
}

// Delete removes every stat line for the pair.
func (s *StatsService) Delete(ctx context.Context, playerID, gameID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Delete")
	defer span.End()

	playerID, gameID, err := requireStatKey(playerID, gameID)
	if err != nil {
		return false, err
	}

	var removed bool
	if err := s.stats.Write(ctx, func(current []playerstats.Record) []playerstats.Record {
		var next []playerstats.Record
		next, removed = record.RemoveAll(current, byStatKey(playerID, gameID))
		return next
	}); err != nil {
		return false, storeError("write player stats", err)
	}
	return removed, nil
}

func (s *StatsService) Aggregate(ctx context.Context, playerID string) (playerstats.Aggregation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Aggregate")
	defer span.End()

	playerID, err := requireID("player id", playerID)
	if err != nil {
		return playerstats.Aggregation{}, err
	}

	items, err := s.stats.Read(ctx)
	if err != nil {
		return playerstats.Aggregation{}, storeError("read player stats", err)
	}
	return playerstats.Aggregate(playerID, items), nil
}

// TopScorers ranks players by total points. A limit of zero or less uses the
// default of ten.
func (s *StatsService) TopScorers(ctx context.Context, limit int) ([]playerstats.ScorerTotal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TopScorers")
	defer span.End()

	items, err := s.stats.Read(ctx)
	if err != nil {
		return nil, storeError("read player stats", err)
	}
	return playerstats.TopScorers(items, listLimit(limit, playerstats.DefaultTopScorersLimit)), nil
}

func requireStatKey(playerID, gameID string) (string, string, error) {
	playerID, err := requireID("player id", playerID)
	if err != nil {
		return "", "", err
	}
	gameID, err = requireID("game id", gameID)
	if err != nil {
		return "", "", err
	}
	return playerID, gameID, nil
}

func byStatKey(playerID, gameID string) func(playerstats.Record) bool {
	return func(r playerstats.Record) bool { return r.Is(playerID, gameID) }
}
