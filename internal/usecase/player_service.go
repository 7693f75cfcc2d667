package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/domain/record"
	idgen "github.com/riskibarqy/teamflow/internal/platform/id"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

type CreatePlayerInput struct {
	Name             string
	JerseyNumber     string
	Position         string
	Email            string
	Phone            string
	EmergencyContact string
	EmergencyPhone   string
	PhotoURL         string
}

type PlayerService struct {
	roster player.Repository
	idGen  idgen.Generator
	logger *logging.Logger
}

func NewPlayerService(roster player.Repository, idGen idgen.Generator, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerService{
		roster: roster,
		idGen:  idGen,
		logger: logger,
	}
}

// List returns the roster in insertion order.
func (s *PlayerService) List(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	items, err := s.roster.Read(ctx)
	if err != nil {
		return nil, storeError("read roster", err)
	}
	return items, nil
}

// Search matches query against name, jersey number, position and email.
// An empty query returns the whole roster.
func (s *PlayerService) Search(ctx context.Context, query string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Search")
	defer span.End()

	items, err := s.roster.Read(ctx)
	if err != nil {
		return nil, storeError("read roster", err)
	}
	return record.Filter(items, func(p player.Player) bool { return p.Matches(query) }), nil
}

func (s *PlayerService) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetByID")
	defer span.End()

	playerID, err := requireID("player id", playerID)
	if err != nil {
		return player.Player{}, false, err
	}

	items, err := s.roster.Read(ctx)
	if err != nil {
		return player.Player{}, false, storeError("read roster", err)
	}
	item, ok := record.Find(items, byPlayerID(playerID))
	return item, ok, nil
}

func (s *PlayerService) Create(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	id, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	created := player.Player{
		ID:               id,
		Name:             input.Name,
		JerseyNumber:     input.JerseyNumber,
		Position:         input.Position,
		Email:            input.Email,
		Phone:            input.Phone,
		EmergencyContact: input.EmergencyContact,
		EmergencyPhone:   input.EmergencyPhone,
		PhotoURL:         input.PhotoURL,
	}

	if err := s.roster.Write(ctx, func(current []player.Player) []player.Player {
		return append(current, created)
	}); err != nil {
		return player.Player{}, storeError("write roster", err)
	}

	s.logger.InfoContext(ctx, "player added to roster", "player_id", created.ID)
	return created, nil
}

// Update merges the non-nil fields of u into the player. It reports false when
// no player has the id.
func (s *PlayerService) Update(ctx context.Context, playerID string, u player.Update) (player.Player, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	playerID, err := requireID("player id", playerID)
	if err != nil {
		return player.Player{}, false, err
	}

	var (
		updated player.Player
		found   bool
	)
	if err := s.roster.Write(ctx, func(current []player.Player) []player.Player {
		var next []player.Player
		next, updated, found = record.ReplaceFirst(current, byPlayerID(playerID), func(p player.Player) player.Player {
			return p.ApplyUpdate(u)
		})
		return next
	}); err != nil {
		return player.Player{}, false, storeError("write roster", err)
	}

	return updated, found, nil
}

func (s *PlayerService) Delete(ctx context.Context, playerID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	playerID, err := requireID("player id", playerID)
	if err != nil {
		return false, err
	}

	var removed bool
	if err := s.roster.Write(ctx, func(current []player.Player) []player.Player {
		var next []player.Player
		next, removed = record.RemoveAll(current, byPlayerID(playerID))
		return next
	}); err != nil {
		return false, storeError("write roster", err)
	}

	if removed {
		s.logger.InfoContext(ctx, "player removed from roster", "player_id", playerID)
	}
	return removed, nil
}

func byPlayerID(id string) func(player.Player) bool {
	return func(p player.Player) bool { return p.ID == id }
}
