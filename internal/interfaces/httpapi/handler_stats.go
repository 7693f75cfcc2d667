package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/teamflow/internal/domain/playerstats"
)

func (h *Handler) ListStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStats")
	defer span.End()

	filter := playerstats.Filter{
		PlayerID: strings.TrimSpace(r.URL.Query().Get("player_id")),
		GameID:   strings.TrimSpace(r.URL.Query().Get("game_id")),
	}
	items, err := h.stats.List(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "list stats failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsListToDTO(items))
}

func (h *Handler) CreateStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateStats")
	defer span.End()

	var req createStatsRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.stats.Create(ctx, playerstats.Record{
		PlayerID: req.PlayerID,
		GameID:   req.GameID,
		Points:   req.Points,
		Assists:  req.Assists,
		Rebounds: req.Rebounds,
		Goals:    req.Goals,
		Extra:    req.Extra,
	})
	if err != nil {
		h.fail(ctx, w, "create stats failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, statsToDTO(item))
}

func (h *Handler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateStats")
	defer span.End()

	playerID := r.PathValue("playerID")
	gameID := r.PathValue("gameID")
	var req updateStatsRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, ok, err := h.stats.Update(ctx, playerID, gameID, playerstats.Update{
		Points:   req.Points,
		Assists:  req.Assists,
		Rebounds: req.Rebounds,
		Goals:    req.Goals,
		Extra:    req.Extra,
	})
	if err == nil && !ok {
		err = notFound("stats", fmt.Sprintf("%s/%s", playerID, gameID))
	}
	if err != nil {
		h.fail(ctx, w, "update stats failed", err, "player_id", playerID, "game_id", gameID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTO(item))
}

func (h *Handler) DeleteStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteStats")
	defer span.End()

	playerID := r.PathValue("playerID")
	gameID := r.PathValue("gameID")
	ok, err := h.stats.Delete(ctx, playerID, gameID)
	if err == nil && !ok {
		err = notFound("stats", fmt.Sprintf("%s/%s", playerID, gameID))
	}
	if err != nil {
		h.fail(ctx, w, "delete stats failed", err, "player_id", playerID, "game_id", gameID)
		return
	}

	writeDeleted(ctx, w)
}

func (h *Handler) ListTopScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopScorers")
	defer span.End()

	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.stats.TopScorers(ctx, limit)
	if err != nil {
		h.fail(ctx, w, "list top scorers failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scorersToDTO(items))
}

func (h *Handler) GetPlayerAggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerAggregate")
	defer span.End()

	playerID := r.PathValue("playerID")
	agg, err := h.stats.Aggregate(ctx, playerID)
	if err != nil {
		h.fail(ctx, w, "aggregate stats failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, aggregationToDTO(agg))
}
