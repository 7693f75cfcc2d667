package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items, err := h.players.Search(ctx, query)
	if err != nil {
		h.fail(ctx, w, "list players failed", err, "query", query)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	item, ok, err := h.players.GetByID(ctx, playerID)
	if err == nil && !ok {
		err = notFound("player", playerID)
	}
	if err != nil {
		h.fail(ctx, w, "get player failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	var req createPlayerRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.players.Create(ctx, usecase.CreatePlayerInput{
		Name:             strings.TrimSpace(req.Name),
		JerseyNumber:     strings.TrimSpace(req.JerseyNumber),
		Position:         strings.TrimSpace(req.Position),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		EmergencyContact: strings.TrimSpace(req.EmergencyContact),
		EmergencyPhone:   strings.TrimSpace(req.EmergencyPhone),
		PhotoURL:         req.PhotoURL,
	})
	if err != nil {
		h.fail(ctx, w, "create player failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(item))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	var req updatePlayerRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, ok, err := h.players.Update(ctx, playerID, player.Update{
		Name:             req.Name,
		JerseyNumber:     req.JerseyNumber,
		Position:         req.Position,
		Email:            req.Email,
		Phone:            req.Phone,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		PhotoURL:         req.PhotoURL,
	})
	if err == nil && !ok {
		err = notFound("player", playerID)
	}
	if err != nil {
		h.fail(ctx, w, "update player failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	ok, err := h.players.Delete(ctx, playerID)
	if err == nil && !ok {
		err = notFound("player", playerID)
	}
	if err != nil {
		h.fail(ctx, w, "delete player failed", err, "player_id", playerID)
		return
	}

	writeDeleted(ctx, w)
}
