package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	filter, err := eventFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.events.List(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "list events failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(items))
}

func (h *Handler) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingEvents")
	defer span.End()

	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.events.Upcoming(ctx, limit)
	if err != nil {
		h.fail(ctx, w, "list upcoming events failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(items))
}

func (h *Handler) ListPastEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPastEvents")
	defer span.End()

	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.events.Past(ctx, limit)
	if err != nil {
		h.fail(ctx, w, "list past events failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(items))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEvent")
	defer span.End()

	eventID := r.PathValue("eventID")
	item, ok, err := h.events.GetByID(ctx, eventID)
	if err == nil && !ok {
		err = notFound("event", eventID)
	}
	if err != nil {
		h.fail(ctx, w, "get event failed", err, "event_id", eventID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(item))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEvent")
	defer span.End()

	var req createEventRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.events.Create(ctx, usecase.CreateEventInput{
		Title:    strings.TrimSpace(req.Title),
		Type:     event.Type(req.Type),
		Date:     req.Date,
		Time:     req.Time,
		Location: strings.TrimSpace(req.Location),
		Opponent: strings.TrimSpace(req.Opponent),
		Notes:    req.Notes,
	})
	if err != nil {
		h.fail(ctx, w, "create event failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, eventToDTO(item))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateEvent")
	defer span.End()

	eventID := r.PathValue("eventID")
	var req updateEventRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	patch := event.Update{
		Title:    req.Title,
		Date:     req.Date,
		Time:     req.Time,
		Location: req.Location,
		Opponent: req.Opponent,
		Notes:    req.Notes,
	}
	if req.Type != nil {
		typ := event.Type(*req.Type)
		patch.Type = &typ
	}

	item, ok, err := h.events.Update(ctx, eventID, patch)
	if err == nil && !ok {
		err = notFound("event", eventID)
	}
	if err != nil {
		h.fail(ctx, w, "update event failed", err, "event_id", eventID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(item))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteEvent")
	defer span.End()

	eventID := r.PathValue("eventID")
	ok, err := h.events.Delete(ctx, eventID)
	if err == nil && !ok {
		err = notFound("event", eventID)
	}
	if err != nil {
		h.fail(ctx, w, "delete event failed", err, "event_id", eventID)
		return
	}

	writeDeleted(ctx, w)
}

func (h *Handler) RecordAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordAvailability")
	defer span.End()

	eventID := r.PathValue("eventID")
	playerID := r.PathValue("playerID")
	var req availabilityRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, ok, err := h.events.RecordAvailability(ctx, eventID, playerID, event.Status(req.Status))
	if err == nil && !ok {
		err = notFound("event", eventID)
	}
	if err != nil {
		h.fail(ctx, w, "record availability failed", err, "event_id", eventID, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(item))
}

func (h *Handler) GetAvailabilityStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAvailabilityStats")
	defer span.End()

	eventID := r.PathValue("eventID")
	tally, ok, err := h.events.AvailabilityStats(ctx, eventID)
	if err == nil && !ok {
		err = notFound("event", eventID)
	}
	if err != nil {
		h.fail(ctx, w, "availability stats failed", err, "event_id", eventID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tallyToDTO(tally))
}

func eventFilterFromQuery(r *http.Request) (event.Filter, error) {
	var filter event.Filter

	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		filter.Type = event.Type(raw)
		if !filter.Type.Valid() {
			return event.Filter{}, fmt.Errorf("%w: unknown event type %q", usecase.ErrInvalidInput, raw)
		}
	}

	var err error
	if filter.StartDate, err = queryDate(r, "start_date"); err != nil {
		return event.Filter{}, err
	}
	if filter.EndDate, err = queryDate(r, "end_date"); err != nil {
		return event.Filter{}, err
	}
	return filter, nil
}
