package httpapi

import "net/http"

func (h *Handler) ListPlayerAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerAttendance")
	defer span.End()

	rows, err := h.attendance.PlayerRates(ctx)
	if err != nil {
		h.fail(ctx, w, "list player attendance failed", err)
		return
	}

	items := make([]playerAttendanceDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, playerAttendanceToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayerAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerAttendance")
	defer span.End()

	playerID := r.PathValue("playerID")
	row, ok, err := h.attendance.PlayerRate(ctx, playerID)
	if err == nil && !ok {
		err = notFound("player", playerID)
	}
	if err != nil {
		h.fail(ctx, w, "get player attendance failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerAttendanceToDTO(row))
}

func (h *Handler) ListEventParticipation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventParticipation")
	defer span.End()

	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.attendance.Participation(ctx, limit)
	if err != nil {
		h.fail(ctx, w, "list event participation failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participationToDTO(rows))
}
