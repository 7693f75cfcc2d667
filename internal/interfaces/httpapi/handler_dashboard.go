package httpapi

import "net/http"

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	dashboard, err := h.dashboard.Get(ctx)
	if err != nil {
		h.fail(ctx, w, "get dashboard failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(dashboard))
}
