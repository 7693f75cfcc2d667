package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/shared/{shareID}", handler.GetSharedFile)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	protect := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireAuth(verifier, fn))
	}

	protect("GET /v1/players", handler.ListPlayers)
	protect("GET /v1/players/{playerID}", handler.GetPlayer)
	protect("POST /v1/players", handler.CreatePlayer)
	protect("PATCH /v1/players/{playerID}", handler.UpdatePlayer)
	protect("DELETE /v1/players/{playerID}", handler.DeletePlayer)

	protect("GET /v1/events", handler.ListEvents)
	protect("GET /v1/events/upcoming", handler.ListUpcomingEvents)
	protect("GET /v1/events/past", handler.ListPastEvents)
	protect("GET /v1/events/{eventID}", handler.GetEvent)
	protect("POST /v1/events", handler.CreateEvent)
	protect("PATCH /v1/events/{eventID}", handler.UpdateEvent)
	protect("DELETE /v1/events/{eventID}", handler.DeleteEvent)
	protect("PUT /v1/events/{eventID}/availability/{playerID}", handler.RecordAvailability)
	protect("GET /v1/events/{eventID}/availability", handler.GetAvailabilityStats)

	protect("GET /v1/messages", handler.ListMessages)
	protect("GET /v1/messages/recent", handler.ListRecentMessages)
	protect("GET /v1/messages/unread-count", handler.GetUnreadMessageCount)
	protect("GET /v1/messages/{messageID}", handler.GetMessage)
	protect("POST /v1/messages", handler.CreateMessage)
	protect("DELETE /v1/messages/{messageID}", handler.DeleteMessage)

	protect("GET /v1/files", handler.ListFiles)
	protect("GET /v1/files/{fileID}", handler.GetFile)
	protect("POST /v1/files", handler.CreateFile)
	protect("PATCH /v1/files/{fileID}", handler.UpdateFile)
	protect("DELETE /v1/files/{fileID}", handler.DeleteFile)
	protect("GET /v1/files/{fileID}/share", handler.GetFileSharing)
	protect("POST /v1/files/{fileID}/share", handler.EnableFileSharing)
	protect("DELETE /v1/files/{fileID}/share", handler.DisableFileSharing)

	protect("GET /v1/stats", handler.ListStats)
	protect("POST /v1/stats", handler.CreateStats)
	protect("PATCH /v1/stats/{playerID}/{gameID}", handler.UpdateStats)
	protect("DELETE /v1/stats/{playerID}/{gameID}", handler.DeleteStats)
	protect("GET /v1/stats/top-scorers", handler.ListTopScorers)
	protect("GET /v1/stats/players/{playerID}", handler.GetPlayerAggregate)

	protect("GET /v1/attendance/players", handler.ListPlayerAttendance)
	protect("GET /v1/attendance/players/{playerID}", handler.GetPlayerAttendance)
	protect("GET /v1/attendance/events", handler.ListEventParticipation)

	protect("GET /v1/dashboard", handler.GetDashboard)
}
