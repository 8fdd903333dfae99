package api

import (
	"net/http"
)

// GetSessions lists the live viewer sessions.
// GET /api/v1/sessions
func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.streamer.Tracker().Snapshot()
	writeJSONData(w, SessionsResponse{
		Count:    len(sessions),
		Sessions: sessions,
	})
}

// CheckHealth reports liveness.
// GET /api/v1/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, HealthResponse{
		Status:   "ok",
		Sessions: h.streamer.Tracker().Count(),
		Loggers:  len(h.loggers.LoggerNamesWithFiles()),
	})
}
