package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterOptions carries what the router wires into handlers and middleware.
type RouterOptions struct {
	// Viewer serves the HTML log viewer page. Nil disables /log_viewer/.
	Viewer http.Handler
	// AccessLog receives one line per request. May be nil.
	AccessLog AccessLogger
	// PrivateNetworksOnly rejects clients outside private address ranges.
	PrivateNetworksOnly bool
}

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(Recovery)
	r.Use(Logger(opts.AccessLog))
	if opts.PrivateNetworksOnly {
		r.Use(PrivateSubnetOnly) // Restrict access to private subnets
	}
	r.Use(CORS)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Logger endpoints
		r.Get("/loggers", h.GetLoggers)
		r.Get("/loggers/{name}/tail", h.TailLogger)

		// Live stream over server-sent events
		r.Get("/logs/stream", h.StreamSSE)

		// Status endpoints
		r.Get("/sessions", h.GetSessions)
		r.Get("/health", h.CheckHealth)
	})

	// Live stream over websocket
	r.Get("/ws/log", h.StreamWebSocket)

	if opts.Viewer != nil {
		r.Get("/log_viewer", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/log_viewer/", http.StatusMovedPermanently)
		})
		r.Get("/log_viewer/logs/logger_names", h.GetLoggerNames)
		r.Handle("/log_viewer/*", opts.Viewer)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/log_viewer/", http.StatusFound)
		})
	}

	registerPprof(r)

	return r
}
