//go:build dev

package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// registerPprof mounts the runtime profiler and expvar under /debug in dev builds.
func registerPprof(r chi.Router) {
	r.Mount("/debug", middleware.Profiler())
}
