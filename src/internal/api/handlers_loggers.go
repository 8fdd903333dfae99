package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/logstream/src/internal/hashing"
)

// maxTailLines caps the lines query parameter of the one-shot tail.
const maxTailLines = 10000

// GetLoggers returns the sorted names of loggers that have a backing file.
// GET /api/v1/loggers
func (h *Handler) GetLoggers(w http.ResponseWriter, r *http.Request) {
	names := h.loggers.LoggerNamesWithFiles()
	if names == nil {
		names = []string{}
	}
	writeJSONData(w, names)
}

// GetLoggerNames returns the same names as GetLoggers as a bare JSON array,
// the shape older viewer pages expect.
// GET /log_viewer/logs/logger_names
func (h *Handler) GetLoggerNames(w http.ResponseWriter, r *http.Request) {
	names := h.loggers.LoggerNamesWithFiles()
	if names == nil {
		names = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

// TailLogger returns the current trailing window of a logger's backing file.
// GET /api/v1/loggers/{name}/tail?lines=N
func (h *Handler) TailLogger(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	lines := h.streamer.Config().Window
	if raw := r.URL.Query().Get("lines"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTailLines {
			WriteInvalidRequest(w, "lines must be an integer between 1 and "+strconv.Itoa(maxTailLines))
			return
		}
		lines = n
	}

	path, ok := h.loggers.ResolveBackingFile(name)
	if !ok {
		WriteNotFound(w, "Logger '"+name+"' with a backing file")
		return
	}

	var body bytes.Buffer
	proxy := hashing.NewMD5WriterProxy(&body)
	if err := json.NewEncoder(proxy).Encode(DataResponse{Data: TailResponse{
		Logger: name,
		File:   path,
		Lines:  h.tailer.Tail(path, lines),
	}}); err != nil {
		WriteInternalError(w, "Failed to encode tail: "+err.Error())
		return
	}

	// Unchanged windows are answered with 304 so pollers skip the body.
	etag := hashing.ETag(proxy)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	body.WriteTo(w)
}
