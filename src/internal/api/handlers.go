package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/maksimkurb/logstream/src/internal/stream"
)

// LoggerDirectory is the registry view the API needs.
type LoggerDirectory interface {
	ResolveBackingFile(name string) (string, bool)
	LoggerNamesWithFiles() []string
}

// Handler serves the API endpoints and the viewer transports.
type Handler struct {
	loggers  LoggerDirectory
	streamer *stream.Streamer
	tailer   stream.Tailer
	upgrader websocket.Upgrader
}

// NewHandler creates a new API handler.
func NewHandler(loggers LoggerDirectory, streamer *stream.Streamer, tailer stream.Tailer) *Handler {
	return &Handler{
		loggers:  loggers,
		streamer: streamer,
		tailer:   tailer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Access is restricted by PrivateSubnetOnly, and CORS allows any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}
