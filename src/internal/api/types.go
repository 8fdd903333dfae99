package api

import (
	"github.com/maksimkurb/logstream/src/internal/logtail"
	"github.com/maksimkurb/logstream/src/internal/stream"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// TailResponse is a one-shot tail of a logger's backing file.
type TailResponse struct {
	Logger string         `json:"logger"`
	File   string         `json:"file"`
	Lines  []logtail.Line `json:"lines"`
}

// SessionsResponse lists the live viewer sessions.
type SessionsResponse struct {
	Count    int           `json:"count"`
	Sessions []stream.Info `json:"sessions"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Loggers  int    `json:"loggers"`
}
