package stream

import (
	"context"
)

// Streamer creates, tracks and runs sessions for incoming connections.
type Streamer struct {
	resolver Resolver
	tailer   Tailer
	cfg      Config
	tracker  *Tracker
}

func NewStreamer(resolver Resolver, tailer Tailer, cfg Config, tracker *Tracker) *Streamer {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Streamer{resolver: resolver, tailer: tailer, cfg: cfg, tracker: tracker}
}

func (s *Streamer) Config() Config {
	return s.cfg
}

func (s *Streamer) Tracker() *Tracker {
	return s.tracker
}

// Serve runs a session on conn until it ends. It blocks.
func (s *Streamer) Serve(ctx context.Context, conn Conn) error {
	session := NewSession(conn, s.resolver, s.tailer, s.cfg)
	id := s.tracker.Add(session)
	defer s.tracker.Remove(id)

	return session.Run(ctx)
}
