package stream

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maksimkurb/logstream/src/internal/errors"
	"github.com/maksimkurb/logstream/src/internal/log"
	"github.com/maksimkurb/logstream/src/internal/logtail"
)

// Connection parameters read at connect time.
const (
	ParamLogger = "logger"
	ParamFormat = "format"
)

// Conn is one viewer connection.
type Conn interface {
	// Param returns a connection-time parameter, or "".
	Param(name string) string
	// Send pushes one message. It must honour ctx cancellation.
	Send(ctx context.Context, msg []byte) error
	// Done is closed when the viewer disconnects.
	Done() <-chan struct{}
	// Close ends the connection. It may be called on an already broken connection.
	Close() error
}

// Resolver maps a logger name to its backing file.
type Resolver interface {
	ResolveBackingFile(name string) (string, bool)
}

// Tailer returns the last n lines of a file.
type Tailer interface {
	Tail(path string, n int) []logtail.Line
}

// Config holds the tunables shared by all sessions.
type Config struct {
	// Interval between two pushes.
	Interval time.Duration
	// Window is the number of trailing lines per push.
	Window int
	// DefaultLogger is tailed when the requested logger has no backing file.
	DefaultLogger string
	// FallbackMessage is pushed when no logger resolves.
	FallbackMessage string
	// WriteTimeout bounds a single push. Zero means no deadline.
	WriteTimeout time.Duration
}

// Session streams the trailing window of one logger's file to one viewer.
// Sessions share nothing with each other.
type Session struct {
	id       uint64
	conn     Conn
	resolver Resolver
	tailer   Tailer
	cfg      Config

	state     atomic.Int32
	pushes    atomic.Uint64
	degraded  atomic.Bool
	closeOnce sync.Once

	mu          sync.RWMutex
	logger      string
	resolved    string
	file        string
	format      string
	renderer    Renderer
	connectedAt time.Time
}

func NewSession(conn Conn, resolver Resolver, tailer Tailer, cfg Config) *Session {
	return &Session{
		conn:     conn,
		resolver: resolver,
		tailer:   tailer,
		cfg:      cfg,
	}
}

func (s *Session) ID() uint64 {
	return s.id
}

func (s *Session) State() State {
	return State(s.state.Load())
}

// Run activates the session and pushes the window until the viewer
// disconnects, ctx is cancelled or a tick terminates the session.
// The connection is closed before Run returns. A nil error means a normal end.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	s.activate()

	interval := s.cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res := s.Tick(ctx)
		if res.Outcome == OutcomeTerminated {
			if s.viewerGone() || ctx.Err() != nil {
				log.Debugf("Session %d: viewer went away during push", s.id)
				return nil
			}
			log.Warnf("Session %d terminated: %v", s.id, res.Err)
			return res.Err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.conn.Done():
			log.Debugf("Session %d: viewer disconnected", s.id)
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Session) activate() {
	requested := s.conn.Param(ParamLogger)
	format := FormatName(s.conn.Param(ParamFormat))

	resolved := requested
	file, ok := s.resolver.ResolveBackingFile(requested)
	if !ok && s.cfg.DefaultLogger != "" {
		resolved = s.cfg.DefaultLogger
		file, ok = s.resolver.ResolveBackingFile(s.cfg.DefaultLogger)
	}
	if !ok {
		resolved = ""
		file = ""
	}

	s.mu.Lock()
	s.logger = requested
	s.resolved = resolved
	s.file = file
	s.format = format
	s.renderer = RendererFor(format)
	s.connectedAt = time.Now()
	s.mu.Unlock()

	if file == "" {
		log.Infof("Session %d: no backing file for logger %q, sending fallback message", s.id, requested)
	} else if resolved != requested {
		log.Infof("Session %d: logger %q has no backing file, streaming %q instead", s.id, requested, resolved)
	} else {
		log.Debugf("Session %d: streaming logger %q from %s", s.id, resolved, file)
	}

	s.state.CompareAndSwap(int32(StateConnecting), int32(StateActive))
}

// Tick builds and pushes one batch. A panic while reading or rendering is
// recovered and reported as an INTERNAL_ERROR termination.
func (s *Session) Tick(ctx context.Context) (res TickResult) {
	defer func() {
		if r := recover(); r != nil {
			res = TickResult{
				Outcome: OutcomeTerminated,
				Err:     errors.NewInternalError("session tick failed", fmt.Errorf("%v", r)),
			}
		}
	}()

	s.mu.RLock()
	batch := Batch{Logger: s.logger, Resolved: s.resolved, File: s.file}
	renderer := s.renderer
	s.mu.RUnlock()
	if renderer == nil {
		renderer = NewHTMLRenderer()
	}

	outcome := OutcomeDelivered
	if batch.File == "" {
		outcome = OutcomeDegraded
		batch.Notice = s.cfg.FallbackMessage
	} else {
		batch.Lines = s.tailer.Tail(batch.File, s.cfg.Window)
	}

	msg, err := renderer.Render(batch)
	if err != nil {
		return TickResult{Outcome: OutcomeTerminated, Err: errors.NewInternalError("failed to render batch", err)}
	}

	sendCtx := ctx
	if s.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.cfg.WriteTimeout)
		defer cancel()
	}
	if err := s.conn.Send(sendCtx, msg); err != nil {
		return TickResult{Outcome: OutcomeTerminated, Err: errors.NewTransportError("failed to push batch", err)}
	}

	s.pushes.Add(1)
	s.degraded.Store(outcome == OutcomeDegraded)
	return TickResult{Outcome: outcome}
}

func (s *Session) viewerGone() bool {
	select {
	case <-s.conn.Done():
		return true
	default:
		return false
	}
}

// Close closes the connection exactly once. Errors from a connection that
// is already broken are dropped. Close is safe to call repeatedly and
// concurrently.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateClosing))
		if err := s.conn.Close(); err != nil {
			log.Debugf("Session %d: close: %v", s.id, err)
		}
		s.state.Store(int32(StateClosed))
	})
	return nil
}

// Info is a point-in-time view of a session.
type Info struct {
	ID          uint64    `json:"id"`
	Logger      string    `json:"logger"`
	Resolved    string    `json:"resolved,omitempty"`
	File        string    `json:"file,omitempty"`
	Format      string    `json:"format"`
	State       State     `json:"state"`
	Degraded    bool      `json:"degraded"`
	Pushes      uint64    `json:"pushes"`
	RemoteAddr  string    `json:"remote_addr,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := Info{
		ID:          s.id,
		Logger:      s.logger,
		Resolved:    s.resolved,
		File:        s.file,
		Format:      s.format,
		State:       s.State(),
		Degraded:    s.degraded.Load(),
		Pushes:      s.pushes.Load(),
		ConnectedAt: s.connectedAt,
	}
	if ra, ok := s.conn.(interface{ RemoteAddr() string }); ok {
		info.RemoteAddr = ra.RemoteAddr()
	}
	return info
}
