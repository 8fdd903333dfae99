package components

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/maksimkurb/logstream/src/internal/log"
	"github.com/maksimkurb/logstream/src/internal/stream"
)

// APIServer manages the HTTP API server
type APIServer struct {
	bindAddr        string
	handler         http.Handler
	tracker         *stream.Tracker
	shutdownTimeout time.Duration

	httpServer *http.Server
	listener   net.Listener
	cancelBase context.CancelFunc
	serveErr   chan error
	running    bool
	mu         sync.Mutex
}

// NewAPIServer creates a new API server component. tracker may be nil.
func NewAPIServer(bindAddr string, handler http.Handler, tracker *stream.Tracker, shutdownTimeout time.Duration) *APIServer {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	return &APIServer{
		bindAddr:        bindAddr,
		handler:         handler,
		tracker:         tracker,
		shutdownTimeout: shutdownTimeout,
	}
}

func (a *APIServer) Name() string {
	return "API server"
}

// Start binds the listen address and serves in the background.
func (a *APIServer) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("API server is already running")
	}

	listener, err := net.Listen("tcp", a.bindAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.bindAddr, err)
	}

	// Every request context derives from baseCtx, so cancelling it on Stop
	// also ends hijacked websocket sessions that Shutdown does not track.
	baseCtx, cancel := context.WithCancel(context.Background())

	a.httpServer = &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	a.listener = listener
	a.cancelBase = cancel
	a.serveErr = make(chan error, 1)

	log.Infof("Starting logstream API server on %s", listener.Addr())

	// Start server in goroutine
	go func(srv *http.Server, errCh chan<- error) {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("API server error: %v", err)
			errCh <- err
		}
		close(errCh)
	}(a.httpServer, a.serveErr)

	a.running = true
	return nil
}

// Addr returns the bound address, or "" when not running.
func (a *APIServer) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Errors delivers a serve failure and is closed when serving stops.
func (a *APIServer) Errors() <-chan error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.serveErr
}

// Stop ends every stream session and shuts the server down gracefully.
func (a *APIServer) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return fmt.Errorf("API server is not running")
	}

	log.Infof("Stopping API server...")

	a.cancelBase()
	if a.tracker != nil {
		a.tracker.CloseAll()
	}

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
	}

	a.running = false
	a.listener = nil
	log.Infof("API server stopped")
	return nil
}

// IsRunning returns whether the API server is running
func (a *APIServer) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}
