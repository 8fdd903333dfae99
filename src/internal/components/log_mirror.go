package components

import (
	"fmt"
	"sync"

	"github.com/maksimkurb/logstream/src/internal/log"
)

// LogMirror copies the service's own log messages into a registry logger
// while it runs, so they can be tailed like any other logger.
type LogMirror struct {
	target  log.Mirror
	running bool
	mu      sync.Mutex
}

// NewLogMirror creates a mirror component writing into target.
func NewLogMirror(target log.Mirror) *LogMirror {
	return &LogMirror{target: target}
}

func (m *LogMirror) Name() string {
	return "service log mirror"
}

func (m *LogMirror) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("log mirror is already running")
	}
	log.SetMirror(m.target)
	m.running = true
	return nil
}

func (m *LogMirror) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return fmt.Errorf("log mirror is not running")
	}
	log.SetMirror(nil)
	m.running = false
	return nil
}

func (m *LogMirror) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
