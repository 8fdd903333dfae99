package stream

import (
	"sort"
	"sync"
)

// Tracker is the set of live sessions. It only feeds status endpoints;
// sessions never look each other up through it.
type Tracker struct {
	mu       sync.RWMutex
	nextID   uint64
	sessions map[uint64]*Session
}

func NewTracker() *Tracker {
	return &Tracker{sessions: make(map[uint64]*Session)}
}

// Add assigns the next ID to s and tracks it.
func (t *Tracker) Add(s *Session) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	s.id = t.nextID
	t.sessions[s.id] = s
	return s.id
}

func (t *Tracker) Remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, id)
}

func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// Snapshot returns the info of every tracked session ordered by ID.
func (t *Tracker) Snapshot() []Info {
	t.mu.RLock()
	sessions := make([]*Session, 0, len(t.sessions))
	for _, s := range t.sessions {
		sessions = append(sessions, s)
	}
	t.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].id < sessions[j].id })

	infos := make([]Info, len(sessions))
	for i, s := range sessions {
		infos[i] = s.Info()
	}
	return infos
}

// CloseAll closes every tracked session.
func (t *Tracker) CloseAll() {
	t.mu.RLock()
	sessions := make([]*Session, 0, len(t.sessions))
	for _, s := range t.sessions {
		sessions = append(sessions, s)
	}
	t.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
}
