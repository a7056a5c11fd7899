package session

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/seantiz/choreo/internal/model"
	"github.com/seantiz/choreo/internal/store"
)

// Manager holds live sessions and hands out serialized access to their
// timelines. It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	broker *Broker
	events store.EventStore
	logger *slog.Logger
}

// NewManager creates an empty session manager backed by the given event store.
func NewManager(events store.EventStore, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		broker:   NewBroker(),
		events:   events,
		logger:   logger,
	}
}

// Broker returns the manager's event broker for SSE subscription.
func (m *Manager) Broker() *Broker {
	return m.broker
}

// Create registers a new session with a fresh timeline and a generated ULID.
func (m *Manager) Create(name string) *Session {
	s := newSession(model.NewID(), name, m.broker, m.events, m.logger)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	sessionsActive.Inc()
	m.logger.Info("session created", "session_id", s.id, "name", name)
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// List returns all live sessions sorted by id. ULIDs sort by creation time,
// so the listing is oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].id < all[j].id
	})
	return all
}

// Delete removes a session and closes its event topic so live subscribers
// terminate. Reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}

	m.broker.Close(id)
	sessionsActive.Dec()
	m.logger.Info("session deleted", "session_id", id)
	return true
}
