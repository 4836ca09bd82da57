package reconciler

import (
	"sync"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/local"
	"github.com/punkhazard/creative-furniture/internal/session"
)

// recordKeyPrefix scopes one persisted record per device session. Only
// the reconciler, through the local store, writes these keys.
const recordKeyPrefix = "cart:items:"

// Manager owns one reconciler and session per device id. Reconcilers are
// constructed explicitly here and handed to callers by reference; there
// are no package-level instances.
type Manager struct {
	backend local.Backend
	remote  domain.RemoteCart

	mu       sync.Mutex
	sessions map[string]*Handle
}

// Handle bundles a session with its reconciler.
type Handle struct {
	Session    *session.Session
	Reconciler *Reconciler
}

// NewManager creates a manager over a shared storage backend and remote
// client.
func NewManager(backend local.Backend, remote domain.RemoteCart) *Manager {
	return &Manager{
		backend:  backend,
		remote:   remote,
		sessions: make(map[string]*Handle),
	}
}

// Handle returns the handle for a device id, constructing it on first
// use.
func (m *Manager) Handle(deviceID string) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.sessions[deviceID]; ok {
		return h
	}

	sess := session.New(deviceID)
	store := local.NewStore(m.backend, recordKeyPrefix+deviceID)
	h := &Handle{
		Session:    sess,
		Reconciler: New(store, m.remote, sess),
	}
	m.sessions[deviceID] = h
	return h
}
