package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"tote-builder-backend/internal/catalog"
)

// Manager keeps visitor sessions in memory. A session expires after ttl
// without access and is never persisted.
type Manager struct {
	mu      sync.Mutex
	store   *cache.Cache
	ttl     time.Duration
	catalog *catalog.Catalog
	now     func() time.Time
}

// NewManager creates a session manager backed by an expiring in-memory cache.
func NewManager(cat *catalog.Catalog, ttl time.Duration) *Manager {
	return &Manager{
		store:   cache.New(ttl, 2*ttl),
		ttl:     ttl,
		catalog: cat,
		now:     time.Now,
	}
}

// Catalog returns the catalog sessions are computed against.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Create starts a new session and returns a copy of it.
func (m *Manager) Create() *State {
	s := New(uuid.NewString(), m.catalog, m.now().UTC())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Set(s.ID, s, m.ttl)
	return s.Clone()
}

// Get returns a copy of the session and extends its lifetime.
func (m *Manager) Get(id string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(id)
	if err != nil {
		return nil, err
	}
	m.store.Set(id, s, m.ttl)
	return s.Clone(), nil
}

// Update applies fn to a copy of the session and stores the copy only when
// fn succeeds, so a failed update leaves the session untouched. Updates of
// all sessions are serialized.
func (m *Manager) Update(id string, fn func(*State) error) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(id)
	if err != nil {
		return nil, err
	}

	next := s.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	m.store.Set(id, next, m.ttl)
	return next.Clone(), nil
}

// Delete forgets a session.
func (m *Manager) Delete(id string) {
	m.store.Delete(id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.store.ItemCount()
}

func (m *Manager) load(id string) (*State, error) {
	v, found := m.store.Get(id)
	if !found {
		return nil, ErrNotFound
	}
	return v.(*State), nil
}
