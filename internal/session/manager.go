package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/woozymasta/beato-configurator/internal/product"
	"github.com/woozymasta/beato-configurator/internal/store"
)

// Manager creates sessions lazily, one per product.
type Manager struct {
	catalog *product.Catalog
	store   store.Store
	pub     Publisher
	log     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a manager. Sessions are rebuilt when the catalog changes a definition.
func NewManager(catalog *product.Catalog, st store.Store, pub Publisher, log *slog.Logger) *Manager {
	m := &Manager{
		catalog:  catalog,
		store:    store.NewDeduped(st),
		pub:      pub,
		log:      log,
		sessions: map[string]*Session{},
	}
	catalog.OnChange(func(d product.Definition) { m.Drop(d.Name) })

	return m
}

// Get returns the session of a product, creating it and loading its model on first use.
func (m *Manager) Get(ctx context.Context, name string) (*Session, error) {
	def, err := m.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if s, ok := m.sessions[def.Name]; ok {
		m.mu.Unlock()
		return s, nil
	}

	s, err := newSession(def, m.store, m.pub, m.log)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	s.mu.Lock()
	m.sessions[def.Name] = s
	m.mu.Unlock()

	s.loadModelLocked(ctx)
	s.mu.Unlock()

	return s, nil
}

// Drop forgets the session of a product.
func (m *Manager) Drop(name string) {
	m.mu.Lock()
	delete(m.sessions, name)
	m.mu.Unlock()

	m.log.Debug("session dropped", "product", name)
}
