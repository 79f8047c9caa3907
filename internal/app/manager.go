package app

import (
	"context"
	"fmt"
	"sync"
)

// Manager keeps one App per client id. An App stays in memory while it has
// subscribers or pending work and is dropped once both are gone; its state
// stays persisted and is restored on the next Get.
type Manager struct {
	bg     context.Context
	banks  BankRepository
	bankID string
	deps   Deps

	mu   sync.Mutex
	apps map[string]*App
}

func NewManager(bg context.Context, banks BankRepository, bankID string, deps Deps) *Manager {
	return &Manager{bg: bg, banks: banks, bankID: bankID, deps: deps, apps: make(map[string]*App)}
}

// Get returns the App for clientID, creating and restoring it on first use.
// Callers that do not subscribe should call ReleaseIdle when done.
func (m *Manager) Get(ctx context.Context, clientID string) (*App, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(ctx, clientID)
}

// Subscribe returns the App for clientID already subscribed, so a concurrent
// release cannot split the client across two Apps. cancel unsubscribes and
// releases the App if nothing else holds it.
func (m *Manager) Subscribe(ctx context.Context, clientID string) (*App, <-chan Snapshot, func(), error) {
	m.mu.Lock()
	a, err := m.getLocked(ctx, clientID)
	if err != nil {
		m.mu.Unlock()
		return nil, nil, nil, err
	}
	updates, unsubscribe := a.Subscribe()
	m.mu.Unlock()

	cancel := func() {
		unsubscribe()
		m.release(clientID, a)
	}
	return a, updates, cancel, nil
}

func (m *Manager) getLocked(ctx context.Context, clientID string) (*App, error) {
	if a, ok := m.apps[clientID]; ok {
		return a, nil
	}
	bank, err := m.banks.GetBank(ctx, m.bankID)
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", m.bankID, err)
	}
	a := New(m.bg, clientID, bank, m.deps)
	a.onIdle = func() { m.release(clientID, a) }
	m.apps[clientID] = a
	return a, nil
}

// Lookup returns the App for clientID if one exists.
func (m *Manager) Lookup(clientID string) (*App, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[clientID]
	return a, ok
}

// ReleaseIdle forgets the App for clientID when nobody is subscribed and no
// work is pending.
func (m *Manager) ReleaseIdle(clientID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[clientID]
	if !ok {
		return false
	}
	return m.releaseLocked(clientID, a)
}

// release drops a only if it is still the App registered for clientID.
func (m *Manager) release(clientID string, a *App) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.apps[clientID] != a {
		return false
	}
	return m.releaseLocked(clientID, a)
}

func (m *Manager) releaseLocked(clientID string, a *App) bool {
	if !a.idle() {
		return false
	}
	delete(m.apps, clientID)
	return true
}

// Wait blocks until every App's background work has finished.
func (m *Manager) Wait() {
	m.mu.Lock()
	apps := make([]*App, 0, len(m.apps))
	for _, a := range m.apps {
		apps = append(apps, a)
	}
	m.mu.Unlock()
	for _, a := range apps {
		a.Wait()
	}
}
