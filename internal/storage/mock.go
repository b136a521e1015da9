package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/encounter-engine/pkg/profile"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID]*Snapshot
	profiles  map[string]*profile.Profile
	latest    uuid.UUID
	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		snapshots: make(map[uuid.UUID]*Snapshot),
		profiles:  make(map[string]*profile.Profile),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on SaveSession
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveSession mocks saving a session snapshot
func (m *MockStorage) SaveSession(ctx context.Context, id uuid.UUID, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	snap.SchemaVersion = SchemaVersion
	m.snapshots[id] = snap
	m.latest = id
	return nil
}

// LoadSession mocks loading a session snapshot
func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[id]
	if !ok {
		return nil, nil
	}
	if snap.SchemaVersion != SchemaVersion {
		return nil, nil
	}
	return snap, nil
}

// LoadLatestSession mocks loading the most recent snapshot
func (m *MockStorage) LoadLatestSession(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	latest := m.latest
	m.mu.RUnlock()
	if latest == uuid.Nil {
		return nil, nil
	}
	return m.LoadSession(ctx, latest)
}

// DeleteSession mocks deleting a session snapshot
func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	if m.latest == id {
		m.latest = uuid.Nil
	}
	return nil
}

// SaveProfile mocks saving a profile
func (m *MockStorage) SaveProfile(ctx context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return nil
}

// LoadProfile mocks loading a profile
func (m *MockStorage) LoadProfile(ctx context.Context, id string) (*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

// ListProfiles mocks listing profiles
func (m *MockStorage) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]profile.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, *p)
	}
	return out, nil
}
