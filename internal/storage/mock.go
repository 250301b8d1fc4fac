package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
)

// MockStore is a mock implementation of Store for testing
type MockStore struct {
	mu         sync.RWMutex
	adventures map[uuid.UUID]*adventure.SavedAdventure
	pingError  error
	saveError  error
}

// Ensure MockStore implements Store interface
var _ Store = (*MockStore)(nil)

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		adventures: make(map[uuid.UUID]*adventure.SavedAdventure),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on save with the given error
func (m *MockStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Ping mocks store ping
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks store close
func (m *MockStore) Close() error {
	return nil
}

// SaveAdventure mocks upserting a saved adventure
func (m *MockStore) SaveAdventure(ctx context.Context, sa *adventure.SavedAdventure) error {
	if sa == nil {
		return errors.New("saved adventure cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.adventures[sa.ID] = sa
	return nil
}

// GetAdventure mocks loading a saved adventure
func (m *MockStore) GetAdventure(ctx context.Context, id uuid.UUID) (*adventure.SavedAdventure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sa, exists := m.adventures[id]
	if !exists {
		return nil, nil // Return nil for not found
	}
	return sa, nil
}

// ListAdventures mocks listing saved adventures
func (m *MockStore) ListAdventures(ctx context.Context) ([]adventure.SavedAdventure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]adventure.SavedAdventure, 0, len(m.adventures))
	for _, sa := range m.adventures {
		out = append(out, *sa)
	}
	return out, nil
}

// DeleteAdventure mocks deleting a saved adventure
func (m *MockStore) DeleteAdventure(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.adventures, id)
	return nil
}
