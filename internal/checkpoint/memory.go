package checkpoint

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and single-session runs.
// It is safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStore creates an empty in-memory checkpoint store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

// Save stores a copy of the snapshot.
func (m *MemoryStore) Save(ctx context.Context, sessionID string, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[sessionID] = append([]byte(nil), snapshot...)
	return nil
}

// Load returns a copy of the session's snapshot.
func (m *MemoryStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.snapshots[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), snapshot...), nil
}

// Delete removes the session's snapshot.
func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}
