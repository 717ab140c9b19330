package session

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]State
}

// NewMemoryStore constructs an in-process Store for tests and single-node runs.
// Records are kept until overwritten; stale entries are treated as expired by
// the routing engine rather than evicted here.
func NewMemoryStore() Store {
	return &memoryStore{records: make(map[string]State)}
}

func (m *memoryStore) Get(_ context.Context, senderID string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[senderID]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (m *memoryStore) Put(_ context.Context, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[st.SenderID] = *st
	return nil
}

func (m *memoryStore) Reset(_ context.Context, senderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[senderID]
	if !ok {
		return nil
	}
	rec.HasSeenMenu = false
	rec.SelectedTopic = ""
	m.records[senderID] = rec
	return nil
}
