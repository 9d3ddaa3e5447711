package state

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the latest value of every published key in memory.
type MemoryStore struct {
	mutex  sync.RWMutex
	values map[string]any
	order  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]any{}}
}

func (m *MemoryStore) Publish(_ context.Context, states []State) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, s := range states {
		if _, exists := m.values[s.Key]; !exists {
			m.order = append(m.order, s.Key)
		}
		m.values[s.Key] = s.Value
	}
	return nil
}

// Get returns the latest value of `key`, ok is false if it was never published.
func (m *MemoryStore) Get(key string) (value any, ok bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	value, ok = m.values[key]
	return value, ok
}

// All returns every state in the order their keys were first published.
func (m *MemoryStore) All() []State {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]State, len(m.order))
	for i, key := range m.order {
		out[i] = State{Key: key, Value: m.values[key]}
	}
	return out
}

// Keys returns the published keys sorted alphabetically.
func (m *MemoryStore) Keys() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	keys := slices.Clone(m.order)
	slices.Sort(keys)
	return keys
}
