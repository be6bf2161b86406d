package history

import (
	"sync"
)

// MemoryBackend is an in-memory history backend. Records are lost when the
// process exits.
type MemoryBackend struct {
	interactions []*Interaction
	mu           sync.RWMutex
}

// NewMemoryBackend creates a new in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Record implements Backend.
func (m *MemoryBackend) Record(in *Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, in)
	return nil
}

// Recent implements Backend.
func (m *MemoryBackend) Recent(limit int) ([]*Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.interactions)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*Interaction, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.interactions[i])
	}
	return out, nil
}

// Count implements Backend.
func (m *MemoryBackend) Count() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.interactions)), nil
}

// Clear implements Backend.
func (m *MemoryBackend) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = nil
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error {
	return nil
}
