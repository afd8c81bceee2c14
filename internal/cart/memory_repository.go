package cart

import (
	"context"
	"sync"
)

// MemoryRepository backs tests and local runs without redis.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]Line)}
}

func (m *MemoryRepository) Load(_ context.Context, sessionID string) ([]Line, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines := m.carts[sessionID]
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (m *MemoryRepository) Save(_ context.Context, sessionID string, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Line, len(lines))
	copy(cp, lines)
	m.carts[sessionID] = cp
	return nil
}

func (m *MemoryRepository) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}
