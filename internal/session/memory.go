package session

import (
	"context"
	"sync"

	"github.com/zedlink-test/My-Shop/internal/domain"
)

// MemoryStore keeps carts in process memory. Used when no Redis address is
// configured and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]domain.CartLine)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) ([]domain.CartLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return append([]domain.CartLine(nil), lines...), nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(lines) == 0 {
		delete(m.carts, sessionID)
		return nil
	}
	m.carts[sessionID] = append([]domain.CartLine(nil), lines...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts, sessionID)
	return nil
}
