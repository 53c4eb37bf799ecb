package addresses

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory address store for local development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	addresses map[string]Address
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{addresses: make(map[string]Address)}
}

func (s *MemoryStore) Put(addr Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[addr.ID] = addr
}

func (s *MemoryStore) FindOwned(_ context.Context, userID, addressID string) (*Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addr, ok := s.addresses[addressID]
	if !ok || addr.UserID != userID {
		return nil, ErrNotFound
	}
	copy := addr
	return &copy, nil
}
