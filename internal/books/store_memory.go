package books

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore provides an in-memory catalog useful for local development and
// tests. Stock mutation is exposed directly since there is no transaction to
// participate in.
type MemoryStore struct {
	mu    sync.RWMutex
	books map[string]Book
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{books: make(map[string]Book)}
}

// Put inserts or replaces a book.
func (s *MemoryStore) Put(book Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[book.ID] = book
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	book, ok := s.books[id]
	if !ok || book.DeletedAt != nil {
		return nil, ErrNotFound
	}
	copy := book
	return &copy, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Book, 0, len(s.books))
	for _, book := range s.books {
		if book.DeletedAt != nil {
			continue
		}
		result = append(result, book)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Title < result[j].Title
	})
	return result, nil
}

// AdjustStock applies a delta with the same conditional semantics as the
// postgres implementation.
func (s *MemoryStore) AdjustStock(_ context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok {
		return ErrNotFound
	}
	if delta < 0 {
		if book.DeletedAt != nil {
			return ErrNotFound
		}
		if book.Quantity+delta < 0 {
			return ErrInsufficientStock
		}
	}
	book.Quantity += delta
	s.books[id] = book
	return nil
}
