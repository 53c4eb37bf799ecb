package books

import (
	"context"
	"log/slog"
)

// Service serves catalog reads through the listing cache. Cache failures are
// logged and degrade to the store; they never fail a read.
type Service struct {
	store  Store
	cache  ListCache
	logger *slog.Logger
}

func NewService(store Store, cache ListCache, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// ListBooks returns the catalog, read-through cached.
func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	if s.cache != nil {
		cached, err := s.cache.GetList(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "listing cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, list); err != nil {
			s.logger.WarnContext(ctx, "listing cache write failed", "error", err)
		}
	}
	return list, nil
}

// GetBook returns a single non-deleted book.
func (s *Service) GetBook(ctx context.Context, id string) (*Book, error) {
	return s.store.FindByID(ctx, id)
}
