package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dvukovic/bookstore/internal/books"
	"github.com/dvukovic/bookstore/internal/orders/domain"
	"github.com/dvukovic/bookstore/internal/orders/ports"
)

// Repository provides an in-memory order store useful for local development
// and tests. Stock lives in the paired catalog store; the conditional
// AdjustStock call gives the same never-negative guarantee the database
// provides.
type Repository struct {
	mu      sync.Mutex
	orders  map[string]domain.Order
	catalog *books.MemoryStore
}

func NewRepository(catalog *books.MemoryStore) *Repository {
	return &Repository{
		orders:  make(map[string]domain.Order),
		catalog: catalog,
	}
}

func (r *Repository) CreateWithStockDecrement(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.catalog.AdjustStock(ctx, order.BookID, -order.Quantity); err != nil {
		return err
	}
	r.orders[order.ID] = order
	return nil
}

func (r *Repository) GetOwned(_ context.Context, userID, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, ports.ErrNotFound
	}
	copy := order
	return &copy, nil
}

func (r *Repository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, ports.ErrNotFound
	}
	if order.Status != domain.StatusPending {
		return nil, ports.ErrNotPending
	}

	if status == domain.StatusCancelled {
		if err := r.catalog.AdjustStock(ctx, order.BookID, order.Quantity); err != nil {
			return nil, err
		}
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	r.orders[orderID] = order

	copy := order
	return &copy, nil
}
