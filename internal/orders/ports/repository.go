package ports

import (
	"context"
	"errors"

	"github.com/dvukovic/bookstore/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the application
// layer. Create and UpdateStatus are atomic units: the order write and the
// stock mutation either both commit or neither does.
type OrderRepository interface {
	// CreateWithStockDecrement inserts the order and conditionally decrements
	// the book's stock in one transaction. The decrement only applies while
	// quantity >= the ordered amount, serialized against concurrent writers,
	// so stock can never go negative.
	CreateWithStockDecrement(ctx context.Context, order domain.Order) error

	// GetOwned fetches an order scoped to its owner. Orders belonging to
	// other users are indistinguishable from missing ones.
	GetOwned(ctx context.Context, userID, orderID string) (*domain.Order, error)

	// ListByUser returns all orders placed by the user, newest first. Zero
	// orders yields an empty slice, not an error.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateStatus transitions an owned, pending order to the target status.
	// A cancellation restores the consumed stock within the same transaction.
	UpdateStatus(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

var (
	// ErrNotFound is returned when the requested order does not exist or is
	// not owned by the requesting user.
	ErrNotFound = errors.New("order not found")
	// ErrNotPending is returned when a status transition is attempted on an
	// order that has already left the pending state.
	ErrNotPending = errors.New("order is not pending")
)
