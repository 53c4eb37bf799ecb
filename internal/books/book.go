package books

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book does not exist or is soft-deleted.
	ErrNotFound = errors.New("book not found")
	// ErrInsufficientStock is returned when a conditional stock decrement
	// would drive the quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Book is a catalog item. Quantity is the available stock; DiscountedPrice is
// the unit price used for purchase. Books are soft-deleted, never removed.
type Book struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Price           float64    `json:"price"`
	DiscountedPrice float64    `json:"discounted_price"`
	Quantity        int        `json:"quantity"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"-"`
}

// Store exposes catalog persistence. FindByID and List exclude soft-deleted
// books. Stock mutation happens inside the order transaction, not here.
type Store interface {
	FindByID(ctx context.Context, id string) (*Book, error)
	List(ctx context.Context) ([]Book, error)
}

// ListCache caches the catalog listing. Implementations must treat a miss as
// (nil, nil); the service falls through to the store.
type ListCache interface {
	GetList(ctx context.Context) ([]Book, error)
	SetList(ctx context.Context, books []Book) error
	InvalidateList(ctx context.Context) error
}
