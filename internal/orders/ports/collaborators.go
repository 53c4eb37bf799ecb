package ports

import (
	"context"

	"github.com/dvukovic/bookstore/internal/addresses"
	"github.com/dvukovic/bookstore/internal/books"
)

// CatalogStore is the slice of the catalog the order ledger consumes.
type CatalogStore interface {
	FindByID(ctx context.Context, id string) (*books.Book, error)
}

// AddressStore resolves a shipping address scoped to its owner.
type AddressStore interface {
	FindOwned(ctx context.Context, userID, addressID string) (*addresses.Address, error)
}

// CatalogCache invalidates cached catalog reads after stock mutations.
// Failures are advisory; stale cache entries expire on their own.
type CatalogCache interface {
	InvalidateList(ctx context.Context) error
}
