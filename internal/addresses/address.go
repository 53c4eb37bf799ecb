package addresses

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an address does not exist or belongs to a
// different user. Ownership scoping doubles as access control.
var ErrNotFound = errors.New("address not found")

// Address is a shipping address belonging to exactly one user.
type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	CreatedAt time.Time `json:"created_at"`
}

// Store exposes address lookups scoped to the owning user.
type Store interface {
	FindOwned(ctx context.Context, userID, addressID string) (*Address, error)
}
