package users

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a user does not exist. A structurally valid
// credential can still reference a user that has since been removed, so this
// is distinct from a credential failure.
var ErrNotFound = errors.New("user not found")

// User is an account identity. Email and mobile number are unique. The order
// ledger never mutates users.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobile_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store exposes user lookups consumed by the identity verifier.
type Store interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
