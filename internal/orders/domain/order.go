package domain

import (
	"fmt"
	"math"
	"time"
)

// OrderStatus captures the lifecycle of an order in the system.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// DefaultPriceTolerance is the absolute tolerance applied when comparing a
// submitted total against quantity * unit price. Configurable so zero-decimal
// currencies can tighten it.
const DefaultPriceTolerance = 0.01

// ParseStatus validates a status string received from a caller.
func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Order represents a purchase of a single book, shipped to one of the
// purchaser's addresses. PriceAtPurchase is a snapshot of the unit price at
// creation time and never changes afterwards.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	BookID          string      `json:"book_id"`
	AddressID       string      `json:"address_id"`
	Quantity        int         `json:"quantity"`
	PriceAtPurchase float64     `json:"price_at_purchase"`
	TotalPrice      float64     `json:"total_price"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Validate ensures the order adheres to business constraints. The price
// invariant is checked against the given absolute tolerance.
func (o Order) Validate(tolerance float64) error {
	if o.Quantity <= 0 {
		return E(KindInvalidQuantity, "quantity must be a positive integer")
	}
	if o.PriceAtPurchase <= 0 {
		return E(KindInvalidPrice, "price_at_purchase must be greater than zero")
	}
	if o.TotalPrice <= 0 {
		return E(KindPriceMismatch, "total_price must be greater than zero")
	}
	expected := float64(o.Quantity) * o.PriceAtPurchase
	if math.Abs(o.TotalPrice-expected) > tolerance {
		return E(KindPriceMismatch, "total_price %.2f does not match expected %.2f", o.TotalPrice, expected)
	}
	return nil
}

// CanTransition reports whether the status-update operation may move the
// order to the target status. Only pending orders may transition; once an
// order has left pending, no further transitions are permitted through this
// path.
func (o Order) CanTransition(target OrderStatus) bool {
	if o.Status != StatusPending {
		return false
	}
	switch target {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal indicates whether the order is in a terminal state.
func (o Order) IsTerminal() bool {
	switch o.Status {
	case StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}
