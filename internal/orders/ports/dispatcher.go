package ports

import "context"

// OrderPlacedNote carries what the notification consumer needs to send the
// confirmation email.
type OrderPlacedNote struct {
	OrderID    string
	TotalPrice float64
	Email      string
}

// NotificationDispatcher publishes order lifecycle notifications. Dispatch is
// fire-and-forget from the ledger's point of view: a failure is logged and
// never rolls back a committed order. Delivery is at-least-once; consumers
// must tolerate duplicates.
type NotificationDispatcher interface {
	OrderPlaced(ctx context.Context, note OrderPlacedNote) error
}
