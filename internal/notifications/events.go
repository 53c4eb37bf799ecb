package notifications

import "time"

// TopicOrderPlaced carries order confirmation events, keyed by order id.
// Delivery is at-least-once; consumers must tolerate duplicates.
const TopicOrderPlaced = `order-service.order-placed`

// OrderPlacedEvent is the wire representation of a confirmed order.
type OrderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	TotalPrice float64   `json:"total_price"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}
