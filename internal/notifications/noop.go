package notifications

import (
	"context"
	"log/slog"

	"github.com/dvukovic/bookstore/internal/orders/ports"
)

// NoopDispatcher logs notifications without sending them anywhere. Useful for
// local dev before wiring Kafka.
type NoopDispatcher struct{}

// NewNoopDispatcher returns a new no-op dispatcher.
func NewNoopDispatcher() *NoopDispatcher {
	return &NoopDispatcher{}
}

func (n *NoopDispatcher) OrderPlaced(_ context.Context, note ports.OrderPlacedNote) error {
	slog.Debug("event::order_placed", "order_id", note.OrderID, "total_price", note.TotalPrice)
	return nil
}
