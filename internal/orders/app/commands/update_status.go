package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dvukovic/bookstore/internal/auth"
	"github.com/dvukovic/bookstore/internal/books"
	"github.com/dvukovic/bookstore/internal/orders/domain"
	"github.com/dvukovic/bookstore/internal/orders/ports"
)

// UpdateOrderStatusCommand transitions an order out of pending. Cancellation
// additionally restores the consumed stock inside the same transaction.
type UpdateOrderStatusCommand struct {
	User      auth.UserRef
	OrderID   string
	NewStatus string
}

type UpdateOrderStatusHandler interface {
	Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error)
}

type UpdateOrderStatusCommandHandler struct {
	repo   ports.OrderRepository
	cache  ports.CatalogCache
	logger *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	repo ports.OrderRepository,
	cache ports.CatalogCache,
	logger *slog.Logger,
) *UpdateOrderStatusCommandHandler {
	return &UpdateOrderStatusCommandHandler{repo: repo, cache: cache, logger: logger}
}

func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	if cmd.OrderID == "" {
		return nil, domain.E(domain.KindOrderNotFound, "order not found")
	}

	status, err := domain.ParseStatus(cmd.NewStatus)
	if err != nil || status == domain.StatusPending {
		return nil, domain.E(domain.KindValidationFailed, "status must be one of processing, shipped, delivered, cancelled")
	}

	order, err := h.repo.UpdateStatus(ctx, cmd.User.ID, cmd.OrderID, status)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			return nil, domain.E(domain.KindOrderNotFound, "order not found")
		case errors.Is(err, ports.ErrNotPending):
			return nil, domain.E(domain.KindInvalidTransition, "only pending orders can change status")
		case errors.Is(err, books.ErrNotFound):
			// Inventory accounting would be silently lost: a server-side
			// defect, logged loudly even though reported as a normal failure.
			h.logger.ErrorContext(ctx, "cancellation aborted: associated book missing",
				"order_id", cmd.OrderID,
				"user_id", cmd.User.ID,
			)
			return nil, domain.E(domain.KindAssociatedBookMissing,
				"cannot cancel order %s: associated book no longer exists", cmd.OrderID)
		default:
			return nil, domain.Internal(err)
		}
	}

	if status == domain.StatusCancelled && h.cache != nil {
		if err := h.cache.InvalidateList(ctx); err != nil {
			h.logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
		}
	}

	return order, nil
}
