package queries

import (
	"context"

	"github.com/dvukovic/bookstore/internal/auth"
	"github.com/dvukovic/bookstore/internal/orders/domain"
	"github.com/dvukovic/bookstore/internal/orders/ports"
)

// ListOrdersQuery returns the requesting user's own orders. Zero orders is a
// normal outcome: an empty, non-nil slice with a nil error, distinguishable
// from a hard failure.
type ListOrdersQuery struct {
	User auth.UserRef
}

type ListOrdersQueryHandler struct {
	repo ports.OrderRepository
}

func NewListOrdersQueryHandler(repo ports.OrderRepository) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{repo: repo}
}

func (h *ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]domain.Order, error) {
	orders, err := h.repo.ListByUser(ctx, query.User.ID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
