package queries

import (
	"context"
	"errors"

	"github.com/dvukovic/bookstore/internal/auth"
	"github.com/dvukovic/bookstore/internal/orders/domain"
	"github.com/dvukovic/bookstore/internal/orders/ports"
)

// GetOrderQuery retrieves a single order scoped to the requesting user.
// Another user's order is reported as not found, never as forbidden, so the
// response does not reveal its existence.
type GetOrderQuery struct {
	User    auth.UserRef
	OrderID string
}

// Validate ensures the query has valid parameters.
func (q GetOrderQuery) Validate() error {
	if q.OrderID == "" {
		return domain.E(domain.KindOrderNotFound, "order not found")
	}
	return nil
}

// GetOrderQueryHandler executes GetOrderQuery.
type GetOrderQueryHandler struct {
	repo ports.OrderRepository
}

func NewGetOrderQueryHandler(repo ports.OrderRepository) *GetOrderQueryHandler {
	return &GetOrderQueryHandler{repo: repo}
}

func (h *GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*domain.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	order, err := h.repo.GetOwned(ctx, query.User.ID, query.OrderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.E(domain.KindOrderNotFound, "order not found")
		}
		return nil, domain.Internal(err)
	}

	return order, nil
}
