package app

import (
	"context"
	"log/slog"

	"github.com/dvukovic/bookstore/internal/auth"
	"github.com/dvukovic/bookstore/internal/orders/app/commands"
	"github.com/dvukovic/bookstore/internal/orders/app/queries"
	"github.com/dvukovic/bookstore/internal/orders/domain"
	"github.com/dvukovic/bookstore/internal/orders/metrics"
	"github.com/dvukovic/bookstore/internal/orders/ports"
)

// Config tunes order-ledger behavior.
type Config struct {
	// PriceTolerance is the absolute tolerance for the total-price invariant.
	// Zero means domain.DefaultPriceTolerance.
	PriceTolerance float64
}

// Service bundles the order-ledger use cases exposed to the API.
type Service struct {
	repo          ports.OrderRepository
	idemStore     ports.IdempotencyStore
	createHandler commands.CreateOrderHandler
	updateHandler commands.UpdateOrderStatusHandler
	getHandler    *queries.GetOrderQueryHandler
	listHandler   *queries.ListOrdersQueryHandler
}

// NewService wires required dependencies. The dispatcher and cache may be nil
// (local development without Kafka/Redis).
func NewService(
	repo ports.OrderRepository,
	catalog ports.CatalogStore,
	addrs ports.AddressStore,
	dispatcher ports.NotificationDispatcher,
	cache ports.CatalogCache,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	m *metrics.Metrics,
	cfg Config,
) *Service {
	createCore := commands.NewCreateOrderCommandHandler(repo, catalog, addrs, dispatcher, cache, logger, cfg.PriceTolerance)
	updateCore := commands.NewUpdateOrderStatusCommandHandler(repo, cache, logger)

	return &Service{
		repo:          repo,
		idemStore:     idem,
		createHandler: commands.NewObservableCreateOrderHandler(createCore, logger, m),
		updateHandler: commands.NewObservableUpdateStatusHandler(updateCore, logger, m),
		getHandler:    queries.NewGetOrderQueryHandler(repo),
		listHandler:   queries.NewListOrdersQueryHandler(repo),
	}
}

// CreateOrderInput captures payload for placing an order.
type CreateOrderInput struct {
	BookID          string  `json:"book_id"`
	AddressID       string  `json:"address_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
	TotalPrice      float64 `json:"total_price"`
}

// CreateOrder orchestrates order placement for the authenticated user.
func (s *Service) CreateOrder(ctx context.Context, user auth.UserRef, input CreateOrderInput) (*domain.Order, error) {
	cmd := commands.CreateOrderCommand{
		User:            user,
		BookID:          input.BookID,
		AddressID:       input.AddressID,
		Quantity:        input.Quantity,
		PriceAtPurchase: input.PriceAtPurchase,
		TotalPrice:      input.TotalPrice,
	}
	return s.createHandler.Handle(ctx, cmd)
}

// UpdateStatus transitions a pending order; cancellation restores stock.
func (s *Service) UpdateStatus(ctx context.Context, user auth.UserRef, orderID, newStatus string) (*domain.Order, error) {
	cmd := commands.UpdateOrderStatusCommand{
		User:      user,
		OrderID:   orderID,
		NewStatus: newStatus,
	}
	return s.updateHandler.Handle(ctx, cmd)
}

// GetOrder retrieves one of the user's own orders.
func (s *Service) GetOrder(ctx context.Context, user auth.UserRef, orderID string) (*domain.Order, error) {
	return s.getHandler.Handle(ctx, queries.GetOrderQuery{User: user, OrderID: orderID})
}

// ListOrders returns the user's own orders, empty slice when there are none.
func (s *Service) ListOrders(ctx context.Context, user auth.UserRef) ([]domain.Order, error) {
	return s.listHandler.Handle(ctx, queries.ListOrdersQuery{User: user})
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
