package commands

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dvukovic/bookstore/internal/auth"
	"github.com/dvukovic/bookstore/internal/books"
	"github.com/dvukovic/bookstore/internal/orders/domain"
	"github.com/dvukovic/bookstore/internal/orders/ports"
)

// CreateOrderCommand carries the parameters of an order placement for an
// already-authenticated user.
type CreateOrderCommand struct {
	User            auth.UserRef
	BookID          string
	AddressID       string
	Quantity        int
	PriceAtPurchase float64
	TotalPrice      float64
}

func (c CreateOrderCommand) Validate() error {
	if c.User.ID == "" {
		return domain.E(domain.KindValidationFailed, "user is required")
	}
	if c.BookID == "" {
		return domain.E(domain.KindBookNotFound, "book_id is required")
	}
	if c.AddressID == "" {
		return domain.E(domain.KindInvalidAddress, "address_id is required")
	}
	return nil
}

// CreateOrderHandler executes order placement: multi-entity validation, then
// the atomic insert + stock decrement, then best-effort notification.
type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

type CreateOrderCommandHandler struct {
	repo       ports.OrderRepository
	catalog    ports.CatalogStore
	addrs      ports.AddressStore
	dispatcher ports.NotificationDispatcher
	cache      ports.CatalogCache
	logger     *slog.Logger
	tolerance  float64
}

func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	catalog ports.CatalogStore,
	addrs ports.AddressStore,
	dispatcher ports.NotificationDispatcher,
	cache ports.CatalogCache,
	logger *slog.Logger,
	tolerance float64,
) *CreateOrderCommandHandler {
	if tolerance <= 0 {
		tolerance = domain.DefaultPriceTolerance
	}
	return &CreateOrderCommandHandler{
		repo:       repo,
		catalog:    catalog,
		addrs:      addrs,
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger,
		tolerance:  tolerance,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Validation runs before the transaction: invalid input never opens one.
	book, err := h.catalog.FindByID(ctx, cmd.BookID)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			return nil, domain.E(domain.KindBookNotFound, "book %s not found", cmd.BookID)
		}
		return nil, domain.Internal(err)
	}

	if _, err := h.addrs.FindOwned(ctx, cmd.User.ID, cmd.AddressID); err != nil {
		return nil, domain.E(domain.KindInvalidAddress, "address %s not found for user", cmd.AddressID)
	}

	if cmd.Quantity <= 0 {
		return nil, domain.E(domain.KindInvalidQuantity, "quantity must be a positive integer")
	}
	if cmd.Quantity > book.Quantity {
		return nil, domain.E(domain.KindInvalidQuantity,
			"requested quantity %d exceeds available stock %d", cmd.Quantity, book.Quantity)
	}
	if cmd.PriceAtPurchase <= 0 {
		return nil, domain.E(domain.KindInvalidPrice, "price_at_purchase must be greater than zero")
	}
	if cmd.TotalPrice <= 0 {
		return nil, domain.E(domain.KindPriceMismatch, "total_price must be greater than zero")
	}
	expected := float64(cmd.Quantity) * cmd.PriceAtPurchase
	if math.Abs(cmd.TotalPrice-expected) > h.tolerance {
		return nil, domain.E(domain.KindPriceMismatch,
			"total_price %.2f does not match expected %.2f", cmd.TotalPrice, expected)
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          cmd.User.ID,
		BookID:          cmd.BookID,
		AddressID:       cmd.AddressID,
		Quantity:        cmd.Quantity,
		PriceAtPurchase: cmd.PriceAtPurchase,
		TotalPrice:      cmd.TotalPrice,
		Status:          domain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := order.Validate(h.tolerance); err != nil {
		return nil, err
	}

	if err := h.repo.CreateWithStockDecrement(ctx, order); err != nil {
		switch {
		case errors.Is(err, books.ErrInsufficientStock):
			// A concurrent order consumed the stock between validation and
			// the conditional decrement. Re-read for an accurate message.
			available := 0
			if current, ferr := h.catalog.FindByID(ctx, cmd.BookID); ferr == nil {
				available = current.Quantity
			}
			return nil, domain.E(domain.KindInvalidQuantity,
				"requested quantity %d exceeds available stock %d", cmd.Quantity, available)
		case errors.Is(err, books.ErrNotFound):
			return nil, domain.E(domain.KindBookNotFound, "book %s not found", cmd.BookID)
		default:
			return nil, domain.Internal(err)
		}
	}

	h.afterCommit(ctx, order, cmd.User.Email)

	return &order, nil
}

// afterCommit runs the best-effort side effects of a committed order. None
// of them can fail the call: the order already exists.
func (h *CreateOrderCommandHandler) afterCommit(ctx context.Context, order domain.Order, email string) {
	if h.cache != nil {
		if err := h.cache.InvalidateList(ctx); err != nil {
			h.logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
		}
	}

	if h.dispatcher == nil {
		return
	}
	note := ports.OrderPlacedNote{
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
		Email:      email,
	}
	if err := h.dispatcher.OrderPlaced(ctx, note); err != nil {
		h.logger.ErrorContext(ctx, "order placed but notification dispatch failed",
			"order_id", order.ID,
			"error", err,
		)
	}
}
