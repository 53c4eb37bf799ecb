package commands

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dvukovic/bookstore/internal/orders/domain"
	"github.com/dvukovic/bookstore/internal/orders/metrics"
	"github.com/dvukovic/bookstore/internal/telemetry"
)

type ObservableCreateOrderHandler struct {
	handler CreateOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCreateOrderHandler(handler CreateOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCreateOrderHandler {
	return &ObservableCreateOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOrderCreationDuration(ctx, duration)
		o.metrics.RecordOrderCreated(ctx, success)
	}()

	o.logger.InfoContext(ctx, "placing order",
		"user_id", cmd.User.ID,
		"book_id", cmd.BookID,
		"quantity", cmd.Quantity,
	)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to place order",
			"error", err,
			"user_id", cmd.User.ID,
			"book_id", cmd.BookID,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.book_id", order.BookID),
		attribute.Int("order.quantity", order.Quantity),
		attribute.Float64("order.total_price", order.TotalPrice),
		attribute.String("order.status", string(order.Status)),
	)

	o.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"book_id", order.BookID,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}

type ObservableUpdateStatusHandler struct {
	handler UpdateOrderStatusHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableUpdateStatusHandler(handler UpdateOrderStatusHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableUpdateStatusHandler {
	return &ObservableUpdateStatusHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableUpdateStatusHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "UpdateOrderStatusCommand.Handle")
	defer span.End()

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to update order status",
			"error", err,
			"order_id", cmd.OrderID,
			"new_status", cmd.NewStatus,
		)
		return nil, err
	}

	if order.Status == domain.StatusCancelled {
		o.metrics.RecordOrderCancelled(ctx)
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.status", string(order.Status)),
	)

	o.logger.InfoContext(ctx, "order status updated",
		"order_id", order.ID,
		"status", string(order.Status),
	)

	telemetry.SetSpanSuccess(span)

	return order, nil
}
