package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Sender delivers the confirmation email for a placed order. Template
// rendering and SMTP transport live behind this seam.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, event OrderPlacedEvent) error
}

// LogSender writes the would-be email to the log. The default sender until a
// real mail transport is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendOrderConfirmation(ctx context.Context, event OrderPlacedEvent) error {
	s.logger.InfoContext(ctx, "order confirmation email",
		"order_id", event.OrderID,
		"email", event.Email,
		"total_price", event.TotalPrice,
	)
	return nil
}

// Consumer drains order-placed events from Kafka and hands them to the
// sender. Delivery is at-least-once, so handling is idempotent: an order id
// that has already been processed is skipped rather than re-sent.
type Consumer struct {
	client  *kgo.Client
	sender  Sender
	metrics *Metrics
	logger  *slog.Logger

	mu        sync.Mutex
	processed map[string]struct{}
}

func NewConsumer(client *kgo.Client, sender Sender, metrics *Metrics, logger *slog.Logger) *Consumer {
	return &Consumer{
		client:    client,
		sender:    sender,
		metrics:   metrics,
		logger:    logger,
		processed: make(map[string]struct{}),
	}
}

// Run polls until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				c.logger.ErrorContext(ctx, "notification fetch error",
					"topic", fe.Topic,
					"error", fe.Err,
				)
			}
		}

		fetches.EachRecord(func(record *kgo.Record) {
			if err := c.HandleRecord(ctx, record.Value); err != nil {
				c.logger.ErrorContext(ctx, "notification handling failed",
					"topic", record.Topic,
					"key", string(record.Key),
					"error", err,
				)
			}
		})
	}
}

// HandleRecord processes a single event payload. Duplicates are counted and
// skipped.
func (c *Consumer) HandleRecord(ctx context.Context, payload []byte) error {
	var event OrderPlacedEvent
	if err := sonic.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode order placed event: %w", err)
	}
	if event.OrderID == "" {
		return fmt.Errorf("order placed event missing order_id")
	}

	if !c.markProcessed(event.OrderID) {
		if c.metrics != nil {
			c.metrics.RecordDuplicate(ctx, TopicOrderPlaced)
		}
		return nil
	}

	if err := c.sender.SendOrderConfirmation(ctx, event); err != nil {
		// Allow a redelivery to retry the send.
		c.unmark(event.OrderID)
		return fmt.Errorf("send order confirmation: %w", err)
	}
	return nil
}

func (c *Consumer) markProcessed(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, seen := c.processed[orderID]; seen {
		return false
	}
	c.processed[orderID] = struct{}{}
	return true
}

func (c *Consumer) unmark(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.processed, orderID)
}
