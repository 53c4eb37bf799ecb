package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/dvukovic/bookstore/internal/orders/ports"
)

// KafkaDispatcher publishes order-placed events to Kafka. Publishing is
// synchronous so the caller's best-effort error handling sees real failures,
// but a failure never affects the already-committed order.
type KafkaDispatcher struct {
	client  *kgo.Client
	metrics *Metrics
}

func NewKafkaDispatcher(client *kgo.Client, metrics *Metrics) *KafkaDispatcher {
	return &KafkaDispatcher{client: client, metrics: metrics}
}

// NewKafkaClient builds a producer/consumer client for the given brokers.
func NewKafkaClient(brokers []string, opts ...kgo.Opt) (*kgo.Client, error) {
	opts = append([]kgo.Opt{kgo.SeedBrokers(brokers...)}, opts...)
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

func (d *KafkaDispatcher) OrderPlaced(ctx context.Context, note ports.OrderPlacedNote) error {
	event := OrderPlacedEvent{
		OrderID:    note.OrderID,
		TotalPrice: note.TotalPrice,
		Email:      note.Email,
		CreatedAt:  time.Now().UTC(),
	}

	payload, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order placed event: %w", err)
	}

	record := &kgo.Record{
		Topic: TopicOrderPlaced,
		Key:   []byte(note.OrderID),
		Value: payload,
	}

	start := time.Now()
	err = d.client.ProduceSync(ctx, record).FirstErr()
	if d.metrics != nil {
		d.metrics.RecordPublish(ctx, TopicOrderPlaced, time.Since(start).Seconds(), err == nil)
	}
	if err != nil {
		return fmt.Errorf("produce order placed event: %w", err)
	}
	return nil
}
