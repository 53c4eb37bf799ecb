package notifications

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	producerLatency metric.Float64Histogram
	duplicatesTotal metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.producerLatency, err = meter.Float64Histogram(
		"notification_producer_latency_seconds",
		metric.WithDescription("Notification publish latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create notification_producer_latency histogram: %w", err)
	}

	m.duplicatesTotal, err = meter.Int64Counter(
		"notification_duplicates_total",
		metric.WithDescription("Duplicate notification deliveries skipped by the consumer"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create notification_duplicates_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordPublish(ctx context.Context, topic string, durationSeconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.producerLatency.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordDuplicate(ctx context.Context, topic string) {
	m.duplicatesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
	))
}
