package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics instruments repository queries and the connection pool.
type Metrics struct {
	queryDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.queryDuration, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create db_query_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordQuery(ctx context.Context, operation string, durationSeconds float64) {
	m.queryDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RegisterPoolStats exports pgxpool gauges (total, idle, acquired) on every
// metric collection.
func RegisterPoolStats(meter metric.Meter, pool *pgxpool.Pool) error {
	totalConns, err := meter.Int64ObservableGauge(
		"db_pool_total_conns",
		metric.WithDescription("Total connections held by the pool"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return fmt.Errorf("create db_pool_total_conns gauge: %w", err)
	}

	idleConns, err := meter.Int64ObservableGauge(
		"db_pool_idle_conns",
		metric.WithDescription("Idle connections in the pool"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return fmt.Errorf("create db_pool_idle_conns gauge: %w", err)
	}

	acquiredConns, err := meter.Int64ObservableGauge(
		"db_pool_acquired_conns",
		metric.WithDescription("Connections currently checked out of the pool"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return fmt.Errorf("create db_pool_acquired_conns gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := pool.Stat()
		o.ObserveInt64(totalConns, int64(stats.TotalConns()))
		o.ObserveInt64(idleConns, int64(stats.IdleConns()))
		o.ObserveInt64(acquiredConns, int64(stats.AcquiredConns()))
		return nil
	}, totalConns, idleConns, acquiredConns)
	if err != nil {
		return fmt.Errorf("register pool stats callback: %w", err)
	}

	return nil
}
