package bootstrap

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsMeterName is the meter name for bootstrap instruments.
const MetricsMeterName = "github.com/mesh-intelligence/pinhole/bootstrap"

// Metrics holds the OpenTelemetry instruments for bootstrap. A nil *Metrics
// records nothing.
type Metrics struct {
	duration     metric.Float64Histogram
	records      metric.Int64Counter
	lockTimeouts metric.Int64Counter
}

// NewMetrics creates the bootstrap instruments on provider.
// If provider is nil, it returns nil (no-op metrics).
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(MetricsMeterName)

	duration, err := meter.Float64Histogram(
		"pinhole_bootstrap_duration_seconds",
		metric.WithDescription("Duration of bootstrap seed passes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	records, err := meter.Int64Counter(
		"pinhole_seed_records_total",
		metric.WithDescription("Seed records processed, by task and outcome"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	lockTimeouts, err := meter.Int64Counter(
		"pinhole_bootstrap_lock_timeouts_total",
		metric.WithDescription("Callers that gave up waiting for a bootstrap in progress"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		duration:     duration,
		records:      records,
		lockTimeouts: lockTimeouts,
	}, nil
}

// RecordBootstrap records the duration of one seed pass.
func (m *Metrics) RecordBootstrap(ctx context.Context, d time.Duration, success bool) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordSeedRecord counts one seed record outcome.
func (m *Metrics) RecordSeedRecord(ctx context.Context, task string, outcome RecordOutcome) {
	if m == nil || m.records == nil {
		return
	}
	m.records.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task", task),
		attribute.String("outcome", string(outcome)),
	))
}

// RecordLockTimeout counts one waiter that timed out.
func (m *Metrics) RecordLockTimeout(ctx context.Context) {
	if m == nil || m.lockTimeouts == nil {
		return
	}
	m.lockTimeouts.Add(ctx, 1)
}
