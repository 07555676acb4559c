package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetrics(t *testing.T) {
	t.Run("returns nil when provider is nil", func(t *testing.T) {
		metrics, err := NewMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("nil metrics are a no-op", func(t *testing.T) {
		var metrics *Metrics
		metrics.RecordBootstrap(context.Background(), time.Second, true)
		metrics.RecordSeedRecord(context.Background(), TaskTips, OutcomeCreated)
		metrics.RecordLockTimeout(context.Background())
	})
}

func TestMetrics_RecordedDuringBootstrap(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(ctx) }()

	metrics, err := NewMetrics(mp)
	require.NoError(t, err)

	store := newFakeStore()
	store.beforeCreate = func(kind, key string) error {
		if kind == "location" && key == "Mesa Arch" {
			return errors.New("disk I/O error")
		}
		return nil
	}
	c := newCoordinator(t, store, Config{}, WithMetrics(metrics))
	require.NoError(t, c.Bootstrap(ctx))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	outcomes := map[string]int64{}
	var sawDuration bool
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != MetricsMeterName {
			continue
		}
		for _, m := range scope.Metrics {
			switch m.Name {
			case "pinhole_seed_records_total":
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				for _, dp := range sum.DataPoints {
					outcome, _ := dp.Attributes.Value("outcome")
					outcomes[outcome.AsString()] += dp.Value
				}
			case "pinhole_bootstrap_duration_seconds":
				sawDuration = true
			}
		}
	}

	assert.True(t, sawDuration)
	assert.Equal(t, int64(1), outcomes[string(OutcomeFailed)])
	assert.Equal(t, int64(wantTipTypes+wantTips+wantLocations-1+wantBaseSettings+wantCameraProfile),
		outcomes[string(OutcomeCreated)])
}
