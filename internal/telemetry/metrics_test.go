package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNilProvidersYieldNilMetrics(t *testing.T) {
	t.Parallel()

	syncMetrics, err := NewSyncMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, syncMetrics)

	notifyMetrics, err := NewNotifyMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, notifyMetrics)

	liveMetrics, err := NewLiveMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, liveMetrics)

	httpMetrics, err := NewHTTPMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, httpMetrics)

	// nil receivers are safe
	ctx := context.Background()
	syncMetrics.RecordSyncDuration(ctx, "t", time.Second, true)
	syncMetrics.RecordTransition(ctx, "t", true)
	notifyMetrics.RecordDelivery(ctx, false)
	liveMetrics.RecordEvent(ctx, "team")
	liveMetrics.RecordAttached(ctx, 1)
}

func TestSyncMetrics(t *testing.T) {
	t.Parallel()

	mp, reader := newManualProvider()
	m, err := NewSyncMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSyncDuration(ctx, "guild-1", 1500*time.Millisecond, true)
	m.RecordSyncDuration(ctx, "guild-1", time.Second, false)
	m.RecordTransition(ctx, "guild-1", true)
	m.RecordTransition(ctx, "guild-1", true)
	m.RecordTransition(ctx, "guild-1", false)

	metrics := collect(t, reader)

	hist, ok := metrics["tracker_sync_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)

	sum, ok := metrics["tracker_player_transitions_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		dir, _ := dp.Attributes.Value(attribute.Key("direction"))
		counts[dir.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"online": 2, "offline": 1}, counts)
}

func TestLiveMetrics(t *testing.T) {
	t.Parallel()

	mp, reader := newManualProvider()
	m, err := NewLiveMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordEvent(ctx, "entity")
	m.RecordEvent(ctx, "entity")
	m.RecordAttached(ctx, 2)
	m.RecordAttached(ctx, -1)

	metrics := collect(t, reader)

	events, ok := metrics["tracker_live_events_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, events.DataPoints, 1)
	assert.Equal(t, int64(2), events.DataPoints[0].Value)

	attached, ok := metrics["tracker_live_sources_attached"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, attached.DataPoints, 1)
	assert.Equal(t, int64(1), attached.DataPoints[0].Value)
}
