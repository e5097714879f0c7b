package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SyncMetricsMeterName is the meter used by the reconciliation engine
	SyncMetricsMeterName = "github.com/stacklok/rust-tracker/sync"

	// NotifyMetricsMeterName is the meter used by the notification dispatcher
	NotifyMetricsMeterName = "github.com/stacklok/rust-tracker/notify"

	// LiveMetricsMeterName is the meter used by the live event bridge
	LiveMetricsMeterName = "github.com/stacklok/rust-tracker/live"
)

// SyncMetrics holds the instruments for reconciliation passes
type SyncMetrics struct {
	syncDuration metric.Float64Histogram
	transitions  metric.Int64Counter
}

// NewSyncMetrics creates the sync instruments.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	syncDuration, err := meter.Float64Histogram(
		"tracker_sync_duration_seconds",
		metric.WithDescription("Duration of tenant reconciliation passes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"tracker_player_transitions_total",
		metric.WithDescription("Player online/offline transitions applied by reconciliation"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{syncDuration: syncDuration, transitions: transitions}, nil
}

// RecordSyncDuration records the duration of one tenant pass
func (m *SyncMetrics) RecordSyncDuration(ctx context.Context, tenantID string, duration time.Duration, success bool) {
	if m == nil || m.syncDuration == nil {
		return
	}
	m.syncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("tenant", tenantID),
		attribute.Bool("success", success),
	))
}

// RecordTransition counts one applied transition
func (m *SyncMetrics) RecordTransition(ctx context.Context, tenantID string, online bool) {
	if m == nil || m.transitions == nil {
		return
	}
	direction := "offline"
	if online {
		direction = "online"
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tenant", tenantID),
		attribute.String("direction", direction),
	))
}

// NotifyMetrics holds the instruments for notification delivery
type NotifyMetrics struct {
	deliveries metric.Int64Counter
}

// NewNotifyMetrics creates the notification instruments.
// If provider is nil, it returns nil (no-op metrics).
func NewNotifyMetrics(provider metric.MeterProvider) (*NotifyMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	deliveries, err := provider.Meter(NotifyMetricsMeterName).Int64Counter(
		"tracker_notifications_total",
		metric.WithDescription("Notification delivery attempts per destination"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}
	return &NotifyMetrics{deliveries: deliveries}, nil
}

// RecordDelivery counts one delivery attempt
func (m *NotifyMetrics) RecordDelivery(ctx context.Context, success bool) {
	if m == nil || m.deliveries == nil {
		return
	}
	outcome := "failed"
	if success {
		outcome = "delivered"
	}
	m.deliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// LiveMetrics holds the instruments for live sources
type LiveMetrics struct {
	events   metric.Int64Counter
	attached metric.Int64UpDownCounter
}

// NewLiveMetrics creates the live source instruments.
// If provider is nil, it returns nil (no-op metrics).
func NewLiveMetrics(provider metric.MeterProvider) (*LiveMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(LiveMetricsMeterName)

	events, err := meter.Int64Counter(
		"tracker_live_events_total",
		metric.WithDescription("Live events received, by kind"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	attached, err := meter.Int64UpDownCounter(
		"tracker_live_sources_attached",
		metric.WithDescription("Live sources with an attached listener"),
		metric.WithUnit("{source}"),
	)
	if err != nil {
		return nil, err
	}

	return &LiveMetrics{events: events, attached: attached}, nil
}

// RecordEvent counts one inbound live event
func (m *LiveMetrics) RecordEvent(ctx context.Context, kind string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordAttached adjusts the attached sources gauge
func (m *LiveMetrics) RecordAttached(ctx context.Context, delta int) {
	if m == nil || m.attached == nil {
		return
	}
	m.attached.Add(ctx, int64(delta))
}
