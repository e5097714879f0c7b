// Package notify fans tenant events out to the tenant's tracking channels.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/otel"
	"github.com/stacklok/rust-tracker/internal/store"
	"github.com/stacklok/rust-tracker/internal/telemetry"
)

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks -source=dispatcher.go Notifier,ChannelLister

// TracerName is the instrumentation name of notification spans
const TracerName = "github.com/stacklok/rust-tracker/notify"

// ErrEmptyMessage is returned when asked to send an empty message
var ErrEmptyMessage = errors.New("message is empty")

// Notifier sends a message to every destination of a tenant
type Notifier interface {
	NotifyTenant(ctx context.Context, tenantID, text string) (*Delivery, error)
}

// ChannelLister resolves a tenant's destinations
type ChannelLister interface {
	ListTrackingChannels(ctx context.Context, tenantID string) ([]store.TrackingChannel, error)
}

// Delivery summarizes one fan-out
type Delivery struct {
	Attempted int
	Delivered int
	Failed    []string
}

// Dispatcher is the Notifier backed by a Sender
type Dispatcher struct {
	channels ChannelLister
	sender   Sender
	metrics  *telemetry.NotifyMetrics
	tracer   trace.Tracer
}

var _ Notifier = (*Dispatcher)(nil)

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithMetrics records delivery outcomes
func WithMetrics(m *telemetry.NotifyMetrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithTracer enables spans around fan-outs
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = tracer
	}
}

// NewDispatcher creates a dispatcher
func NewDispatcher(channels ChannelLister, sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{channels: channels, sender: sender}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NotifyTenant sends text to each tracking channel of the tenant. A failing
// destination is logged and counted and never stops the others. Only the
// channel lookup can make it return an error.
func (d *Dispatcher) NotifyTenant(ctx context.Context, tenantID, text string) (*Delivery, error) {
	ctx, span := otel.StartSpan(ctx, d.tracer, "notify.NotifyTenant",
		trace.WithAttributes(otel.AttrTenantID.String(tenantID)))
	defer span.End()

	channels, err := d.channels.ListTrackingChannels(ctx, tenantID)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to list tracking channels for tenant %s: %w", tenantID, err)
	}

	delivery := &Delivery{}
	if len(channels) == 0 {
		return delivery, nil
	}

	text = Truncate(text)
	for _, ch := range channels {
		delivery.Attempted++
		if err := d.sender.Send(ctx, ch.ChannelID, text); err != nil {
			logger.WithSpan(ctx).Warnw("Failed to deliver notification",
				"tenant_id", tenantID, "channel_id", ch.ChannelID, "error", err)
			delivery.Failed = append(delivery.Failed, ch.ChannelID)
			d.metrics.RecordDelivery(ctx, false)
			continue
		}
		delivery.Delivered++
		d.metrics.RecordDelivery(ctx, true)
	}

	span.SetAttributes(otel.AttrResultCount.Int(delivery.Delivered))
	return delivery, nil
}

// Broadcast sends text to a single destination and returns the id it was logged under
func (d *Dispatcher) Broadcast(ctx context.Context, channelID, text string) (string, error) {
	if text == "" {
		return "", ErrEmptyMessage
	}

	ctx, span := otel.StartSpan(ctx, d.tracer, "notify.Broadcast",
		trace.WithAttributes(otel.AttrChannelID.String(channelID)))
	defer span.End()

	broadcastID := uuid.NewString()
	err := d.sender.Send(ctx, channelID, Truncate(text))
	d.metrics.RecordDelivery(ctx, err == nil)
	if err != nil {
		otel.RecordError(span, err)
		logger.Warnw("Broadcast failed", "broadcast_id", broadcastID, "channel_id", channelID, "error", err)
		return "", err
	}
	logger.Infow("Broadcast delivered", "broadcast_id", broadcastID, "channel_id", channelID)
	return broadcastID, nil
}
