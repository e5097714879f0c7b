package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/notify"
	"github.com/stacklok/rust-tracker/internal/otel"
	"github.com/stacklok/rust-tracker/internal/status"
	"github.com/stacklok/rust-tracker/internal/store"
	pkgsync "github.com/stacklok/rust-tracker/internal/sync"
)

// TracerName is the instrumentation name of service spans
const TracerName = "github.com/stacklok/rust-tracker/service"

// Broadcaster delivers a message to a single channel
type Broadcaster interface {
	Broadcast(ctx context.Context, channelID, text string) (string, error)
}

// TenantSyncer runs an on-demand sync pass
type TenantSyncer interface {
	SyncTenant(ctx context.Context, tenantID string) (*pkgsync.Result, error)
}

// SourceCounter reports how many live sources are attached
type SourceCounter interface {
	AttachedCount() int
}

// trackerSvc implements the TrackerService interface
type trackerSvc struct {
	store       store.Store
	notifier    notify.Notifier
	broadcaster Broadcaster
	syncer      TenantSyncer
	sources     SourceCounter
	tracker     *status.Tracker
	tracer      trace.Tracer

	started time.Time
	now     func() time.Time
}

var _ TrackerService = (*trackerSvc)(nil)

// Option is a functional option for configuring the service
type Option func(*trackerSvc)

// WithNotifier sets the tenant fan-out used to announce wipes
func WithNotifier(n notify.Notifier) Option {
	return func(s *trackerSvc) {
		s.notifier = n
	}
}

// WithBroadcaster enables Broadcast
func WithBroadcaster(b Broadcaster) Option {
	return func(s *trackerSvc) {
		s.broadcaster = b
	}
}

// WithSyncer enables on-demand sync passes
func WithSyncer(syncer TenantSyncer) Option {
	return func(s *trackerSvc) {
		s.syncer = syncer
	}
}

// WithSourceCounter reports attached live sources in the status
func WithSourceCounter(c SourceCounter) Option {
	return func(s *trackerSvc) {
		s.sources = c
	}
}

// WithStatusTracker exposes job progress in the status
func WithStatusTracker(t *status.Tracker) Option {
	return func(s *trackerSvc) {
		s.tracker = t
	}
}

// WithTracer enables spans around service operations
func WithTracer(tracer trace.Tracer) Option {
	return func(s *trackerSvc) {
		s.tracer = tracer
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *trackerSvc) {
		s.now = now
	}
}

// New creates a TrackerService over the given store
func New(st store.Store, opts ...Option) (TrackerService, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}

	s := &trackerSvc{
		store: st,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()
	return s, nil
}

// CheckReadiness implements TrackerService
func (s *trackerSvc) CheckReadiness(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store not reachable: %w", err)
	}
	return nil
}

// GetStatus implements TrackerService
func (s *trackerSvc) GetStatus(ctx context.Context) (*Status, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "service.GetStatus")
	defer span.End()

	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	result := &Status{
		Status:  "ok",
		Uptime:  s.now().Sub(s.started).Seconds(),
		Tenants: len(tenants),
		Jobs:    s.tracker.Snapshot(),
	}
	if s.sources != nil {
		result.AttachedSources = s.sources.AttachedCount()
	}
	return result, nil
}

// Broadcast implements TrackerService
func (s *trackerSvc) Broadcast(ctx context.Context, channelID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message required", ErrInvalidArgument)
	}
	if channelID == "" {
		return "", fmt.Errorf("%w: channel id required", ErrInvalidArgument)
	}
	if s.broadcaster == nil {
		return "", fmt.Errorf("%w: broadcaster", ErrNotConfigured)
	}

	ctx, span := otel.StartSpan(ctx, s.tracer, "service.Broadcast",
		trace.WithAttributes(otel.AttrChannelID.String(channelID)))
	defer span.End()

	id, err := s.broadcaster.Broadcast(ctx, channelID, message)
	if err != nil {
		otel.RecordError(span, err)
		return "", fmt.Errorf("failed to broadcast to channel %s: %w", channelID, err)
	}
	return id, nil
}

// RecordWipe implements TrackerService. A zero at means now.
func (s *trackerSvc) RecordWipe(ctx context.Context, tenantID string, at time.Time) (*WipeResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id required", ErrInvalidArgument)
	}
	if at.IsZero() {
		at = s.now()
	}
	at = at.UTC()

	ctx, span := otel.StartSpan(ctx, s.tracer, "service.RecordWipe",
		trace.WithAttributes(otel.AttrTenantID.String(tenantID)))
	defer span.End()

	n, err := s.store.RecordWipe(ctx, tenantID, at)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to record wipe for tenant %s: %w", tenantID, err)
	}

	result := &WipeResult{Success: true, WipeTime: at, Channels: n}
	if s.notifier == nil {
		return result, nil
	}

	delivery, err := s.notifier.NotifyTenant(ctx, tenantID, notify.WipeMessage)
	if err != nil {
		// the wipe is already stored; a failed announcement does not undo it
		logger.WithSpan(ctx).Warnw("Failed to announce wipe", "tenant_id", tenantID, "error", err)
		return result, nil
	}
	result.Notified = delivery.Delivered
	return result, nil
}

// SyncTenant implements TrackerService
func (s *trackerSvc) SyncTenant(ctx context.Context, tenantID string) (*pkgsync.Result, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id required", ErrInvalidArgument)
	}
	if s.syncer == nil {
		return nil, fmt.Errorf("%w: roster sync", ErrNotConfigured)
	}
	return s.syncer.SyncTenant(ctx, tenantID)
}

// Leaderboard implements TrackerService
func (s *trackerSvc) Leaderboard(ctx context.Context, tenantID string, limit int) (*LeaderboardResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id required", ErrInvalidArgument)
	}

	ctx, span := otel.StartSpan(ctx, s.tracer, "service.Leaderboard",
		trace.WithAttributes(otel.AttrTenantID.String(tenantID)))
	defer span.End()

	since, err := s.store.LastWipe(ctx, tenantID)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to read last wipe: %w", err)
	}

	entries, err := s.store.Leaderboard(ctx, tenantID, since, clampLimit(limit, DefaultLeaderboardLimit))
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to compute leaderboard: %w", err)
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(entries)))

	return &LeaderboardResult{TenantID: tenantID, Since: since, Entries: entries}, nil
}

// SearchMarket implements TrackerService
func (s *trackerSvc) SearchMarket(ctx context.Context, tenantID, item string, limit int) ([]store.MarketListing, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id required", ErrInvalidArgument)
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, fmt.Errorf("%w: item required", ErrInvalidArgument)
	}

	ctx, span := otel.StartSpan(ctx, s.tracer, "service.SearchMarket",
		trace.WithAttributes(otel.AttrTenantID.String(tenantID)))
	defer span.End()

	listings, err := s.store.SearchMarket(ctx, tenantID, item, clampLimit(limit, DefaultMarketLimit))
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to search market: %w", err)
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(listings)))
	return listings, nil
}
