package live

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/names"
	"github.com/stacklok/rust-tracker/internal/notify"
	"github.com/stacklok/rust-tracker/internal/otel"
	"github.com/stacklok/rust-tracker/internal/store"
	"github.com/stacklok/rust-tracker/internal/telemetry"
)

// JobName identifies the discovery job in logs and status
const JobName = "live-discovery"

// Bridge attaches itself to live sources and translates their events
type Bridge struct {
	store    store.Store
	notifier notify.Notifier
	provider Provider

	normalize names.Normalizer
	metrics   *telemetry.LiveMetrics
	tracer    trace.Tracer
	now       func() time.Time

	// attached holds the tenants whose source already has the bridge as listener
	mu       sync.Mutex
	attached map[string]struct{}

	markersMu   sync.Mutex
	seenMarkers map[string]map[int64]struct{}
}

var _ Listener = (*Bridge)(nil)

// Option configures a Bridge
type Option func(*Bridge)

// WithNormalizer sets the normalizer applied to team member names
func WithNormalizer(n names.Normalizer) Option {
	return func(b *Bridge) {
		if n != nil {
			b.normalize = n
		}
	}
}

// WithMetrics records events and attachments
func WithMetrics(m *telemetry.LiveMetrics) Option {
	return func(b *Bridge) {
		b.metrics = m
	}
}

// WithTracer enables spans around event handling
func WithTracer(tracer trace.Tracer) Option {
	return func(b *Bridge) {
		b.tracer = tracer
	}
}

// WithClock overrides the time source for last-seen and observation times
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) {
		b.now = now
	}
}

// NewBridge creates a bridge. provider may be nil when live transport is disabled.
func NewBridge(st store.Store, notifier notify.Notifier, provider Provider, opts ...Option) *Bridge {
	b := &Bridge{
		store:       st,
		notifier:    notifier,
		provider:    provider,
		normalize:   names.Normalize,
		now:         time.Now,
		attached:    make(map[string]struct{}),
		seenMarkers: make(map[string]map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements coordinator.Job
func (*Bridge) Name() string {
	return JobName
}

// Run implements coordinator.Job
func (b *Bridge) Run(ctx context.Context) error {
	_, err := b.DiscoverSources(ctx)
	return err
}

// AttachedCount returns the number of tenants with an attached source
func (b *Bridge) AttachedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.attached)
}

// DiscoverSources attaches the bridge to every available source whose tenant
// is not attached yet and returns how many were attached. A failed attach is
// forgotten so the next discovery retries it.
func (b *Bridge) DiscoverSources(ctx context.Context) (int, error) {
	if b.provider == nil {
		return 0, nil
	}

	ctx, span := otel.StartSpan(ctx, b.tracer, "live.DiscoverSources")
	defer span.End()

	sources, err := b.provider.Sources(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return 0, fmt.Errorf("failed to list live sources: %w", err)
	}

	attached := 0
	var errs []error
	for _, src := range sources {
		tenantID := src.TenantID()
		if !b.reserve(tenantID) {
			continue
		}

		if err := src.Attach(b); err != nil {
			b.release(tenantID)
			logger.Warnw("Failed to attach to live source", "tenant_id", tenantID, "error", err)
			errs = append(errs, fmt.Errorf("tenant %s: %w", tenantID, err))
			continue
		}

		attached++
		b.metrics.RecordAttached(ctx, 1)
		logger.Infow("Attached to live source", "tenant_id", tenantID)
	}

	span.SetAttributes(otel.AttrResultCount.Int(attached))
	if len(errs) > 0 {
		err := errors.Join(errs...)
		otel.RecordError(span, err)
		return attached, err
	}
	return attached, nil
}

// reserve marks the tenant as attached and reports whether it was not already
func (b *Bridge) reserve(tenantID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.attached[tenantID]; ok {
		return false
	}
	b.attached[tenantID] = struct{}{}
	return true
}

func (b *Bridge) release(tenantID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.attached, tenantID)
}

func (b *Bridge) startEvent(ctx context.Context, kind EventKind, tenantID string) (context.Context, trace.Span) {
	b.metrics.RecordEvent(ctx, string(kind))
	return otel.StartSpan(ctx, b.tracer, "live.On"+string(kind),
		trace.WithAttributes(
			otel.AttrTenantID.String(tenantID),
			otel.AttrEventKind.String(string(kind)),
		))
}

// OnEntityEvent announces state changes of registered smart devices.
// Events of unregistered entities are ignored.
func (b *Bridge) OnEntityEvent(ctx context.Context, tenantID string, event EntityEvent) error {
	ctx, span := b.startEvent(ctx, EventEntity, tenantID)
	defer span.End()
	span.SetAttributes(otel.AttrEntityID.Int64(event.EntityID))

	device, err := b.store.GetSmartDevice(ctx, tenantID, event.EntityID)
	if errors.Is(err, store.ErrDeviceNotFound) {
		logger.Debugf("Tenant %s: ignoring event of unregistered entity %d", tenantID, event.EntityID)
		return nil
	}
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to look up entity %d: %w", event.EntityID, err)
	}

	var text string
	switch device.Type {
	case store.DeviceAlarm:
		if event.Value {
			text = notify.AlarmTriggered(device.Name)
		} else {
			text = notify.AlarmCleared(device.Name)
		}
	case store.DeviceSwitch:
		text = notify.SwitchToggled(device.Name, event.Value)
	case store.DeviceStorage:
		capacity := 0
		if event.Capacity != nil {
			capacity = *event.Capacity
		}
		text = notify.StorageCapacity(device.Name, capacity)
	default:
		return nil
	}

	if _, err := b.notifier.NotifyTenant(ctx, tenantID, text); err != nil {
		otel.RecordError(span, err)
		return err
	}
	return nil
}

// OnTeamEvent upserts every team member as a teammate. This is the only path
// that creates players.
func (b *Bridge) OnTeamEvent(ctx context.Context, tenantID string, event TeamEvent) error {
	ctx, span := b.startEvent(ctx, EventTeam, tenantID)
	defer span.End()

	at := b.now()
	var errs []error
	for _, m := range event.Members {
		name := b.normalize(m.Name)
		if name == "" {
			continue
		}
		member := store.TeamMember{SteamID: m.SteamID, Name: name, IsOnline: m.IsOnline}
		if _, err := b.store.UpsertTeamMember(ctx, tenantID, member, at); err != nil {
			errs = append(errs, fmt.Errorf("member %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		otel.RecordError(span, err)
		return fmt.Errorf("failed to upsert team of tenant %s: %w", tenantID, err)
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(event.Members)))
	return nil
}

// OnMessageEvent accepts chat messages without acting on them
func (b *Bridge) OnMessageEvent(ctx context.Context, tenantID string, event MessageEvent) error {
	_, span := b.startEvent(ctx, EventMessage, tenantID)
	defer span.End()

	logger.Debugw("Team chat message", "tenant_id", tenantID, "name", event.Name, "message", event.Message)
	return nil
}

// spawnLabel maps a marker type to the label announced when it appears
func spawnLabel(markerType string) (string, bool) {
	switch {
	case strings.Contains(markerType, "CargoShip"):
		return "🚢 Cargo Ship", true
	case strings.Contains(markerType, "PatrolHelicopter"):
		return "🚁 Patrol Helicopter", true
	case strings.Contains(markerType, "Chinook"), strings.Contains(markerType, "CH47"):
		return "🚁 Chinook CH47", true
	case strings.Contains(markerType, "Bradley"):
		return "💥 Bradley APC", true
	case strings.Contains(markerType, "Crate"):
		return "📦 Hackable Crate", true
	default:
		return "", false
	}
}

// OnMarkersEvent announces markers that were not present in the previous
// snapshot of the tenant.
func (b *Bridge) OnMarkersEvent(ctx context.Context, tenantID string, event MarkersEvent) error {
	ctx, span := b.startEvent(ctx, EventMarkers, tenantID)
	defer span.End()

	var labels []string
	b.markersMu.Lock()
	previous := b.seenMarkers[tenantID]
	current := make(map[int64]struct{}, len(event.Markers))
	for _, m := range event.Markers {
		current[m.ID] = struct{}{}
		if _, seen := previous[m.ID]; seen {
			continue
		}
		if label, ok := spawnLabel(m.Type); ok {
			labels = append(labels, label)
		}
	}
	b.seenMarkers[tenantID] = current
	b.markersMu.Unlock()

	var errs []error
	for _, label := range labels {
		if _, err := b.notifier.NotifyTenant(ctx, tenantID, notify.Spawned(label)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		otel.RecordError(span, err)
		return err
	}
	return nil
}

// OnVendingEvent appends the observed offers to the market log
func (b *Bridge) OnVendingEvent(ctx context.Context, tenantID string, event VendingEvent) error {
	ctx, span := b.startEvent(ctx, EventVending, tenantID)
	defer span.End()

	if len(event.Listings) == 0 {
		return nil
	}

	at := b.now()
	listings := make([]store.MarketListing, 0, len(event.Listings))
	for _, l := range event.Listings {
		listings = append(listings, store.MarketListing{
			TenantID:   tenantID,
			ShopName:   event.ShopName,
			ItemName:   l.ItemName,
			Quantity:   l.Quantity,
			CostItem:   l.CostItem,
			CostAmount: l.CostAmount,
			Stock:      l.Stock,
			ObservedAt: at,
		})
	}

	n, err := b.store.InsertMarketListings(ctx, tenantID, listings)
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to record listings of shop %q: %w", event.ShopName, err)
	}
	span.SetAttributes(otel.AttrResultCount.Int64(n))
	return nil
}
