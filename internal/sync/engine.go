package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/names"
	"github.com/stacklok/rust-tracker/internal/notify"
	"github.com/stacklok/rust-tracker/internal/otel"
	"github.com/stacklok/rust-tracker/internal/roster"
	"github.com/stacklok/rust-tracker/internal/status"
	"github.com/stacklok/rust-tracker/internal/store"
	"github.com/stacklok/rust-tracker/internal/telemetry"
)

// JobName identifies the reconciliation job in logs and status
const JobName = "roster-sync"

// DefaultPassTimeout bounds one tenant pass independently of its callers
const DefaultPassTimeout = 2 * time.Minute

// Skip reasons reported in Result.Skipped
const (
	SkipTenantNotConfigured = "tenant-not-configured"
	SkipNoRosterSource      = "no-roster-source"
)

// Result summarizes one tenant pass
type Result struct {
	TenantID       string `json:"tenantId"`
	Skipped        string `json:"skipped,omitempty"`
	RosterSize     int    `json:"rosterSize"`
	RosterComplete bool   `json:"rosterComplete"`
	WentOnline     int    `json:"wentOnline"`
	WentOffline    int    `json:"wentOffline"`
	// Repaired counts silent session fixes for players whose flag was already right
	Repaired       int    `json:"repaired"`
}

// Engine reconciles stored presence with roster snapshots
type Engine struct {
	store    store.Store
	roster   roster.Fetcher
	notifier notify.Notifier

	normalize names.Normalizer
	metrics   *telemetry.SyncMetrics
	tracer    trace.Tracer
	tracker   *status.Tracker
	now       func() time.Time
	timeout   time.Duration

	// passes collapses concurrent syncs of the same tenant
	passes singleflight.Group
}

// Option configures an Engine
type Option func(*Engine)

// WithNormalizer sets the name normalizer used to compare stored names with the roster
func WithNormalizer(n names.Normalizer) Option {
	return func(e *Engine) {
		if n != nil {
			e.normalize = n
		}
	}
}

// WithMetrics records pass durations and transitions
func WithMetrics(m *telemetry.SyncMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTracer enables spans around passes
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithStatusTracker records the outcome of every tenant pass
func WithStatusTracker(tracker *status.Tracker) Option {
	return func(e *Engine) {
		e.tracker = tracker
	}
}

// WithClock overrides the time source used for transition timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithPassTimeout bounds how long a single tenant pass may run
func WithPassTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a sync engine
func NewEngine(st store.Store, fetcher roster.Fetcher, notifier notify.Notifier, opts ...Option) *Engine {
	e := &Engine{
		store:     st,
		roster:    fetcher,
		notifier:  notifier,
		normalize: names.Normalize,
		now:       time.Now,
		timeout:   DefaultPassTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements coordinator.Job
func (*Engine) Name() string {
	return JobName
}

// Run implements coordinator.Job
func (e *Engine) Run(ctx context.Context) error {
	return e.SyncAll(ctx)
}

// tenantJobName is the status key of one tenant's passes
func tenantJobName(tenantID string) string {
	return JobName + "/" + tenantID
}

// SyncAll reconciles every tenant with a roster source, one after the other.
// A tenant failure is logged and recorded and never returned; only failing
// to list the tenants is.
func (e *Engine) SyncAll(ctx context.Context) error {
	ctx, span := otel.StartSpan(ctx, e.tracer, "sync.SyncAll")
	defer span.End()

	tenants, err := e.store.ListRosterTenants(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to list roster tenants: %w", err)
	}

	failed := 0
	for _, tenant := range tenants {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := e.SyncTenant(ctx, tenant.TenantID); err != nil {
			failed++
		}
	}

	span.SetAttributes(otel.AttrResultCount.Int(len(tenants)))
	logger.Infow("Roster sync pass finished", "tenants", len(tenants), "failed", failed)
	return nil
}

// SyncTenant reconciles one tenant. A tenant without config or roster source is
// skipped without error. Failures are returned as *Error after being logged
// and recorded.
//
// Concurrent calls for the same tenant share one pass. The pass runs detached
// from the caller that started it, bounded by the pass timeout, so a caller
// giving up only stops its own wait and never fails the callers that joined.
func (e *Engine) SyncTenant(ctx context.Context, tenantID string) (*Result, error) {
	ch := e.passes.DoChan(tenantID, func() (any, error) {
		passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()
		return e.syncTenant(passCtx, tenantID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			logger.Debugf("Tenant %s: joined a sync pass already in progress", tenantID)
		}
		result, _ := res.Val.(*Result)
		return result, res.Err
	}
}

func (e *Engine) syncTenant(ctx context.Context, tenantID string) (*Result, error) {
	ctx, span := otel.StartSpan(ctx, e.tracer, "sync.SyncTenant",
		trace.WithAttributes(otel.AttrTenantID.String(tenantID)))
	defer span.End()

	result := &Result{TenantID: tenantID}

	cfg, err := e.store.GetTenantConfig(ctx, tenantID)
	switch {
	case errors.Is(err, store.ErrTenantNotFound):
		result.Skipped = SkipTenantNotConfigured
		return result, nil
	case err != nil:
		return nil, e.fail(ctx, span, tenantID, 0, &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to load config for tenant %s: %v", tenantID, err),
			Reason:  ReasonStoreFailure,
		})
	case !cfg.HasRosterSource():
		result.Skipped = SkipNoRosterSource
		return result, nil
	}

	jobName := tenantJobName(tenantID)
	e.tracker.Begin(jobName)
	startTime := time.Now()

	online, err := e.roster.FetchOnlineRoster(ctx, cfg.RosterSourceID)
	if err != nil {
		// Without a roster nothing can be concluded; every flag stays as it is.
		return nil, e.fail(ctx, span, tenantID, time.Since(startTime), &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to fetch roster %s for tenant %s: %v", cfg.RosterSourceID, tenantID, err),
			Reason:  ReasonRosterUnavailable,
		})
	}
	result.RosterSize = online.Len()
	result.RosterComplete = online.Complete

	players, err := e.store.ListPlayers(ctx, tenantID)
	if err != nil {
		return nil, e.fail(ctx, span, tenantID, time.Since(startTime), &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to list players for tenant %s: %v", tenantID, err),
			Reason:  ReasonStoreFailure,
		})
	}

	var storeErrs, notifyErrs []error
	for _, tr := range Diff(players, online, e.normalize) {
		storeErr, notifyErr := e.apply(ctx, tenantID, tr)
		if storeErr != nil {
			storeErrs = append(storeErrs, storeErr)
			continue
		}
		switch {
		case tr.Repair:
			result.Repaired++
		case tr.Online:
			result.WentOnline++
		default:
			result.WentOffline++
		}
		if notifyErr != nil {
			notifyErrs = append(notifyErrs, notifyErr)
		}
	}

	duration := time.Since(startTime)
	switch {
	case len(storeErrs) > 0:
		err := errors.Join(storeErrs...)
		return result, e.fail(ctx, span, tenantID, duration, &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to apply %d transitions for tenant %s: %v", len(storeErrs), tenantID, err),
			Reason:  ReasonStoreFailure,
		})
	case len(notifyErrs) > 0:
		err := errors.Join(notifyErrs...)
		return result, e.fail(ctx, span, tenantID, duration, &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to notify %d transitions for tenant %s: %v", len(notifyErrs), tenantID, err),
			Reason:  ReasonNotifyFailure,
		})
	}

	e.tracker.Finish(jobName, nil)
	e.metrics.RecordSyncDuration(ctx, tenantID, duration, true)
	logger.WithSpan(ctx).Infow("Tenant synced",
		"tenant_id", tenantID,
		"roster_size", result.RosterSize,
		"roster_complete", result.RosterComplete,
		"went_online", result.WentOnline,
		"went_offline", result.WentOffline,
		"repaired", result.Repaired,
		"duration", duration)
	return result, nil
}

// apply persists one transition and announces it. The notification is only
// sent once the store accepted the change.
func (e *Engine) apply(ctx context.Context, tenantID string, tr Transition) (storeErr, notifyErr error) {
	at := e.now()
	p := tr.Player

	var text string
	if tr.Online {
		storeErr = e.store.SetPlayerOnline(ctx, p.ID, at)
		text = notify.PlayerOnline(p.Name)
	} else {
		storeErr = e.store.SetPlayerOffline(ctx, p.ID, at)
		text = notify.PlayerOffline(p.Name)
	}
	if storeErr != nil {
		logger.WithSpan(ctx).Warnw("Failed to apply presence transition",
			"tenant_id", tenantID, "player_id", p.ID, "online", tr.Online, "error", storeErr)
		return fmt.Errorf("player %d: %w", p.ID, storeErr), nil
	}
	if tr.Repair {
		logger.WithSpan(ctx).Infow("Repaired session state",
			"tenant_id", tenantID, "player_id", p.ID, "online", tr.Online)
		return nil, nil
	}
	e.metrics.RecordTransition(ctx, tenantID, tr.Online)

	if _, err := e.notifier.NotifyTenant(ctx, tenantID, text); err != nil {
		logger.WithSpan(ctx).Warnw("Failed to notify presence transition",
			"tenant_id", tenantID, "player_id", p.ID, "error", err)
		return nil, fmt.Errorf("player %d: %w", p.ID, err)
	}
	return nil, nil
}

// fail logs and records a tenant failure and returns it unchanged
func (e *Engine) fail(ctx context.Context, span trace.Span, tenantID string, duration time.Duration, syncErr *Error) error {
	otel.RecordError(span, syncErr)
	e.tracker.Finish(tenantJobName(tenantID), syncErr)
	e.metrics.RecordSyncDuration(ctx, tenantID, duration, false)
	logger.WithSpan(ctx).Errorw("Tenant sync failed",
		"tenant_id", tenantID,
		"reason", syncErr.Reason,
		"error", syncErr.Message)
	return syncErr
}
