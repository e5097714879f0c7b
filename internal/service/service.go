// Package service provides the administrative operations behind the HTTP API
package service

import (
	"context"
	"errors"
	"time"

	"github.com/stacklok/rust-tracker/internal/status"
	"github.com/stacklok/rust-tracker/internal/store"
	pkgsync "github.com/stacklok/rust-tracker/internal/sync"
)

var (
	// ErrInvalidArgument is returned when a request is missing a required field
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotConfigured is returned when the operation needs a component that is not running
	ErrNotConfigured = errors.New("component not configured")
)

// DefaultLeaderboardLimit is used when no limit is requested
const DefaultLeaderboardLimit = 10

// DefaultMarketLimit is used when no limit is requested
const DefaultMarketLimit = 25

// MaxLimit caps every list operation
const MaxLimit = 100

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go TrackerService

// TrackerService defines the administrative operations of the tracker
type TrackerService interface {
	// CheckReadiness checks if the backing store is reachable
	CheckReadiness(ctx context.Context) error

	// GetStatus reports uptime, tenant count, attached live sources and job progress
	GetStatus(ctx context.Context) (*Status, error)

	// Broadcast sends a message to a single channel and returns its broadcast id
	Broadcast(ctx context.Context, channelID, message string) (string, error)

	// RecordWipe stamps the wipe time on every channel of the tenant and announces it
	RecordWipe(ctx context.Context, tenantID string, at time.Time) (*WipeResult, error)

	// SyncTenant runs an immediate roster sync pass for one tenant
	SyncTenant(ctx context.Context, tenantID string) (*pkgsync.Result, error)

	// Leaderboard returns playtime totals since the tenant's last wipe
	Leaderboard(ctx context.Context, tenantID string, limit int) (*LeaderboardResult, error)

	// SearchMarket returns vending listings matching item, newest first
	SearchMarket(ctx context.Context, tenantID, item string, limit int) ([]store.MarketListing, error)
}

// Status is the process summary served on /status
type Status struct {
	Status          string                      `json:"status"`
	Uptime          float64                     `json:"uptime"`
	Tenants         int                         `json:"tenants"`
	AttachedSources int                         `json:"attachedSources"`
	Jobs            map[string]status.JobStatus `json:"jobs"`
}

// WipeResult describes a recorded wipe
type WipeResult struct {
	Success  bool      `json:"success"`
	WipeTime time.Time `json:"wipeTime"`
	Channels int64     `json:"channels"`
	Notified int       `json:"notified"`
}

// LeaderboardResult is the playtime ranking of a tenant
type LeaderboardResult struct {
	TenantID string                   `json:"tenantId"`
	Since    time.Time                `json:"since,omitzero"`
	Entries  []store.LeaderboardEntry `json:"entries"`
}

// clampLimit applies the default and the upper bound to a requested limit
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, MaxLimit)
}
