package app

import (
	"github.com/stacklok/rust-tracker/internal/app/storage"
	"github.com/stacklok/rust-tracker/internal/live"
	"github.com/stacklok/rust-tracker/internal/service"
	"github.com/stacklok/rust-tracker/internal/sync/coordinator"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// RosterCoordinator runs the periodic roster sync over all tenants
	RosterCoordinator coordinator.Coordinator

	// DiscoveryCoordinator attaches the live bridge to new sources
	DiscoveryCoordinator coordinator.Coordinator

	// TrackerService provides the admin API business logic
	TrackerService service.TrackerService

	// LiveProvider is the live transport, nil when disabled
	LiveProvider live.Provider

	// StorageFactory owns the store resources
	StorageFactory storage.Factory
}
