package app

import (
	"context"
	"fmt"

	"github.com/stacklok/rust-tracker/internal/app/storage"
	"github.com/stacklok/rust-tracker/internal/config"
	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/notify"
	"github.com/stacklok/rust-tracker/internal/service"
	"github.com/stacklok/rust-tracker/internal/store"
)

// AdminSession gives one-shot operator commands access to the store and to
// a tracker service that can notify, without starting jobs or transports.
type AdminSession struct {
	Store   store.Store
	Service service.TrackerService

	factory storage.Factory
}

// NewAdminSession opens the configured storage and notification driver
func NewAdminSession(ctx context.Context, cfg *config.Config, opts ...TrackerAppOptions) (*AdminSession, error) {
	b, err := baseConfig(append([]TrackerAppOptions{WithConfig(cfg)}, opts...)...)
	if err != nil {
		return nil, err
	}

	if b.storageFactory == nil {
		b.storageFactory, err = storage.NewStorageFactory(ctx, b.config)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
	}

	b.store, err = b.storageFactory.CreateStore(ctx)
	if err != nil {
		b.storageFactory.Cleanup()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	var svcOpts []service.Option
	sender := b.sender
	if sender == nil {
		// commands that only touch the store work without a notification driver
		if sender, err = buildSender(b.config); err != nil {
			logger.Warnf("Notifications disabled for this command: %v", err)
			sender = nil
		}
	}
	if sender != nil {
		svcOpts = append(svcOpts, service.WithNotifier(notify.NewDispatcher(b.store, sender)))
	}

	svc, err := service.New(b.store, svcOpts...)
	if err != nil {
		b.storageFactory.Cleanup()
		return nil, err
	}

	return &AdminSession{Store: b.store, Service: svc, factory: b.storageFactory}, nil
}

// Close releases the storage
func (s *AdminSession) Close() {
	s.factory.Cleanup()
}
