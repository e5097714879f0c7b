// Package app provides application lifecycle management for the tracker.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stacklok/rust-tracker/internal/config"
	"github.com/stacklok/rust-tracker/internal/live"
	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/sync/coordinator"
)

// TrackerApp encapsulates all components needed to run the tracker
// It provides lifecycle management and graceful shutdown capabilities
type TrackerApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
	stopOnce   sync.Once
	stopErr    error
}

// Start runs the background jobs and the admin HTTP server together.
// It blocks until the HTTP server stops; a server failure cancels the jobs.
func (app *TrackerApp) Start() error {
	g, gctx := errgroup.WithContext(app.ctx)

	for _, c := range []coordinator.Coordinator{
		app.components.RosterCoordinator,
		app.components.DiscoveryCoordinator,
	} {
		if c == nil {
			continue
		}
		g.Go(func() error {
			if err := c.Start(gctx); err != nil {
				logger.Errorf("Coordinator failed: %v", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Infof("Server listening on %s", app.httpServer.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Stop gracefully stops the application with the given timeout.
// Jobs stop first, then live sources close, then the HTTP server drains
// and finally the storage is released. Repeated calls return the first result.
func (app *TrackerApp) Stop(timeout time.Duration) error {
	app.stopOnce.Do(func() {
		app.stopErr = app.stop(timeout)
	})
	return app.stopErr
}

func (app *TrackerApp) stop(timeout time.Duration) error {
	logger.Info("Shutting down tracker...")

	for _, c := range []coordinator.Coordinator{
		app.components.RosterCoordinator,
		app.components.DiscoveryCoordinator,
	} {
		if c == nil {
			continue
		}
		if err := c.Stop(); err != nil {
			logger.Errorf("Failed to stop coordinator: %v", err)
		}
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	closeProvider(app.components.LiveProvider)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := app.httpServer.Shutdown(shutdownCtx)

	if app.components.StorageFactory != nil {
		app.components.StorageFactory.Cleanup()
	}

	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *TrackerApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *TrackerApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// closeProvider releases transports that hold connections
func closeProvider(p live.Provider) {
	if c, ok := p.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warnf("Failed to close live provider: %v", err)
		}
	}
}
