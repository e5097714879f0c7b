package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/rust-tracker/internal/app"
	"github.com/stacklok/rust-tracker/internal/config"
	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/telemetry"
)

const (
	defaultGracefulTimeout = 30 * time.Second
	telemetryFlushTimeout  = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tracker",
		Long: `Start the roster sync and live discovery jobs, the live transport and the
admin HTTP API.

The configuration file (--config) selects the storage backend, the roster
source, the notification driver and the live transport. The listen address
can also be set with TRACKER_ADDRESS.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			return runServe(cmd.Context(), configPath, v.GetString("address"))
		},
	}

	cmd.Flags().String("address", ":8080", "Address to listen on")
	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := v.BindPFlag("address", cmd.Flags().Lookup("address")); err != nil {
		logger.Fatalf("Failed to bind address flag: %v", err)
	}
	if err := cmd.MarkFlagRequired("config"); err != nil {
		logger.Fatalf("Failed to mark config flag as required: %v", err)
	}

	return cmd
}

func runServe(parent context.Context, configPath, address string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Infow("Loaded configuration",
		"path", configPath,
		"storage", cfg.GetStorageType(),
		"notify_driver", cfg.GetNotifyDriver(),
		"live_transport", cfg.GetLiveTransport(),
	)

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := tel.Shutdown(flushCtx); err != nil {
			logger.Errorf("Failed to shutdown telemetry: %v", err)
		}
	}()

	opts := []app.TrackerAppOptions{
		app.WithConfig(cfg),
		app.WithAddress(address),
		app.WithMeterProvider(tel.MeterProvider()),
		app.WithTracerProvider(tel.TracerProvider()),
	}
	if handler := tel.MetricsHandler(); handler != nil {
		opts = append(opts, app.WithMetricsHandler(handler))
	}

	trackerApp, err := app.NewTrackerApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create tracker: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- trackerApp.Start()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case runErr = <-errCh:
	}

	if err := trackerApp.Stop(defaultGracefulTimeout); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}
