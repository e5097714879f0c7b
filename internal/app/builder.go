package app

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/rust-tracker/internal/api"
	"github.com/stacklok/rust-tracker/internal/app/storage"
	"github.com/stacklok/rust-tracker/internal/auth"
	"github.com/stacklok/rust-tracker/internal/config"
	"github.com/stacklok/rust-tracker/internal/httpclient"
	"github.com/stacklok/rust-tracker/internal/live"
	"github.com/stacklok/rust-tracker/internal/live/gateway"
	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/names"
	"github.com/stacklok/rust-tracker/internal/notify"
	"github.com/stacklok/rust-tracker/internal/roster"
	"github.com/stacklok/rust-tracker/internal/service"
	"github.com/stacklok/rust-tracker/internal/status"
	"github.com/stacklok/rust-tracker/internal/store"
	pkgsync "github.com/stacklok/rust-tracker/internal/sync"
	"github.com/stacklok/rust-tracker/internal/sync/coordinator"
	"github.com/stacklok/rust-tracker/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second

	tracerName = "github.com/stacklok/rust-tracker"
)

// TrackerAppOptions is a function that configures the tracker app builder
type TrackerAppOptions func(*trackerAppConfig) error

// trackerAppConfig collects the inputs of NewTrackerApp.
// Component overrides exist primarily for testing.
type trackerAppConfig struct {
	config *config.Config

	storageFactory storage.Factory
	rosterFetcher  roster.Fetcher
	sender         notify.Sender
	liveProvider   live.Provider

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler

	// built along the way
	store   store.Store
	tracker *status.Tracker
}

func baseConfig(opts ...TrackerAppOptions) (*trackerAppConfig, error) {
	cfg := &trackerAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return cfg, nil
}

func (b *trackerAppConfig) tracer() trace.Tracer {
	if b.tracerProvider == nil {
		return nil
	}
	return b.tracerProvider.Tracer(tracerName)
}

// NewTrackerApp wires every component from the configuration
func NewTrackerApp(
	ctx context.Context,
	opts ...TrackerAppOptions,
) (*TrackerApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	if cfg.storageFactory == nil {
		cfg.storageFactory, err = storage.NewStorageFactory(ctx, cfg.config, storage.WithTracer(cfg.tracer()))
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
	}

	// Ensure cleanup happens on error
	var cleanupNeeded = true
	defer func() {
		if cleanupNeeded && cfg.storageFactory != nil {
			cfg.storageFactory.Cleanup()
		}
	}()

	cfg.store, err = cfg.storageFactory.CreateStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	cfg.tracker = status.NewTracker()

	dispatcher, err := buildNotifyComponents(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build notify components: %w", err)
	}

	engine, err := buildSyncComponents(cfg, dispatcher)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync components: %w", err)
	}

	bridge, provider, err := buildLiveComponents(ctx, cfg, dispatcher)
	if err != nil {
		return nil, fmt.Errorf("failed to build live components: %w", err)
	}

	rosterCoordinator := coordinator.New(engine, cfg.config.GetSyncInterval(),
		coordinator.WithJitter(cfg.config.GetSyncJitter()),
		coordinator.WithStatusTracker(cfg.tracker),
	)
	discoveryCoordinator := coordinator.New(bridge, cfg.config.GetDiscoveryInterval(),
		coordinator.WithJitter(cfg.config.GetDiscoveryJitter()),
		coordinator.WithStatusTracker(cfg.tracker),
	)

	trackerService, err := service.New(cfg.store,
		service.WithNotifier(dispatcher),
		service.WithBroadcaster(dispatcher),
		service.WithSyncer(engine),
		service.WithSourceCounter(bridge),
		service.WithStatusTracker(cfg.tracker),
		service.WithTracer(cfg.tracer()),
	)
	if err != nil {
		closeProvider(provider)
		return nil, fmt.Errorf("failed to build tracker service: %w", err)
	}

	httpServer, err := buildHTTPServer(cfg, trackerService)
	if err != nil {
		closeProvider(provider)
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	// Cleanup is now handled by the app
	cleanupNeeded = false

	return &TrackerApp{
		config: cfg.config,
		components: &AppComponents{
			RosterCoordinator:    rosterCoordinator,
			DiscoveryCoordinator: discoveryCoordinator,
			TrackerService:       trackerService,
			LiveProvider:         provider,
			StorageFactory:       cfg.storageFactory,
		},
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancel,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithStorageFactory allows injecting a custom storage factory (for testing)
func WithStorageFactory(f storage.Factory) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		cfg.storageFactory = f
		return nil
	}
}

// WithRosterFetcher replaces the HTTP roster client
func WithRosterFetcher(f roster.Fetcher) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		cfg.rosterFetcher = f
		return nil
	}
}

// WithSender replaces the configured notification driver
func WithSender(s notify.Sender) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		cfg.sender = s
		return nil
	}
}

// WithLiveProvider replaces the configured live transport
func WithLiveProvider(p live.Provider) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		cfg.liveProvider = p
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for job and HTTP metrics
func WithMeterProvider(mp metric.MeterProvider) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider enables spans across the request and job paths
func WithTracerProvider(tp trace.TracerProvider) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler serves the Prometheus scrape endpoint on /metrics
func WithMetricsHandler(h http.Handler) TrackerAppOptions {
	return func(cfg *trackerAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildSender picks the notification driver
func buildSender(cfg *config.Config) (notify.Sender, error) {
	switch driver := cfg.GetNotifyDriver(); driver {
	case config.NotifyDriverDiscord:
		token, err := cfg.GetDiscordToken()
		if err != nil {
			return nil, err
		}
		sender, err := notify.NewDiscordSender(token)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case config.NotifyDriverLog:
		logger.Warn("Notify driver is log; notifications are not delivered")
		return notify.LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown notify driver: %s", driver)
	}
}

// buildNotifyComponents builds the dispatcher shared by sync, live and the admin API
func buildNotifyComponents(b *trackerAppConfig) (*notify.Dispatcher, error) {
	if b.sender == nil {
		sender, err := buildSender(b.config)
		if err != nil {
			return nil, fmt.Errorf("failed to create sender: %w", err)
		}
		b.sender = sender
	}

	notifyMetrics, err := telemetry.NewNotifyMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create notify metrics: %w", err)
	}

	return notify.NewDispatcher(b.store, b.sender,
		notify.WithMetrics(notifyMetrics),
		notify.WithTracer(b.tracer()),
	), nil
}

// buildSyncComponents builds the roster client and the sync engine
func buildSyncComponents(b *trackerAppConfig, notifier notify.Notifier) (*pkgsync.Engine, error) {
	logger.Info("Initializing sync components")

	normalizer := names.For(b.config.StripClanTags())

	if b.rosterFetcher == nil {
		client := httpclient.NewDefaultClient(b.config.GetRosterTimeout())
		b.rosterFetcher = roster.NewClient(client,
			roster.WithBaseURL(b.config.GetRosterBaseURL()),
			roster.WithMaxPages(b.config.GetRosterMaxPages()),
			roster.WithNormalizer(normalizer),
			roster.WithTracer(b.tracer()),
		)
	}

	syncMetrics, err := telemetry.NewSyncMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync metrics: %w", err)
	}
	if syncMetrics != nil {
		logger.Info("Sync metrics enabled")
	}

	engine := pkgsync.NewEngine(b.store, b.rosterFetcher, notifier,
		pkgsync.WithNormalizer(normalizer),
		pkgsync.WithMetrics(syncMetrics),
		pkgsync.WithTracer(b.tracer()),
		pkgsync.WithStatusTracker(b.tracker),
	)

	logger.Info("Sync components initialized successfully")
	return engine, nil
}

// buildLiveProvider creates the configured transport; nil means live sources are disabled
func buildLiveProvider(ctx context.Context, b *trackerAppConfig) (live.Provider, error) {
	transport := b.config.GetLiveTransport()
	if transport == config.LiveTransportNone {
		logger.Info("Live transport disabled")
		return nil, nil
	}

	decoder, err := gateway.NewFrameDecoder()
	if err != nil {
		return nil, fmt.Errorf("failed to create frame decoder: %w", err)
	}

	switch transport {
	case config.LiveTransportWebsocket:
		token, err := b.config.GetLiveGatewayToken()
		if err != nil {
			return nil, err
		}
		provider, err := gateway.NewWebsocketProvider(b.store, b.config.Live.Websocket.URL, token, decoder)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case config.LiveTransportMQTT:
		mqttCfg := b.config.Live.MQTT
		password, err := mqttCfg.GetMQTTPassword()
		if err != nil {
			return nil, err
		}
		provider := gateway.NewMQTTProvider(gateway.MQTTOptions{
			Broker:      mqttCfg.Broker,
			TopicPrefix: mqttCfg.GetTopicPrefix(),
			ClientID:    mqttCfg.ClientID,
			Username:    mqttCfg.Username,
			Password:    password,
		}, decoder)
		if err := provider.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown live transport: %s", transport)
	}
}

// buildLiveComponents builds the live provider and the bridge attached to it
func buildLiveComponents(
	ctx context.Context,
	b *trackerAppConfig,
	notifier notify.Notifier,
) (*live.Bridge, live.Provider, error) {
	logger.Info("Initializing live components")

	provider := b.liveProvider
	if provider == nil {
		var err error
		provider, err = buildLiveProvider(ctx, b)
		if err != nil {
			return nil, nil, err
		}
	}

	liveMetrics, err := telemetry.NewLiveMetrics(b.meterProvider)
	if err != nil {
		closeProvider(provider)
		return nil, nil, fmt.Errorf("failed to create live metrics: %w", err)
	}

	bridge := live.NewBridge(b.store, notifier, provider,
		live.WithNormalizer(names.For(b.config.StripClanTags())),
		live.WithMetrics(liveMetrics),
		live.WithTracer(b.tracer()),
	)

	logger.Info("Live components initialized successfully")
	return bridge, provider, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(
	b *trackerAppConfig,
	svc service.TrackerService,
) (*http.Server, error) {
	logger.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Telemetry goes first to capture requests rejected by auth
	httpMetrics, err := telemetry.NewHTTPMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}
	b.middlewares = append([]func(http.Handler) http.Handler{
		telemetry.TracingMiddleware(b.tracerProvider),
		httpMetrics.Middleware,
	}, b.middlewares...)

	secret, err := b.config.GetSharedSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to read API shared secret: %w", err)
	}
	if secret == "" {
		logger.Warn("No API shared secret configured; admin endpoints are unauthenticated")
	}
	b.middlewares = append(b.middlewares,
		auth.WrapWithPublicPaths(auth.SharedSecretMiddleware(secret), auth.DefaultPublicPaths))

	serverOpts := []api.ServerOption{api.WithMiddlewares(b.middlewares...)}
	if b.metricsHandler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.metricsHandler))
	}
	router := api.NewServer(svc, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	logger.Infow("HTTP server configured", "address", b.address)
	return server, nil
}
