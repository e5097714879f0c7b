// Package config provides configuration loading and management for the tracker server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/rust-tracker/internal/telemetry"
)

// EnvPrefix is the prefix for environment variables read by the tracker
const EnvPrefix = "TRACKER"

const (
	// StorageTypeDatabase persists tracker state in PostgreSQL
	StorageTypeDatabase = "database"

	// StorageTypeMemory keeps tracker state in process memory (development only)
	StorageTypeMemory = "memory"
)

const (
	// NotifyDriverDiscord delivers notifications through the Discord REST API
	NotifyDriverDiscord = "discord"

	// NotifyDriverLog writes notifications to the log instead of delivering them
	NotifyDriverLog = "log"
)

const (
	// LiveTransportNone disables live sources
	LiveTransportNone = "none"

	// LiveTransportWebsocket connects to a live gateway per tenant over websocket
	LiveTransportWebsocket = "websocket"

	// LiveTransportMQTT consumes live events from an MQTT broker
	LiveTransportMQTT = "mqtt"
)

// Defaults
const (
	DefaultSyncInterval      = 5 * time.Minute
	DefaultDiscoveryInterval = 30 * time.Second
	DefaultRosterBaseURL     = "https://api.battlemetrics.com"
	DefaultRosterTimeout     = 10 * time.Second
	DefaultRosterMaxPages    = 50
	DefaultMQTTTopicPrefix   = "rust-tracker"
)

const (
	envDatabasePassword = EnvPrefix + "_DATABASE_PASSWORD"
	envDiscordToken     = EnvPrefix + "_DISCORD_TOKEN"
	envAPISharedSecret  = EnvPrefix + "_API_SHARED_SECRET"
	envMQTTPassword     = EnvPrefix + "_MQTT_PASSWORD"
	envLiveToken        = EnvPrefix + "_LIVE_GATEWAY_TOKEN"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks; this also cleans the path.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Storage   *StorageConfig    `yaml:"storage,omitempty"`
	Database  *DatabaseConfig   `yaml:"database,omitempty"`
	Roster    *RosterConfig     `yaml:"roster,omitempty"`
	Sync      *ScheduleConfig   `yaml:"sync,omitempty"`
	Discovery *ScheduleConfig   `yaml:"discovery,omitempty"`
	Notify    *NotifyConfig     `yaml:"notify,omitempty"`
	Live      *LiveConfig       `yaml:"live,omitempty"`
	API       *APIConfig        `yaml:"api,omitempty"`
	Tracking  *TrackingConfig   `yaml:"tracking,omitempty"`
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	// Type is either "database" (default) or "memory"
	Type string `yaml:"type,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password.
	// The file should contain only the password with optional trailing whitespace.
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections in the pool
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MinIdleConns is the number of connections kept open when idle
	MinIdleConns int32 `yaml:"minIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// RosterConfig configures the external roster source
type RosterConfig struct {
	// BaseURL of the BattleMetrics compatible API
	BaseURL string `yaml:"baseURL,omitempty"`
	// Timeout bounds every single page request
	Timeout string `yaml:"timeout,omitempty"`
	// MaxPages bounds how many pages a single roster fetch follows
	MaxPages int `yaml:"maxPages,omitempty"`
}

// ScheduleConfig configures a periodic job
type ScheduleConfig struct {
	// Interval is a Go duration string such as "5m"
	Interval string `yaml:"interval,omitempty"`
	// Jitter is the maximum random offset applied to every tick
	Jitter string `yaml:"jitter,omitempty"`
}

// NotifyConfig configures notification delivery
type NotifyConfig struct {
	// Driver is "discord" (default) or "log"
	Driver string `yaml:"driver,omitempty"`
	// TokenFile contains the Discord bot token.
	// TRACKER_DISCORD_TOKEN is used when no file is given.
	TokenFile string `yaml:"tokenFile,omitempty"`
}

// LiveConfig configures the live source transport
type LiveConfig struct {
	// Transport is one of none (default), websocket, mqtt
	Transport string           `yaml:"transport,omitempty"`
	Websocket *WebsocketConfig `yaml:"websocket,omitempty"`
	MQTT      *MQTTConfig      `yaml:"mqtt,omitempty"`
}

// WebsocketConfig configures the live gateway websocket transport
type WebsocketConfig struct {
	// URL of the gateway, e.g. ws://localhost:8090/live
	URL string `yaml:"url"`
	// TokenFile holds the gateway bearer token (TRACKER_LIVE_GATEWAY_TOKEN otherwise)
	TokenFile string `yaml:"tokenFile,omitempty"`
}

// MQTTConfig configures the MQTT live transport
type MQTTConfig struct {
	Broker       string `yaml:"broker"`
	TopicPrefix  string `yaml:"topicPrefix,omitempty"`
	ClientID     string `yaml:"clientID,omitempty"`
	Username     string `yaml:"username,omitempty"`
	PasswordFile string `yaml:"passwordFile,omitempty"`
}

// APIConfig configures the administrative HTTP API
type APIConfig struct {
	// SharedSecretFile holds the value expected in the Authorization header.
	// TRACKER_API_SHARED_SECRET is used when no file is given; empty disables the check.
	SharedSecretFile string `yaml:"sharedSecretFile,omitempty"`
}

// TrackingConfig holds player tracking options
type TrackingConfig struct {
	// StripClanTags removes [TAG] groups and a leading "player " before comparing names
	StripClanTags bool `yaml:"stripClanTags,omitempty"`
}

// readSecret reads a secret from file first and from the environment second
func readSecret(file, env string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(filepath.Clean(file))
		if err != nil {
			return "", fmt.Errorf("failed to read secret from file %s: %w", file, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return os.Getenv(env), nil
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from TRACKER_DATABASE_PASSWORD environment variable
func (d *DatabaseConfig) GetPassword() (string, error) {
	password, err := readSecret(d.PasswordFile, envDatabasePassword)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", fmt.Errorf(
			"no database password configured: set passwordFile or %s environment variable", envDatabasePassword,
		)
	}
	return password, nil
}

// GetConnectionString builds a PostgreSQL connection string.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	), nil
}

// GetConnMaxLifetime returns the parsed connection lifetime, or 0 when unset
func (d *DatabaseConfig) GetConnMaxLifetime() time.Duration {
	if d.ConnMaxLifetime == "" {
		return 0
	}
	lifetime, err := time.ParseDuration(d.ConnMaxLifetime)
	if err != nil {
		return 0
	}
	return lifetime
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML configuration document
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetStorageType returns the storage backend, defaulting to database
func (c *Config) GetStorageType() string {
	if c.Storage == nil || c.Storage.Type == "" {
		return StorageTypeDatabase
	}
	return c.Storage.Type
}

// GetSyncInterval returns the reconciliation interval
func (c *Config) GetSyncInterval() time.Duration {
	return c.Sync.interval(DefaultSyncInterval)
}

// GetSyncJitter returns the jitter applied to reconciliation ticks
func (c *Config) GetSyncJitter() time.Duration {
	return c.Sync.jitter()
}

// GetDiscoveryInterval returns the live source discovery interval
func (c *Config) GetDiscoveryInterval() time.Duration {
	return c.Discovery.interval(DefaultDiscoveryInterval)
}

// GetDiscoveryJitter returns the jitter applied to discovery ticks
func (c *Config) GetDiscoveryJitter() time.Duration {
	return c.Discovery.jitter()
}

// GetRosterBaseURL returns the roster API base URL without trailing slash
func (c *Config) GetRosterBaseURL() string {
	if c.Roster == nil || c.Roster.BaseURL == "" {
		return DefaultRosterBaseURL
	}
	return strings.TrimSuffix(c.Roster.BaseURL, "/")
}

// GetRosterTimeout returns the per-request roster timeout
func (c *Config) GetRosterTimeout() time.Duration {
	if c.Roster == nil || c.Roster.Timeout == "" {
		return DefaultRosterTimeout
	}
	d, err := time.ParseDuration(c.Roster.Timeout)
	if err != nil {
		return DefaultRosterTimeout
	}
	return d
}

// GetRosterMaxPages returns the pagination cap
func (c *Config) GetRosterMaxPages() int {
	if c.Roster == nil || c.Roster.MaxPages <= 0 {
		return DefaultRosterMaxPages
	}
	return c.Roster.MaxPages
}

// GetNotifyDriver returns the notification driver, defaulting to discord
func (c *Config) GetNotifyDriver() string {
	if c.Notify == nil || c.Notify.Driver == "" {
		return NotifyDriverDiscord
	}
	return c.Notify.Driver
}

// GetDiscordToken resolves the Discord bot token
func (c *Config) GetDiscordToken() (string, error) {
	file := ""
	if c.Notify != nil {
		file = c.Notify.TokenFile
	}
	token, err := readSecret(file, envDiscordToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("no discord token configured: set notify.tokenFile or %s", envDiscordToken)
	}
	return token, nil
}

// GetLiveTransport returns the live transport, defaulting to none
func (c *Config) GetLiveTransport() string {
	if c.Live == nil || c.Live.Transport == "" {
		return LiveTransportNone
	}
	return c.Live.Transport
}

// GetLiveGatewayToken resolves the websocket gateway token; it may be empty
func (c *Config) GetLiveGatewayToken() (string, error) {
	if c.Live == nil || c.Live.Websocket == nil {
		return os.Getenv(envLiveToken), nil
	}
	return readSecret(c.Live.Websocket.TokenFile, envLiveToken)
}

// GetMQTTPassword resolves the MQTT password; it may be empty
func (m *MQTTConfig) GetMQTTPassword() (string, error) {
	return readSecret(m.PasswordFile, envMQTTPassword)
}

// GetTopicPrefix returns the MQTT topic prefix
func (m *MQTTConfig) GetTopicPrefix() string {
	if m.TopicPrefix == "" {
		return DefaultMQTTTopicPrefix
	}
	return strings.TrimSuffix(m.TopicPrefix, "/")
}

// GetSharedSecret resolves the admin API shared secret; empty disables the check
func (c *Config) GetSharedSecret() (string, error) {
	file := ""
	if c.API != nil {
		file = c.API.SharedSecretFile
	}
	return readSecret(file, envAPISharedSecret)
}

// PrometheusEnabled reports whether /metrics should be served
func (c *Config) PrometheusEnabled() bool {
	return c.Telemetry.PrometheusEnabled()
}

// StripClanTags reports whether clan tags are removed during name normalization
func (c *Config) StripClanTags() bool {
	return c.Tracking != nil && c.Tracking.StripClanTags
}

func (s *ScheduleConfig) interval(def time.Duration) time.Duration {
	if s == nil || s.Interval == "" {
		return def
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func (s *ScheduleConfig) jitter() time.Duration {
	if s == nil || s.Jitter == "" {
		return 0
	}
	d, err := time.ParseDuration(s.Jitter)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	switch c.GetStorageType() {
	case StorageTypeDatabase:
		if c.Database == nil {
			errs = append(errs, fmt.Errorf("database configuration is required when storage.type is %q", StorageTypeDatabase))
		} else if err := c.Database.validate(); err != nil {
			errs = append(errs, err)
		}
	case StorageTypeMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.type must be %q or %q, got %q",
			StorageTypeDatabase, StorageTypeMemory, c.Storage.Type))
	}

	errs = append(errs,
		validateSchedule("sync", c.Sync),
		validateSchedule("discovery", c.Discovery),
	)

	if c.Roster != nil {
		if c.Roster.BaseURL != "" {
			if u, err := url.Parse(c.Roster.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, fmt.Errorf("roster.baseURL must be an absolute URL, got %q", c.Roster.BaseURL))
			}
		}
		if c.Roster.Timeout != "" {
			if _, err := time.ParseDuration(c.Roster.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("roster.timeout must be a valid duration: %w", err))
			}
		}
	}

	switch c.GetNotifyDriver() {
	case NotifyDriverDiscord, NotifyDriverLog:
	default:
		errs = append(errs, fmt.Errorf("notify.driver must be %q or %q, got %q",
			NotifyDriverDiscord, NotifyDriverLog, c.Notify.Driver))
	}

	errs = append(errs, c.validateLive())

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func (d *DatabaseConfig) validate() error {
	if d.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if d.Port <= 0 {
		return fmt.Errorf("database.port must be positive")
	}
	if d.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if d.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if d.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(d.ConnMaxLifetime); err != nil {
			return fmt.Errorf("database.connMaxLifetime must be a valid duration: %w", err)
		}
	}
	return nil
}

func validateSchedule(name string, s *ScheduleConfig) error {
	if s == nil {
		return nil
	}
	if s.Interval != "" {
		d, err := time.ParseDuration(s.Interval)
		if err != nil {
			return fmt.Errorf("%s.interval must be a valid duration (e.g., '30s', '5m'): %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s.interval must be positive", name)
		}
	}
	if s.Jitter != "" {
		if _, err := time.ParseDuration(s.Jitter); err != nil {
			return fmt.Errorf("%s.jitter must be a valid duration: %w", name, err)
		}
	}
	return nil
}

func (c *Config) validateLive() error {
	switch c.GetLiveTransport() {
	case LiveTransportNone:
		return nil
	case LiveTransportWebsocket:
		if c.Live.Websocket == nil || c.Live.Websocket.URL == "" {
			return fmt.Errorf("live.websocket.url is required for the websocket transport")
		}
		u, err := url.Parse(c.Live.Websocket.URL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			return fmt.Errorf("live.websocket.url must use ws or wss, got %q", c.Live.Websocket.URL)
		}
		return nil
	case LiveTransportMQTT:
		if c.Live.MQTT == nil || c.Live.MQTT.Broker == "" {
			return fmt.Errorf("live.mqtt.broker is required for the mqtt transport")
		}
		return nil
	default:
		return fmt.Errorf("live.transport must be one of %q, %q, %q, got %q",
			LiveTransportNone, LiveTransportWebsocket, LiveTransportMQTT, c.Live.Transport)
	}
}
