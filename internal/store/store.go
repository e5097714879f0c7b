// Package store is the persistence gateway for tenants, players, sessions,
// smart devices and market listings.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

var (
	// ErrTenantNotFound is returned when a tenant has no stored configuration
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrDeviceNotFound is returned when an entity id is not a registered smart device
	ErrDeviceNotFound = errors.New("smart device not found")
	// ErrPlayerNotFound is returned when a player id does not exist
	ErrPlayerNotFound = errors.New("player not found")
	// ErrChannelNotFound is returned when removing a channel that is not tracked
	ErrChannelNotFound = errors.New("tracking channel not found")
	// ErrInvalidDeviceType is returned for device types other than alarm, switch and storage
	ErrInvalidDeviceType = errors.New("invalid device type")
)

// StaleSessionGrace bounds how long an interrupted session is assumed to have
// lasted past the player's last sighting.
const StaleSessionGrace = 5 * time.Minute

// DeviceType is the kind of a registered smart device
type DeviceType string

// Supported smart device kinds
const (
	DeviceAlarm   DeviceType = "alarm"
	DeviceSwitch  DeviceType = "switch"
	DeviceStorage DeviceType = "storage"
)

// ParseDeviceType validates a device type name
func ParseDeviceType(s string) (DeviceType, error) {
	switch t := DeviceType(s); t {
	case DeviceAlarm, DeviceSwitch, DeviceStorage:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDeviceType, s)
	}
}

// TenantConfig holds the connection details of one tenant
type TenantConfig struct {
	TenantID       string `json:"tenantId"`
	ServerIP       string `json:"serverIp,omitempty"`
	ServerPort     int    `json:"serverPort,omitempty"`
	PlayerID       string `json:"playerId,omitempty"`
	PlayerToken    int64  `json:"-"`
	RosterSourceID string `json:"rosterSourceId,omitempty"`
}

// HasRosterSource reports whether the tenant takes part in roster sync
func (c TenantConfig) HasRosterSource() bool {
	return c.RosterSourceID != ""
}

// HasLiveCredentials reports whether a live connection can be opened for the tenant
func (c TenantConfig) HasLiveCredentials() bool {
	return c.ServerIP != "" && c.ServerPort > 0 && c.PlayerID != "" && c.PlayerToken != 0
}

// TrackingChannel is a notification destination bound to a tenant
type TrackingChannel struct {
	ChannelID  string    `json:"channelId"`
	TenantID   string    `json:"tenantId"`
	LastWipeAt time.Time `json:"lastWipeAt,omitzero"`
}

// Player is a tracked identity within a tenant. Name is already normalized.
type Player struct {
	ID         int64     `json:"id"`
	TenantID   string    `json:"tenantId"`
	SteamID    string    `json:"steamId,omitempty"`
	Name       string    `json:"name"`
	IsOnline   bool      `json:"isOnline"`
	LastSeen   time.Time `json:"lastSeen,omitzero"`
	IsTeammate bool      `json:"isTeammate"`

	// HasOpenSession is derived from the sessions table when listing
	HasOpenSession bool `json:"hasOpenSession"`
}

// TeamMember is one entry of a live team snapshot
type TeamMember struct {
	SteamID  string
	Name     string
	IsOnline bool
}

// SmartDevice is a registered in-game entity
type SmartDevice struct {
	TenantID string     `json:"tenantId"`
	EntityID int64      `json:"entityId"`
	Name     string     `json:"name"`
	Type     DeviceType `json:"type"`
}

// MarketListing is one vending machine offer observed at a point in time
type MarketListing struct {
	ID         int64     `json:"id"`
	TenantID   string    `json:"tenantId"`
	ShopName   string    `json:"shopName"`
	ItemName   string    `json:"itemName"`
	Quantity   int       `json:"quantity"`
	CostItem   string    `json:"costItem"`
	CostAmount int       `json:"costAmount"`
	Stock      int       `json:"stock"`
	ObservedAt time.Time `json:"observedAt"`
}

// LeaderboardEntry is the accumulated session time of a player
type LeaderboardEntry struct {
	PlayerID int64         `json:"playerId"`
	Name     string        `json:"name"`
	Playtime time.Duration `json:"-"`
}

// MarshalJSON reports playtime in whole seconds
func (e LeaderboardEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PlayerID        int64  `json:"playerId"`
		Name            string `json:"name"`
		PlaytimeSeconds int64  `json:"playtimeSeconds"`
	}{e.PlayerID, e.Name, int64(e.Playtime / time.Second)})
}

// Store is the typed persistence gateway used by every component.
// Implementations must keep at most one open session per player.
type Store interface {
	// Ping verifies the backing storage is reachable
	Ping(ctx context.Context) error

	// GetTenantConfig returns ErrTenantNotFound when the tenant has no config
	GetTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error)
	// UpsertTenantConfig inserts or updates connection details. The roster source is left untouched.
	UpsertTenantConfig(ctx context.Context, cfg TenantConfig) error
	// SetRosterSource sets the roster source of a tenant; an empty id clears it
	SetRosterSource(ctx context.Context, tenantID, sourceID string) error
	ListTenants(ctx context.Context) ([]TenantConfig, error)
	ListRosterTenants(ctx context.Context) ([]TenantConfig, error)
	ListLiveTenants(ctx context.Context) ([]TenantConfig, error)

	ListTrackingChannels(ctx context.Context, tenantID string) ([]TrackingChannel, error)
	// AddTrackingChannel is idempotent; re-adding a channel rebinds it to tenantID
	AddTrackingChannel(ctx context.Context, tenantID, channelID string) error
	RemoveTrackingChannel(ctx context.Context, channelID string) error
	// RecordWipe stamps every channel of the tenant and returns how many were updated
	RecordWipe(ctx context.Context, tenantID string, at time.Time) (int64, error)
	// LastWipe returns the latest wipe time, or the zero time when none was recorded
	LastWipe(ctx context.Context, tenantID string) (time.Time, error)

	ListPlayers(ctx context.Context, tenantID string) ([]Player, error)
	// UpsertTeamMember creates or updates a player by normalized name and marks it as a teammate
	UpsertTeamMember(ctx context.Context, tenantID string, member TeamMember, seenAt time.Time) (int64, error)
	// SetPlayerOnline sets the online flag and opens a session in one transaction
	SetPlayerOnline(ctx context.Context, playerID int64, at time.Time) error
	// SetPlayerOffline clears the online flag and closes the open session in one transaction
	SetPlayerOffline(ctx context.Context, playerID int64, at time.Time) error
	OpenSessionCount(ctx context.Context, playerID int64) (int, error)

	// GetSmartDevice returns ErrDeviceNotFound for unregistered entities
	GetSmartDevice(ctx context.Context, tenantID string, entityID int64) (*SmartDevice, error)
	UpsertSmartDevice(ctx context.Context, device SmartDevice) error

	InsertMarketListings(ctx context.Context, tenantID string, listings []MarketListing) (int64, error)
	// SearchMarket returns listings whose item name contains item, newest first
	SearchMarket(ctx context.Context, tenantID, item string, limit int) ([]MarketListing, error)
	// Leaderboard sums session time per player since the given time
	Leaderboard(ctx context.Context, tenantID string, since time.Time, limit int) ([]LeaderboardEntry, error)
}

// staleSessionEnd is where an interrupted session is closed when the player
// comes back online: min(lastSeen+grace, at), never before the session start.
func staleSessionEnd(start, lastSeen, at time.Time) time.Time {
	end := at
	if !lastSeen.IsZero() {
		if candidate := lastSeen.Add(StaleSessionGrace); candidate.Before(end) {
			end = candidate
		}
	}
	if end.Before(start) {
		end = start
	}
	return end
}

// closingTime clamps a session end to its start
func closingTime(start, at time.Time) time.Time {
	if at.Before(start) {
		return start
	}
	return at
}

// overlap returns the part of [start, end) that falls after since
func overlap(start, end, since time.Time) time.Duration {
	if start.Before(since) {
		start = since
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}
