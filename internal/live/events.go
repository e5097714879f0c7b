// Package live translates real-time events from per-tenant game server
// connections into store updates and notifications.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// EventKind is the type of a live frame
type EventKind string

// Supported event kinds
const (
	EventEntity  EventKind = "entity"
	EventTeam    EventKind = "team"
	EventMessage EventKind = "message"
	EventMarkers EventKind = "markers"
	EventVending EventKind = "vending"
)

// ErrUnknownEventKind is returned when a frame carries an unsupported type
var ErrUnknownEventKind = errors.New("unknown event kind")

// EntityEvent reports a state change of a smart device
type EntityEvent struct {
	EntityID int64 `json:"entityId"`
	Value    bool  `json:"value"`
	Capacity *int  `json:"capacity,omitempty"`
}

// TeamMemberInfo is one member of a team snapshot
type TeamMemberInfo struct {
	SteamID  string `json:"steamId"`
	Name     string `json:"name"`
	IsOnline bool   `json:"isOnline"`
}

// TeamEvent is a snapshot of the team of the connected player
type TeamEvent struct {
	Members []TeamMemberInfo `json:"members"`
}

// MessageEvent is an in-game team chat message
type MessageEvent struct {
	Name    string `json:"name"`
	SteamID string `json:"steamId"`
	Message string `json:"message"`
}

// Marker is one map marker
type Marker struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// MarkersEvent is the full set of map markers currently visible
type MarkersEvent struct {
	Markers []Marker `json:"markers"`
}

// VendingListing is one offer of a vending machine
type VendingListing struct {
	ItemName   string `json:"itemName"`
	Quantity   int    `json:"quantity"`
	CostItem   string `json:"costItem"`
	CostAmount int    `json:"costAmount"`
	Stock      int    `json:"stock"`
}

// VendingEvent lists the offers of one shop
type VendingEvent struct {
	ShopName string           `json:"shopName"`
	Listings []VendingListing `json:"listings"`
}

// Frame is the envelope every live transport delivers
type Frame struct {
	Type     EventKind       `json:"type"`
	TenantID string          `json:"tenantId"`
	Payload  json.RawMessage `json:"payload"`
}

// Listener receives decoded events of one or more sources
//
//go:generate mockgen -destination=mocks/mock_live.go -package=mocks -source=events.go Listener,Source,Provider
type Listener interface {
	OnEntityEvent(ctx context.Context, tenantID string, event EntityEvent) error
	OnTeamEvent(ctx context.Context, tenantID string, event TeamEvent) error
	OnMessageEvent(ctx context.Context, tenantID string, event MessageEvent) error
	OnMarkersEvent(ctx context.Context, tenantID string, event MarkersEvent) error
	OnVendingEvent(ctx context.Context, tenantID string, event VendingEvent) error
}

// Source is the live connection of one tenant
type Source interface {
	TenantID() string
	// Attach registers the listener for every subsequent event of the source
	Attach(listener Listener) error
}

// Provider lists the sources that are currently available
type Provider interface {
	Sources(ctx context.Context) ([]Source, error)
}

// Dispatch decodes the payload of frame and hands it to the matching handler
func Dispatch(ctx context.Context, l Listener, frame Frame) error {
	switch frame.Type {
	case EventEntity:
		var ev EntityEvent
		if err := decodePayload(frame, &ev); err != nil {
			return err
		}
		return l.OnEntityEvent(ctx, frame.TenantID, ev)
	case EventTeam:
		var ev TeamEvent
		if err := decodePayload(frame, &ev); err != nil {
			return err
		}
		return l.OnTeamEvent(ctx, frame.TenantID, ev)
	case EventMessage:
		var ev MessageEvent
		if err := decodePayload(frame, &ev); err != nil {
			return err
		}
		return l.OnMessageEvent(ctx, frame.TenantID, ev)
	case EventMarkers:
		var ev MarkersEvent
		if err := decodePayload(frame, &ev); err != nil {
			return err
		}
		return l.OnMarkersEvent(ctx, frame.TenantID, ev)
	case EventVending:
		var ev VendingEvent
		if err := decodePayload(frame, &ev); err != nil {
			return err
		}
		return l.OnVendingEvent(ctx, frame.TenantID, ev)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventKind, frame.Type)
	}
}

func decodePayload(frame Frame, v any) error {
	if err := json.Unmarshal(frame.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload for tenant %s: %w", frame.Type, frame.TenantID, err)
	}
	return nil
}
