package v0

import "time"

// BroadcastRequest is the body of POST /broadcast
type BroadcastRequest struct {
	ChannelID string `json:"channelId"`
	Message   string `json:"message"`
}

// BroadcastResponse acknowledges a delivered broadcast
type BroadcastResponse struct {
	Success     bool   `json:"success"`
	BroadcastID string `json:"broadcastId"`
}

// WipeRequest is the body of POST /wipe. Timestamp is RFC 3339 and defaults to now.
type WipeRequest struct {
	TenantID  string     `json:"tenantId"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}
