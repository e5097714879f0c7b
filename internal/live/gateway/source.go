package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/stacklok/rust-tracker/internal/live"
	"github.com/stacklok/rust-tracker/internal/logger"
)

// ErrSourceClosed is returned when attaching to a source of a closed provider
var ErrSourceClosed = errors.New("live source closed")

// tenantSource is the live.Source of one tenant. Frames arriving before a
// listener is attached are dropped.
type tenantSource struct {
	tenantID string

	mu       sync.RWMutex
	listener live.Listener
	closed   bool
}

var _ live.Source = (*tenantSource)(nil)

func newTenantSource(tenantID string) *tenantSource {
	return &tenantSource{tenantID: tenantID}
}

// TenantID implements live.Source
func (s *tenantSource) TenantID() string {
	return s.tenantID
}

// Attach implements live.Source
func (s *tenantSource) Attach(listener live.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}
	s.listener = listener
	return nil
}

func (s *tenantSource) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listener = nil
}

// deliver hands frame to the attached listener
func (s *tenantSource) deliver(ctx context.Context, frame live.Frame) {
	if frame.TenantID != s.tenantID {
		logger.Warnw("Dropping live frame of another tenant",
			"tenant_id", s.tenantID, "frame_tenant_id", frame.TenantID)
		return
	}

	s.mu.RLock()
	listener := s.listener
	s.mu.RUnlock()

	if listener == nil {
		logger.Debugf("Tenant %s: dropping %s frame, no listener attached", s.tenantID, frame.Type)
		return
	}
	if err := live.Dispatch(ctx, listener, frame); err != nil {
		logger.Warnw("Failed to handle live event",
			"tenant_id", s.tenantID, "kind", frame.Type, "error", err)
	}
}
