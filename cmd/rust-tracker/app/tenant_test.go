package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/rust-tracker/internal/app"
	"github.com/stacklok/rust-tracker/internal/app/storage"
	"github.com/stacklok/rust-tracker/internal/config"
	"github.com/stacklok/rust-tracker/internal/store"
)

// memoryOpener shares one in-memory store between command invocations
func memoryOpener(t *testing.T) (sessionOpener, func() *app.AdminSession) {
	t.Helper()
	factory := storage.NewMemoryFactory()
	cfg := &config.Config{
		Storage: &config.StorageConfig{Type: config.StorageTypeMemory},
		Notify:  &config.NotifyConfig{Driver: config.NotifyDriverLog},
	}
	open := func(ctx context.Context, _ string) (*app.AdminSession, error) {
		return app.NewAdminSession(ctx, cfg, app.WithStorageFactory(factory))
	}
	inspect := func() *app.AdminSession {
		s, err := open(context.Background(), "")
		require.NoError(t, err)
		return s
	}
	return open, inspect
}

func runTenant(t *testing.T, open sessionOpener, args ...string) (string, error) {
	t.Helper()
	cmd := newTenantCmdWith(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", "tracker.yaml"))
	err := cmd.Execute()
	return out.String(), err
}

func TestTenantCommands(t *testing.T) {
	t.Parallel()

	open, inspect := memoryOpener(t)
	ctx := context.Background()

	out, err := runTenant(t, open, "setup", "--tenant", "guild-1", "--ip", "203.0.113.7",
		"--port", "28082", "--player-id", "76561198000000000", "--token", "-123456")
	require.NoError(t, err)
	assert.Contains(t, out, "Tenant guild-1 configured for 203.0.113.7:28082")

	_, err = runTenant(t, open, "roster-source", "--tenant", "guild-1", "--source", "bm-42")
	require.NoError(t, err)

	// setup again without a roster source keeps the existing one
	_, err = runTenant(t, open, "setup", "--tenant", "guild-1", "--ip", "203.0.113.8",
		"--port", "28082", "--player-id", "76561198000000000", "--token", "-123456")
	require.NoError(t, err)

	_, err = runTenant(t, open, "channel", "add", "--tenant", "guild-1", "--channel", "chan-1")
	require.NoError(t, err)

	_, err = runTenant(t, open, "device", "add", "--tenant", "guild-1", "--entity", "9001",
		"--name", "Base Alarm", "--type", "alarm")
	require.NoError(t, err)

	out, err = runTenant(t, open, "wipe", "--tenant", "guild-1", "--at", "2026-03-05T18:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Wipe recorded at 2026-03-05T18:00:00Z for 1 channel(s), 1 notified")

	out, err = runTenant(t, open, "list")
	require.NoError(t, err)
	var tenants []store.TenantConfig
	require.NoError(t, json.Unmarshal([]byte(out), &tenants))
	require.Len(t, tenants, 1)
	assert.Equal(t, "guild-1", tenants[0].TenantID)
	assert.Equal(t, "203.0.113.8", tenants[0].ServerIP)
	assert.Equal(t, "bm-42", tenants[0].RosterSourceID)

	s := inspect()
	defer s.Close()

	cfg, err := s.Store.GetTenantConfig(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, int64(-123456), cfg.PlayerToken)

	device, err := s.Store.GetSmartDevice(ctx, "guild-1", 9001)
	require.NoError(t, err)
	assert.Equal(t, store.DeviceAlarm, device.Type)

	last, err := s.Store.LastWipe(ctx, "guild-1")
	require.NoError(t, err)
	assert.True(t, last.Equal(time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)))

	_, err = runTenant(t, open, "channel", "remove", "--channel", "chan-1")
	require.NoError(t, err)
	channels, err := s.Store.ListTrackingChannels(ctx, "guild-1")
	require.NoError(t, err)
	assert.Empty(t, channels)
}

func TestTenantCommandErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "setup requires credentials",
			args:    []string{"setup", "--tenant", "guild-1"},
			wantErr: "required flag(s)",
		},
		{
			name: "setup rejects bad port",
			args: []string{"setup", "--tenant", "guild-1", "--ip", "203.0.113.7",
				"--port", "70000", "--player-id", "p", "--token", "1"},
			wantErr: "invalid port",
		},
		{
			name: "setup rejects a malformed tenant id",
			args: []string{"setup", "--tenant", "my guild", "--ip", "203.0.113.7",
				"--port", "28082", "--player-id", "p", "--token", "1"},
			wantErr: "tenant id 'my guild' is invalid",
		},
		{
			name: "setup rejects a host that is not an address",
			args: []string{"setup", "--tenant", "guild-1", "--ip", "203.0.113.7:28082",
				"--port", "28082", "--player-id", "p", "--token", "1"},
			wantErr: "neither an IP address nor a valid DNS name",
		},
		{
			name:    "device type must be known",
			args:    []string{"device", "add", "--tenant", "guild-1", "--entity", "1", "--name", "x", "--type", "turret"},
			wantErr: store.ErrInvalidDeviceType.Error(),
		},
		{
			name:    "wipe timestamp must be RFC 3339",
			args:    []string{"wipe", "--tenant", "guild-1", "--at", "yesterday"},
			wantErr: "invalid --at timestamp",
		},
		{
			name:    "removing an unknown channel fails",
			args:    []string{"channel", "remove", "--channel", "nope"},
			wantErr: store.ErrChannelNotFound.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			open, _ := memoryOpener(t)
			_, err := runTenant(t, open, tt.args...)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %v", err)
		})
	}
}
