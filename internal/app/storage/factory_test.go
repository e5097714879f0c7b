package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/rust-tracker/internal/config"
)

func TestNewStorageFactory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr string
	}{
		{
			name:    "nil config returns error",
			wantErr: "config cannot be nil",
		},
		{
			name: "memory storage",
			cfg:  &config.Config{Storage: &config.StorageConfig{Type: config.StorageTypeMemory}},
		},
		{
			name:    "unknown storage type",
			cfg:     &config.Config{Storage: &config.StorageConfig{Type: "file"}},
			wantErr: "unknown storage type: file",
		},
		{
			name:    "database storage without database section",
			cfg:     &config.Config{},
			wantErr: "database configuration is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			factory, err := NewStorageFactory(context.Background(), tt.cfg)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, factory)
				return
			}
			require.NoError(t, err)
			t.Cleanup(factory.Cleanup)

			st, err := factory.CreateStore(context.Background())
			require.NoError(t, err)
			require.NoError(t, st.Ping(context.Background()))
		})
	}
}

func TestMemoryFactory_SameStore(t *testing.T) {
	t.Parallel()

	factory := NewMemoryFactory()
	ctx := context.Background()

	first, err := factory.CreateStore(ctx)
	require.NoError(t, err)
	require.NoError(t, first.AddTrackingChannel(ctx, "guild-1", "chan-a"))

	second, err := factory.CreateStore(ctx)
	require.NoError(t, err)
	channels, err := second.ListTrackingChannels(ctx, "guild-1")
	require.NoError(t, err)
	assert.Len(t, channels, 1)

	// cleanup is idempotent
	factory.Cleanup()
	factory.Cleanup()
}
