package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory returns an empty store for one subtest
type storeFactory func(t *testing.T) Store

var baseTime = time.Date(2025, 3, 6, 18, 0, 0, 0, time.UTC)

// runStoreContract exercises behavior every Store implementation shares
//
//nolint:thelper // We want to see these lines in the test output
func runStoreContract(t *testing.T, newStore storeFactory, parallel bool) {
	tests := []struct {
		name string
		run  func(t *testing.T, s Store)
	}{
		{
			name: "tenant config round trip",
			run: func(t *testing.T, s Store) {
				ctx := context.Background()

				_, err := s.GetTenantConfig(ctx, "guild-1")
				require.ErrorIs(t, err, ErrTenantNotFound)

				require.NoError(t, s.UpsertTenantConfig(ctx, TenantConfig{
					TenantID:    "guild-1",
					ServerIP:    "10.0.0.1",
					ServerPort:  28082,
					PlayerID:    "76561198000000000",
					PlayerToken: -12345,
				}))
				require.NoError(t, s.SetRosterSource(ctx, "guild-1", "bm-1"))
				// updating connection details keeps the roster source
				require.NoError(t, s.UpsertTenantConfig(ctx, TenantConfig{
					TenantID:    "guild-1",
					ServerIP:    "10.0.0.2",
					ServerPort:  28082,
					PlayerID:    "76561198000000000",
					PlayerToken: -12345,
				}))

				cfg, err := s.GetTenantConfig(ctx, "guild-1")
				require.NoError(t, err)
				assert.Equal(t, "10.0.0.2", cfg.ServerIP)
				assert.Equal(t, "bm-1", cfg.RosterSourceID)
				assert.True(t, cfg.HasLiveCredentials())
			},
		},
		{
			name: "tenant listings filter by capability",
			run: func(t *testing.T, s Store) {
				ctx := context.Background()

				require.NoError(t, s.SetRosterSource(ctx, "roster-only", "bm-9"))
				require.NoError(t, s.UpsertTenantConfig(ctx, TenantConfig{
					TenantID: "live-only", ServerIP: "1.2.3.4", ServerPort: 1, PlayerID: "p", PlayerToken: 7,
				}))
				require.NoError(t, s.UpsertTenantConfig(ctx, TenantConfig{TenantID: "bare"}))

				all, err := s.ListTenants(ctx)
				require.NoError(t, err)
				assert.Len(t, all, 3)

				roster, err := s.ListRosterTenants(ctx)
				require.NoError(t, err)
				require.Len(t, roster, 1)
				assert.Equal(t, "roster-only", roster[0].TenantID)

				live, err := s.ListLiveTenants(ctx)
				require.NoError(t, err)
				require.Len(t, live, 1)
				assert.Equal(t, "live-only", live[0].TenantID)

				require.NoError(t, s.SetRosterSource(ctx, "roster-only", ""))
				roster, err = s.ListRosterTenants(ctx)
				require.NoError(t, err)
				assert.Empty(t, roster)
			},
		},
		{
			name: "tracking channels and wipes",
			run: func(t *testing.T, s Store) {
				ctx := context.Background()

				last, err := s.LastWipe(ctx, "guild-1")
				require.NoError(t, err)
				assert.True(t, last.IsZero())

				require.NoError(t, s.AddTrackingChannel(ctx, "guild-1", "chan-a"))
				require.NoError(t, s.AddTrackingChannel(ctx, "guild-1", "chan-b"))
				require.NoError(t, s.AddTrackingChannel(ctx, "guild-1", "chan-b"))
				require.NoError(t, s.AddTrackingChannel(ctx, "guild-2", "chan-c"))

				channels, err := s.ListTrackingChannels(ctx, "guild-1")
				require.NoError(t, err)
				require.Len(t, channels, 2)
				assert.Equal(t, "chan-a", channels[0].ChannelID)

				n, err := s.RecordWipe(ctx, "guild-1", baseTime)
				require.NoError(t, err)
				assert.Equal(t, int64(2), n)

				last, err = s.LastWipe(ctx, "guild-1")
				require.NoError(t, err)
				assert.True(t, baseTime.Equal(last))

				last, err = s.LastWipe(ctx, "guild-2")
				require.NoError(t, err)
				assert.True(t, last.IsZero())

				require.NoError(t, s.RemoveTrackingChannel(ctx, "chan-a"))
				require.ErrorIs(t, s.RemoveTrackingChannel(ctx, "chan-a"), ErrChannelNotFound)
			},
		},
		{
			name: "team upsert is idempotent",
			run: func(t *testing.T, s Store) {
				ctx := context.Background()

				id1, err := s.UpsertTeamMember(ctx, "guild-1", TeamMember{SteamID: "111", Name: "alice", IsOnline: true}, baseTime)
				require.NoError(t, err)
				id2, err := s.UpsertTeamMember(ctx, "guild-1", TeamMember{Name: "alice", IsOnline: false}, baseTime.Add(time.Minute))
				require.NoError(t, err)
				assert.Equal(t, id1, id2)

				// same name in another tenant is a different player
				id3, err := s.UpsertTeamMember(ctx, "guild-2", TeamMember{Name: "alice"}, baseTime)
				require.NoError(t, err)
				assert.NotEqual(t, id1, id3)

				players, err := s.ListPlayers(ctx, "guild-1")
				require.NoError(t, err)
				require.Len(t, players, 1)
				assert.Equal(t, "111", players[0].SteamID)
				assert.False(t, players[0].IsOnline)
				assert.True(t, players[0].IsTeammate)
			},
		},
		{
			name: "presence transitions keep one open session",
			run: func(t *testing.T, s Store) {
				ctx := context.Background()

				id, err := s.UpsertTeamMember(ctx, "guild-1", TeamMember{Name: "bob"}, baseTime)
				require.NoError(t, err)

				players, err := s.ListPlayers(ctx, "guild-1")
				require.NoError(t, err)
				require.Len(t, players, 1)
				assert.False(t, players[0].HasOpenSession)

				require.NoError(t, s.SetPlayerOnline(ctx, id, baseTime.Add(time.Minute)))
				count, err := s.OpenSessionCount(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, 1, count)

				players, err = s.ListPlayers(ctx, "guild-1")
				require.NoError(t, err)
				assert.True(t, players[0].HasOpenSession)

				// a team event clears the flag but leaves the session to the next roster pass
				_, err = s.UpsertTeamMember(ctx, "guild-1", TeamMember{Name: "bob"}, baseTime.Add(2*time.Minute))
				require.NoError(t, err)
				players, err = s.ListPlayers(ctx, "guild-1")
				require.NoError(t, err)
				assert.False(t, players[0].IsOnline)
				assert.True(t, players[0].HasOpenSession)

				// an interrupted offline transition leaves a session open
				require.NoError(t, s.SetPlayerOnline(ctx, id, baseTime.Add(time.Hour)))
				count, err = s.OpenSessionCount(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, 1, count)

				require.NoError(t, s.SetPlayerOffline(ctx, id, baseTime.Add(2*time.Hour)))
				count, err = s.OpenSessionCount(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, 0, count)

				// offline without an open session only updates the flag
				require.NoError(t, s.SetPlayerOffline(ctx, id, baseTime.Add(3*time.Hour)))

				players, err = s.ListPlayers(ctx, "guild-1")
				require.NoError(t, err)
				require.Len(t, players, 1)
				assert.False(t, players[0].IsOnline)
				assert.False(t, players[0].HasOpenSession)
				assert.True(t, baseTime.Add(3*time.Hour).Equal(players[0].LastSeen))
			},
		},
		{
			name: "unknown player",
			run: func(t *testing.T, s Store) {
				ctx := context.Background()
				require.ErrorIs(t, s.SetPlayerOnline(ctx, 424242, baseTime), ErrPlayerNotFound)
				require.ErrorIs(t, s.SetPlayerOffline(ctx, 424242, baseTime), ErrPlayerNotFound)
			},
		},
		{
			name: "leaderboard sums closed sessions since wipe",
			run: func(t *testing.T, s Store) {
				ctx := context.Background()

				alice, err := s.UpsertTeamMember(ctx, "guild-1", TeamMember{Name: "alice"}, baseTime)
				require.NoError(t, err)
				bob, err := s.UpsertTeamMember(ctx, "guild-1", TeamMember{Name: "bob"}, baseTime)
				require.NoError(t, err)

				require.NoError(t, s.SetPlayerOnline(ctx, alice, baseTime))
				require.NoError(t, s.SetPlayerOffline(ctx, alice, baseTime.Add(2*time.Hour)))
				require.NoError(t, s.SetPlayerOnline(ctx, bob, baseTime.Add(30*time.Minute)))
				require.NoError(t, s.SetPlayerOffline(ctx, bob, baseTime.Add(90*time.Minute)))

				board, err := s.Leaderboard(ctx, "guild-1", baseTime.Add(time.Hour), 10)
				require.NoError(t, err)
				require.Len(t, board, 2)
				assert.Equal(t, "alice", board[0].Name)
				assert.Equal(t, time.Hour, board[0].Playtime)
				assert.Equal(t, "bob", board[1].Name)
				assert.Equal(t, 30*time.Minute, board[1].Playtime)

				board, err = s.Leaderboard(ctx, "guild-1", baseTime.Add(time.Hour), 1)
				require.NoError(t, err)
				assert.Len(t, board, 1)
			},
		},
		{
			name: "smart devices",
			run: func(t *testing.T, s Store) {
				ctx := context.Background()

				_, err := s.GetSmartDevice(ctx, "guild-1", 99)
				require.ErrorIs(t, err, ErrDeviceNotFound)

				require.NoError(t, s.UpsertSmartDevice(ctx, SmartDevice{TenantID: "guild-1", EntityID: 99, Name: "Base Alarm", Type: DeviceAlarm}))
				require.NoError(t, s.UpsertSmartDevice(ctx, SmartDevice{TenantID: "guild-1", EntityID: 99, Name: "Main Alarm", Type: DeviceAlarm}))
				require.ErrorIs(t,
					s.UpsertSmartDevice(ctx, SmartDevice{TenantID: "guild-1", EntityID: 1, Name: "x", Type: "turret"}),
					ErrInvalidDeviceType)

				d, err := s.GetSmartDevice(ctx, "guild-1", 99)
				require.NoError(t, err)
				assert.Equal(t, "Main Alarm", d.Name)

				_, err = s.GetSmartDevice(ctx, "guild-2", 99)
				require.ErrorIs(t, err, ErrDeviceNotFound)
			},
		},
		{
			name: "market listings newest first",
			run: func(t *testing.T, s Store) {
				ctx := context.Background()

				n, err := s.InsertMarketListings(ctx, "guild-1", []MarketListing{
					{ShopName: "A", ItemName: "Metal Fragments", Quantity: 1000, CostItem: "Scrap", CostAmount: 50, Stock: 3, ObservedAt: baseTime},
					{ShopName: "B", ItemName: "High Quality Metal", Quantity: 10, CostItem: "Scrap", CostAmount: 100, Stock: 1, ObservedAt: baseTime.Add(time.Minute)},
					{ShopName: "C", ItemName: "Wood", Quantity: 1000, CostItem: "Scrap", CostAmount: 20, Stock: 9, ObservedAt: baseTime},
				})
				require.NoError(t, err)
				assert.Equal(t, int64(3), n)

				found, err := s.SearchMarket(ctx, "guild-1", "metal", 10)
				require.NoError(t, err)
				require.Len(t, found, 2)
				assert.Equal(t, "B", found[0].ShopName)
				assert.Equal(t, "A", found[1].ShopName)

				found, err = s.SearchMarket(ctx, "guild-2", "metal", 10)
				require.NoError(t, err)
				assert.Empty(t, found)

				// pattern characters in the search text match literally
				for _, item := range []string{"%", "_", `\`, "Metal%Fragments"} {
					found, err = s.SearchMarket(ctx, "guild-1", item, 10)
					require.NoError(t, err)
					assert.Empty(t, found, "search %q", item)
				}

				_, err = s.InsertMarketListings(ctx, "guild-1", []MarketListing{
					{ShopName: "D", ItemName: "Semi_Auto Body", Quantity: 1, CostItem: "Scrap", CostAmount: 75, Stock: 2, ObservedAt: baseTime},
				})
				require.NoError(t, err)
				found, err = s.SearchMarket(ctx, "guild-1", "i_a", 10)
				require.NoError(t, err)
				require.Len(t, found, 1)
				assert.Equal(t, "D", found[0].ShopName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if parallel {
				t.Parallel()
			}
			tt.run(t, newStore(t))
		})
	}
}
