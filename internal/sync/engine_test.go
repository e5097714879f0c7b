package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/rust-tracker/internal/notify"
	notifymocks "github.com/stacklok/rust-tracker/internal/notify/mocks"
	"github.com/stacklok/rust-tracker/internal/roster"
	rostermocks "github.com/stacklok/rust-tracker/internal/roster/mocks"
	"github.com/stacklok/rust-tracker/internal/status"
	"github.com/stacklok/rust-tracker/internal/store"
	storemocks "github.com/stacklok/rust-tracker/internal/store/mocks"
)

var syncTime = time.Date(2025, 3, 6, 20, 0, 0, 0, time.UTC)

type engineFixture struct {
	store    *store.MemoryStore
	fetcher  *rostermocks.MockFetcher
	notifier *notifymocks.MockNotifier
	tracker  *status.Tracker
	engine   *Engine
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &engineFixture{
		store:    store.NewMemoryStore(),
		fetcher:  rostermocks.NewMockFetcher(ctrl),
		notifier: notifymocks.NewMockNotifier(ctrl),
		tracker:  status.NewTracker(),
	}
	f.engine = NewEngine(f.store, f.fetcher, f.notifier,
		WithStatusTracker(f.tracker),
		WithClock(func() time.Time { return syncTime }),
	)
	return f
}

// addTenant configures a tenant with a roster source
func (f *engineFixture) addTenant(t *testing.T, tenantID, sourceID string) {
	t.Helper()
	require.NoError(t, f.store.SetRosterSource(context.Background(), tenantID, sourceID))
}

// addPlayer stores a player; online players get an open session
func (f *engineFixture) addPlayer(t *testing.T, tenantID, name string, online bool) int64 {
	t.Helper()
	ctx := context.Background()
	seen := syncTime.Add(-time.Hour)
	id, err := f.store.UpsertTeamMember(ctx, tenantID, store.TeamMember{Name: name}, seen)
	require.NoError(t, err)
	if online {
		require.NoError(t, f.store.SetPlayerOnline(ctx, id, seen))
	}
	return id
}

func (f *engineFixture) player(t *testing.T, tenantID, name string) store.Player {
	t.Helper()
	players, err := f.store.ListPlayers(context.Background(), tenantID)
	require.NoError(t, err)
	for _, p := range players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %s not found in tenant %s", name, tenantID)
	return store.Player{}
}

func (f *engineFixture) openSessions(t *testing.T, playerID int64) int {
	t.Helper()
	n, err := f.store.OpenSessionCount(context.Background(), playerID)
	require.NoError(t, err)
	return n
}

func TestSyncTenant_DiffCorrectness(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)
	ctx := context.Background()

	f.addTenant(t, "guild-1", "bm-1")
	alice := f.addPlayer(t, "guild-1", "alice", true)
	bob := f.addPlayer(t, "guild-1", "bob", false)

	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").
		Return(roster.NewRoster("bm-1", "alice", "bob"), nil)
	f.notifier.EXPECT().NotifyTenant(gomock.Any(), "guild-1", notify.PlayerOnline("bob")).
		Return(&notify.Delivery{Attempted: 1, Delivered: 1}, nil).Times(1)

	result, err := f.engine.SyncTenant(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.WentOnline)
	assert.Equal(t, 0, result.WentOffline)
	assert.Equal(t, 2, result.RosterSize)

	assert.True(t, f.player(t, "guild-1", "alice").IsOnline)
	assert.Equal(t, 1, f.openSessions(t, alice))

	b := f.player(t, "guild-1", "bob")
	assert.True(t, b.IsOnline)
	assert.True(t, syncTime.Equal(b.LastSeen))
	assert.Equal(t, 1, f.openSessions(t, bob))

	st, ok := f.tracker.Get(tenantJobName("guild-1"))
	require.True(t, ok)
	assert.Equal(t, status.JobPhaseComplete, st.Phase)
}

func TestSyncTenant_OfflineTransitionClosesSession(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)
	ctx := context.Background()

	f.addTenant(t, "guild-1", "bm-1")
	carol := f.addPlayer(t, "guild-1", "carol", true)

	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").Return(roster.NewRoster("bm-1"), nil)
	f.notifier.EXPECT().NotifyTenant(gomock.Any(), "guild-1", notify.PlayerOffline("carol")).
		Return(&notify.Delivery{}, nil)

	result, err := f.engine.SyncTenant(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.WentOffline)
	assert.False(t, f.player(t, "guild-1", "carol").IsOnline)
	assert.Equal(t, 0, f.openSessions(t, carol))

	board, err := f.store.Leaderboard(ctx, "guild-1", time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, time.Hour, board[0].Playtime)
}

func TestSyncTenant_ClosesSessionLeftOpenByTeamEvent(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)
	ctx := context.Background()

	now := syncTime
	f.engine = NewEngine(f.store, f.fetcher, f.notifier,
		WithStatusTracker(f.tracker),
		WithClock(func() time.Time { return now }),
	)

	f.addTenant(t, "guild-1", "bm-1")
	dave := f.addPlayer(t, "guild-1", "dave", false)

	gomock.InOrder(
		f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").Return(roster.NewRoster("bm-1", "dave"), nil),
		f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").Return(roster.NewRoster("bm-1"), nil).Times(2),
	)
	f.notifier.EXPECT().NotifyTenant(gomock.Any(), "guild-1", notify.PlayerOnline("dave")).
		Return(&notify.Delivery{}, nil).Times(1)

	_, err := f.engine.SyncTenant(ctx, "guild-1")
	require.NoError(t, err)
	require.Equal(t, 1, f.openSessions(t, dave))

	// the live team snapshot reports dave offline before the next pass
	_, err = f.store.UpsertTeamMember(ctx, "guild-1", store.TeamMember{Name: "dave"}, syncTime.Add(20*time.Minute))
	require.NoError(t, err)
	require.False(t, f.player(t, "guild-1", "dave").IsOnline)

	now = syncTime.Add(30 * time.Minute)
	result, err := f.engine.SyncTenant(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.WentOffline)
	assert.Equal(t, 1, result.Repaired)
	assert.Equal(t, 0, f.openSessions(t, dave))
	assert.False(t, f.player(t, "guild-1", "dave").IsOnline)

	board, err := f.store.Leaderboard(ctx, "guild-1", time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, 30*time.Minute, board[0].Playtime)

	now = syncTime.Add(time.Hour)
	result, err = f.engine.SyncTenant(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Repaired)
	assert.Equal(t, 0, result.WentOffline)
}

func TestSyncTenant_OpensSessionForTeamEventOnlinePlayer(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)
	ctx := context.Background()

	f.addTenant(t, "guild-1", "bm-1")
	eve, err := f.store.UpsertTeamMember(ctx, "guild-1", store.TeamMember{Name: "eve", IsOnline: true}, syncTime.Add(-time.Minute))
	require.NoError(t, err)
	require.Equal(t, 0, f.openSessions(t, eve))

	gomock.InOrder(
		f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").Return(roster.NewRoster("bm-1", "eve"), nil),
		f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").Return(roster.NewRoster("bm-1"), nil),
	)
	f.notifier.EXPECT().NotifyTenant(gomock.Any(), "guild-1", notify.PlayerOffline("eve")).
		Return(&notify.Delivery{}, nil).Times(1)

	result, err := f.engine.SyncTenant(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.WentOnline)
	assert.Equal(t, 1, result.Repaired)
	assert.Equal(t, 1, f.openSessions(t, eve))
	assert.True(t, f.player(t, "guild-1", "eve").IsOnline)

	result, err = f.engine.SyncTenant(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.WentOffline)
	assert.Equal(t, 0, f.openSessions(t, eve))
}

func TestSyncTenant_IncompleteRosterKeepsPlayersOnline(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)

	f.addTenant(t, "guild-1", "bm-1")
	carol := f.addPlayer(t, "guild-1", "carol", true)

	partial := roster.NewRoster("bm-1", "someone-else")
	partial.Complete = false
	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").Return(partial, nil)
	f.notifier.EXPECT().NotifyTenant(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := f.engine.SyncTenant(context.Background(), "guild-1")
	require.NoError(t, err)
	assert.False(t, result.RosterComplete)
	assert.True(t, f.player(t, "guild-1", "carol").IsOnline)
	assert.Equal(t, 1, f.openSessions(t, carol))
}

func TestSyncTenant_RosterOnlyPlayersAreNotCreated(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)

	f.addTenant(t, "guild-1", "bm-1")
	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").
		Return(roster.NewRoster("bm-1", "stranger"), nil)

	result, err := f.engine.SyncTenant(context.Background(), "guild-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.WentOnline)

	players, err := f.store.ListPlayers(context.Background(), "guild-1")
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestSyncTenant_Skips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T, f *engineFixture)
		want  string
	}{
		{
			name:  "unknown tenant",
			setup: func(*testing.T, *engineFixture) {},
			want:  SkipTenantNotConfigured,
		},
		{
			name: "tenant without roster source",
			setup: func(t *testing.T, f *engineFixture) {
				require.NoError(t, f.store.UpsertTenantConfig(context.Background(), store.TenantConfig{TenantID: "guild-1"}))
			},
			want: SkipNoRosterSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newEngineFixture(t)
			tt.setup(t, f)
			f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), gomock.Any()).Times(0)

			result, err := f.engine.SyncTenant(context.Background(), "guild-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Skipped)
		})
	}
}

func TestSyncTenant_RosterFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)

	f.addTenant(t, "guild-1", "bm-1")
	alice := f.addPlayer(t, "guild-1", "alice", true)

	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").
		Return(nil, roster.ErrRosterUnavailable)
	f.notifier.EXPECT().NotifyTenant(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.engine.SyncTenant(context.Background(), "guild-1")
	require.Error(t, err)

	var syncErr *Error
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, ReasonRosterUnavailable, syncErr.Reason)
	assert.ErrorIs(t, err, roster.ErrRosterUnavailable)

	assert.True(t, f.player(t, "guild-1", "alice").IsOnline)
	assert.Equal(t, 1, f.openSessions(t, alice))

	st, ok := f.tracker.Get(tenantJobName("guild-1"))
	require.True(t, ok)
	assert.Equal(t, status.JobPhaseFailed, st.Phase)
	assert.Equal(t, 1, st.AttemptCount)
}

func TestSyncTenant_NotifyFailureKeepsTransition(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)

	f.addTenant(t, "guild-1", "bm-1")
	bob := f.addPlayer(t, "guild-1", "bob", false)

	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").
		Return(roster.NewRoster("bm-1", "bob"), nil)
	f.notifier.EXPECT().NotifyTenant(gomock.Any(), "guild-1", gomock.Any()).
		Return(nil, errors.New("channel lookup failed"))

	result, err := f.engine.SyncTenant(context.Background(), "guild-1")
	var syncErr *Error
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, ReasonNotifyFailure, syncErr.Reason)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.WentOnline)
	assert.True(t, f.player(t, "guild-1", "bob").IsOnline)
	assert.Equal(t, 1, f.openSessions(t, bob))
}

func TestSyncAll_TenantIsolation(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)

	f.addTenant(t, "guild-x", "bm-x")
	f.addTenant(t, "guild-y", "bm-y")
	f.addPlayer(t, "guild-x", "xavier", false)
	f.addPlayer(t, "guild-y", "yasmin", false)

	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-x").
		Return(nil, roster.ErrRosterUnavailable)
	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-y").
		Return(roster.NewRoster("bm-y", "yasmin"), nil)
	f.notifier.EXPECT().NotifyTenant(gomock.Any(), "guild-y", notify.PlayerOnline("yasmin")).
		Return(&notify.Delivery{Attempted: 1, Delivered: 1}, nil)

	require.NoError(t, f.engine.Run(context.Background()))

	assert.False(t, f.player(t, "guild-x", "xavier").IsOnline)
	assert.True(t, f.player(t, "guild-y", "yasmin").IsOnline)

	x, _ := f.tracker.Get(tenantJobName("guild-x"))
	y, _ := f.tracker.Get(tenantJobName("guild-y"))
	assert.Equal(t, status.JobPhaseFailed, x.Phase)
	assert.Equal(t, status.JobPhaseComplete, y.Phase)
}

func TestSyncAll_ListFailureIsReturned(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := storemocks.NewMockStore(ctrl)
	fetcher := rostermocks.NewMockFetcher(ctrl)
	notifier := notifymocks.NewMockNotifier(ctrl)

	st.EXPECT().ListRosterTenants(gomock.Any()).Return(nil, errors.New("connection refused"))
	fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), gomock.Any()).Times(0)

	engine := NewEngine(st, fetcher, notifier)
	assert.Equal(t, JobName, engine.Name())

	err := engine.SyncAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSyncTenant_StoreFailureOnTransition(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := storemocks.NewMockStore(ctrl)
	fetcher := rostermocks.NewMockFetcher(ctrl)
	notifier := notifymocks.NewMockNotifier(ctrl)

	st.EXPECT().GetTenantConfig(gomock.Any(), "guild-1").
		Return(&store.TenantConfig{TenantID: "guild-1", RosterSourceID: "bm-1"}, nil)
	fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").
		Return(roster.NewRoster("bm-1", "alice", "bob"), nil)
	st.EXPECT().ListPlayers(gomock.Any(), "guild-1").Return([]store.Player{
		{ID: 1, TenantID: "guild-1", Name: "alice"},
		{ID: 2, TenantID: "guild-1", Name: "bob"},
	}, nil)
	st.EXPECT().SetPlayerOnline(gomock.Any(), int64(1), syncTime).Return(errors.New("deadlock detected"))
	st.EXPECT().SetPlayerOnline(gomock.Any(), int64(2), syncTime).Return(nil)
	notifier.EXPECT().NotifyTenant(gomock.Any(), "guild-1", notify.PlayerOnline("bob")).
		Return(&notify.Delivery{}, nil).Times(1)

	engine := NewEngine(st, fetcher, notifier, WithClock(func() time.Time { return syncTime }))
	result, err := engine.SyncTenant(context.Background(), "guild-1")

	var syncErr *Error
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, ReasonStoreFailure, syncErr.Reason)
	assert.Equal(t, 1, result.WentOnline)
}

func TestSyncTenant_CallerCancellationDoesNotFailSharedPass(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)

	f.addTenant(t, "guild-1", "bm-1")
	f.addPlayer(t, "guild-1", "alice", false)

	fetching := make(chan struct{}, 1)
	release := make(chan struct{})
	var fetchErr error
	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").
		DoAndReturn(func(ctx context.Context, sourceID string) (*roster.Roster, error) {
			select {
			case fetching <- struct{}{}:
			default:
			}
			<-release
			if fetchErr == nil {
				fetchErr = ctx.Err()
			}
			return roster.NewRoster(sourceID, "alice"), nil
		}).MinTimes(1)
	f.notifier.EXPECT().NotifyTenant(gomock.Any(), "guild-1", notify.PlayerOnline("alice")).
		Return(&notify.Delivery{}, nil).Times(1)

	// a manual trigger starts the pass and then goes away
	manualCtx, cancelManual := context.WithCancel(context.Background())
	manualErr := make(chan error, 1)
	go func() {
		_, err := f.engine.SyncTenant(manualCtx, "guild-1")
		manualErr <- err
	}()
	<-fetching

	// the scheduled pass joins the one in progress
	type outcome struct {
		result *Result
		err    error
	}
	scheduled := make(chan outcome, 1)
	go func() {
		result, err := f.engine.SyncTenant(context.Background(), "guild-1")
		scheduled <- outcome{result, err}
	}()

	cancelManual()
	require.ErrorIs(t, <-manualErr, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-scheduled
	require.NoError(t, got.err)
	require.NotNil(t, got.result)
	require.NoError(t, fetchErr)
	assert.True(t, f.player(t, "guild-1", "alice").IsOnline)

	st, ok := f.tracker.Get(tenantJobName("guild-1"))
	require.True(t, ok)
	assert.Equal(t, status.JobPhaseComplete, st.Phase)
}

func TestSyncTenant_PassTimeout(t *testing.T) {
	t.Parallel()
	f := newEngineFixture(t)
	f.engine = NewEngine(f.store, f.fetcher, f.notifier,
		WithStatusTracker(f.tracker),
		WithPassTimeout(20*time.Millisecond),
	)
	f.addTenant(t, "guild-1", "bm-1")

	f.fetcher.EXPECT().FetchOnlineRoster(gomock.Any(), "bm-1").
		DoAndReturn(func(ctx context.Context, _ string) (*roster.Roster, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	_, err := f.engine.SyncTenant(context.Background(), "guild-1")
	var syncErr *Error
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, ReasonRosterUnavailable, syncErr.Reason)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
