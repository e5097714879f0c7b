package live_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/rust-tracker/internal/live"
	"github.com/stacklok/rust-tracker/internal/live/mocks"
)

func TestDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		frame   live.Frame
		expect  func(l *mocks.MockListenerMockRecorder)
		wantErr error
	}{
		{
			name:  "entity",
			frame: live.Frame{Type: live.EventEntity, TenantID: "g", Payload: json.RawMessage(`{"entityId":7,"value":true}`)},
			expect: func(l *mocks.MockListenerMockRecorder) {
				l.OnEntityEvent(gomock.Any(), "g", live.EntityEvent{EntityID: 7, Value: true}).Return(nil)
			},
		},
		{
			name:  "team",
			frame: live.Frame{Type: live.EventTeam, TenantID: "g", Payload: json.RawMessage(`{"members":[{"steamId":"1","name":"a","isOnline":true}]}`)},
			expect: func(l *mocks.MockListenerMockRecorder) {
				l.OnTeamEvent(gomock.Any(), "g", live.TeamEvent{Members: []live.TeamMemberInfo{{SteamID: "1", Name: "a", IsOnline: true}}}).Return(nil)
			},
		},
		{
			name:  "message",
			frame: live.Frame{Type: live.EventMessage, TenantID: "g", Payload: json.RawMessage(`{"name":"a","steamId":"1","message":"hi"}`)},
			expect: func(l *mocks.MockListenerMockRecorder) {
				l.OnMessageEvent(gomock.Any(), "g", live.MessageEvent{Name: "a", SteamID: "1", Message: "hi"}).Return(nil)
			},
		},
		{
			name:  "markers",
			frame: live.Frame{Type: live.EventMarkers, TenantID: "g", Payload: json.RawMessage(`{"markers":[{"id":1,"type":"CargoShip"}]}`)},
			expect: func(l *mocks.MockListenerMockRecorder) {
				l.OnMarkersEvent(gomock.Any(), "g", live.MarkersEvent{Markers: []live.Marker{{ID: 1, Type: "CargoShip"}}}).Return(nil)
			},
		},
		{
			name:  "vending",
			frame: live.Frame{Type: live.EventVending, TenantID: "g", Payload: json.RawMessage(`{"shopName":"s","listings":[]}`)},
			expect: func(l *mocks.MockListenerMockRecorder) {
				l.OnVendingEvent(gomock.Any(), "g", live.VendingEvent{ShopName: "s", Listings: []live.VendingListing{}}).Return(nil)
			},
		},
		{
			name:    "unknown kind",
			frame:   live.Frame{Type: "server_info", TenantID: "g", Payload: json.RawMessage(`{}`)},
			expect:  func(*mocks.MockListenerMockRecorder) {},
			wantErr: live.ErrUnknownEventKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			l := mocks.NewMockListener(ctrl)
			tt.expect(l.EXPECT())

			err := live.Dispatch(context.Background(), l, tt.frame)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDispatch_InvalidPayload(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	l := mocks.NewMockListener(ctrl)

	err := live.Dispatch(context.Background(), l, live.Frame{
		Type: live.EventEntity, TenantID: "g", Payload: json.RawMessage(`{"entityId":"seven"}`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity payload")
}
