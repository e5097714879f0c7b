package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

type memorySession struct {
	id       int64
	playerID int64
	start    time.Time
	end      time.Time
	open     bool
}

// MemoryStore is an in-process Store used for development and tests.
// All state lives behind one mutex, so every operation is atomic.
type MemoryStore struct {
	mu sync.Mutex

	tenants  map[string]TenantConfig
	channels map[string]TrackingChannel
	players  map[int64]*Player
	// byName indexes players by tenant and normalized name
	byName   map[string]map[string]int64
	sessions []*memorySession
	devices  map[string]map[int64]SmartDevice
	listings []MarketListing

	nextPlayerID  int64
	nextSessionID int64
	nextListingID int64

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants:  make(map[string]TenantConfig),
		channels: make(map[string]TrackingChannel),
		players:  make(map[int64]*Player),
		byName:   make(map[string]map[string]int64),
		devices:  make(map[string]map[int64]SmartDevice),
		now:      time.Now,
	}
}

// Ping implements Store
func (*MemoryStore) Ping(context.Context) error {
	return nil
}

// GetTenantConfig implements Store
func (m *MemoryStore) GetTenantConfig(_ context.Context, tenantID string) (*TenantConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, ok := m.tenants[tenantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, tenantID)
	}
	return &cfg, nil
}

// UpsertTenantConfig implements Store
func (m *MemoryStore) UpsertTenantConfig(_ context.Context, cfg TenantConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg.RosterSourceID = m.tenants[cfg.TenantID].RosterSourceID
	m.tenants[cfg.TenantID] = cfg
	return nil
}

// SetRosterSource implements Store
func (m *MemoryStore) SetRosterSource(_ context.Context, tenantID, sourceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.tenants[tenantID]
	cfg.TenantID = tenantID
	cfg.RosterSourceID = sourceID
	m.tenants[tenantID] = cfg
	return nil
}

// ListTenants implements Store
func (m *MemoryStore) ListTenants(context.Context) ([]TenantConfig, error) {
	return m.filterTenants(func(TenantConfig) bool { return true }), nil
}

// ListRosterTenants implements Store
func (m *MemoryStore) ListRosterTenants(context.Context) ([]TenantConfig, error) {
	return m.filterTenants(TenantConfig.HasRosterSource), nil
}

// ListLiveTenants implements Store
func (m *MemoryStore) ListLiveTenants(context.Context) ([]TenantConfig, error) {
	return m.filterTenants(TenantConfig.HasLiveCredentials), nil
}

func (m *MemoryStore) filterTenants(keep func(TenantConfig) bool) []TenantConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []TenantConfig{}
	for _, cfg := range m.tenants {
		if keep(cfg) {
			result = append(result, cfg)
		}
	}
	slices.SortFunc(result, func(a, b TenantConfig) int { return cmp.Compare(a.TenantID, b.TenantID) })
	return result
}

// ListTrackingChannels implements Store
func (m *MemoryStore) ListTrackingChannels(_ context.Context, tenantID string) ([]TrackingChannel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []TrackingChannel{}
	for _, ch := range m.channels {
		if ch.TenantID == tenantID {
			result = append(result, ch)
		}
	}
	slices.SortFunc(result, func(a, b TrackingChannel) int { return cmp.Compare(a.ChannelID, b.ChannelID) })
	return result, nil
}

// AddTrackingChannel implements Store
func (m *MemoryStore) AddTrackingChannel(_ context.Context, tenantID, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := m.channels[channelID]
	ch.ChannelID = channelID
	ch.TenantID = tenantID
	m.channels[channelID] = ch
	return nil
}

// RemoveTrackingChannel implements Store
func (m *MemoryStore) RemoveTrackingChannel(_ context.Context, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.channels[channelID]; !ok {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	delete(m.channels, channelID)
	return nil
}

// RecordWipe implements Store
func (m *MemoryStore) RecordWipe(_ context.Context, tenantID string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, ch := range m.channels {
		if ch.TenantID == tenantID {
			ch.LastWipeAt = at
			m.channels[id] = ch
			n++
		}
	}
	return n, nil
}

// LastWipe implements Store
func (m *MemoryStore) LastWipe(_ context.Context, tenantID string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var last time.Time
	for _, ch := range m.channels {
		if ch.TenantID == tenantID && ch.LastWipeAt.After(last) {
			last = ch.LastWipeAt
		}
	}
	return last, nil
}

// ListPlayers implements Store
func (m *MemoryStore) ListPlayers(_ context.Context, tenantID string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []Player{}
	for _, id := range m.byName[tenantID] {
		p := *m.players[id]
		p.HasOpenSession = m.openSession(id) != nil
		result = append(result, p)
	}
	slices.SortFunc(result, func(a, b Player) int { return cmp.Compare(a.Name, b.Name) })
	return result, nil
}

// UpsertTeamMember implements Store
func (m *MemoryStore) UpsertTeamMember(_ context.Context, tenantID string, member TeamMember, seenAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names, ok := m.byName[tenantID]
	if !ok {
		names = make(map[string]int64)
		m.byName[tenantID] = names
	}

	if id, ok := names[member.Name]; ok {
		p := m.players[id]
		if member.SteamID != "" {
			p.SteamID = member.SteamID
		}
		p.IsOnline = member.IsOnline
		p.LastSeen = seenAt
		p.IsTeammate = true
		return id, nil
	}

	m.nextPlayerID++
	p := &Player{
		ID:         m.nextPlayerID,
		TenantID:   tenantID,
		SteamID:    member.SteamID,
		Name:       member.Name,
		IsOnline:   member.IsOnline,
		LastSeen:   seenAt,
		IsTeammate: true,
	}
	m.players[p.ID] = p
	names[p.Name] = p.ID
	return p.ID, nil
}

// SetPlayerOnline implements Store
func (m *MemoryStore) SetPlayerOnline(_ context.Context, playerID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[playerID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
	}

	if open := m.openSession(playerID); open != nil {
		open.end = staleSessionEnd(open.start, p.LastSeen, at)
		open.open = false
	}

	p.IsOnline = true
	p.LastSeen = at

	m.nextSessionID++
	m.sessions = append(m.sessions, &memorySession{
		id:       m.nextSessionID,
		playerID: playerID,
		start:    at,
		open:     true,
	})
	return nil
}

// SetPlayerOffline implements Store
func (m *MemoryStore) SetPlayerOffline(_ context.Context, playerID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[playerID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
	}
	p.IsOnline = false
	p.LastSeen = at

	if open := m.openSession(playerID); open != nil {
		open.end = closingTime(open.start, at)
		open.open = false
	}
	return nil
}

// openSession must be called with mu held
func (m *MemoryStore) openSession(playerID int64) *memorySession {
	for _, s := range m.sessions {
		if s.playerID == playerID && s.open {
			return s
		}
	}
	return nil
}

// OpenSessionCount implements Store
func (m *MemoryStore) OpenSessionCount(_ context.Context, playerID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, s := range m.sessions {
		if s.playerID == playerID && s.open {
			n++
		}
	}
	return n, nil
}

// GetSmartDevice implements Store
func (m *MemoryStore) GetSmartDevice(_ context.Context, tenantID string, entityID int64) (*SmartDevice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[tenantID][entityID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrDeviceNotFound, entityID)
	}
	return &d, nil
}

// UpsertSmartDevice implements Store
func (m *MemoryStore) UpsertSmartDevice(_ context.Context, device SmartDevice) error {
	if _, err := ParseDeviceType(string(device.Type)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	devices, ok := m.devices[device.TenantID]
	if !ok {
		devices = make(map[int64]SmartDevice)
		m.devices[device.TenantID] = devices
	}
	devices[device.EntityID] = device
	return nil
}

// InsertMarketListings implements Store
func (m *MemoryStore) InsertMarketListings(_ context.Context, tenantID string, listings []MarketListing) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range listings {
		m.nextListingID++
		l.ID = m.nextListingID
		l.TenantID = tenantID
		if l.ObservedAt.IsZero() {
			l.ObservedAt = m.now()
		}
		m.listings = append(m.listings, l)
	}
	return int64(len(listings)), nil
}

// SearchMarket implements Store
func (m *MemoryStore) SearchMarket(_ context.Context, tenantID, item string, limit int) ([]MarketListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(item)
	result := []MarketListing{}
	for _, l := range m.listings {
		if l.TenantID == tenantID && strings.Contains(strings.ToLower(l.ItemName), needle) {
			result = append(result, l)
		}
	}
	slices.SortFunc(result, func(a, b MarketListing) int {
		if c := b.ObservedAt.Compare(a.ObservedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Leaderboard implements Store
func (m *MemoryStore) Leaderboard(_ context.Context, tenantID string, since time.Time, limit int) ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	totals := make(map[int64]time.Duration)
	for _, s := range m.sessions {
		p := m.players[s.playerID]
		if p == nil || p.TenantID != tenantID {
			continue
		}
		end := s.end
		if s.open {
			end = now
		}
		if d := overlap(s.start, end, since); d > 0 {
			totals[s.playerID] += d
		}
	}

	result := make([]LeaderboardEntry, 0, len(totals))
	for id, d := range totals {
		result = append(result, LeaderboardEntry{
			PlayerID: id,
			Name:     m.players[id].Name,
			Playtime: d.Truncate(time.Second),
		})
	}
	slices.SortFunc(result, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(b.Playtime, a.Playtime); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
