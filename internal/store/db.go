package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/rust-tracker/internal/db/sqlc"
	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/otel"
)

// TracerName is the instrumentation name of the database store spans
const TracerName = "github.com/stacklok/rust-tracker/store/db"

// DBStore is the PostgreSQL implementation of Store
type DBStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

var _ Store = (*DBStore)(nil)

// DBOption configures a DBStore
type DBOption func(*DBStore)

// WithTracer enables spans around store operations
func WithTracer(tracer trace.Tracer) DBOption {
	return func(s *DBStore) {
		s.tracer = tracer
	}
}

// NewDBStore creates a store backed by the given pool. The caller owns the pool.
func NewDBStore(pool *pgxpool.Pool, opts ...DBOption) *DBStore {
	s := &DBStore{pool: pool}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DBStore) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{semconv.DBSystemPostgreSQL}, attrs...)
	return otel.StartSpan(ctx, s.tracer, name, trace.WithAttributes(attrs...))
}

// inTx runs fn in a read-committed transaction and commits when it returns nil
func (s *DBStore) inTx(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		err := tx.Rollback(ctx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warnf("Failed to rollback transaction: %v", err)
		}
	}()

	if err := fn(sqlc.New(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping implements Store
func (s *DBStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// GetTenantConfig implements Store
func (s *DBStore) GetTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	ctx, span := s.startSpan(ctx, "store.GetTenantConfig", otel.AttrTenantID.String(tenantID))
	defer span.End()

	row, err := sqlc.New(s.pool).GetServerConfig(ctx, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, tenantID)
	}
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to get tenant config: %w", err)
	}
	cfg := tenantFromRow(row)
	return &cfg, nil
}

// UpsertTenantConfig implements Store
func (s *DBStore) UpsertTenantConfig(ctx context.Context, cfg TenantConfig) error {
	ctx, span := s.startSpan(ctx, "store.UpsertTenantConfig", otel.AttrTenantID.String(cfg.TenantID))
	defer span.End()

	var port *int32
	if cfg.ServerPort > 0 {
		p := int32(cfg.ServerPort) //nolint:gosec // validated port range
		port = &p
	}
	var token *int64
	if cfg.PlayerToken != 0 {
		token = &cfg.PlayerToken
	}

	err := sqlc.New(s.pool).UpsertServerConfig(ctx, sqlc.UpsertServerConfigParams{
		TenantID:    cfg.TenantID,
		ServerIp:    optString(cfg.ServerIP),
		ServerPort:  port,
		PlayerID:    optString(cfg.PlayerID),
		PlayerToken: token,
	})
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to upsert tenant config: %w", err)
	}
	return nil
}

// SetRosterSource implements Store
func (s *DBStore) SetRosterSource(ctx context.Context, tenantID, sourceID string) error {
	ctx, span := s.startSpan(ctx, "store.SetRosterSource",
		otel.AttrTenantID.String(tenantID), otel.AttrRosterSource.String(sourceID))
	defer span.End()

	err := sqlc.New(s.pool).SetRosterSource(ctx, sqlc.SetRosterSourceParams{
		TenantID:       tenantID,
		RosterSourceID: optString(sourceID),
	})
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to set roster source: %w", err)
	}
	return nil
}

// ListTenants implements Store
func (s *DBStore) ListTenants(ctx context.Context) ([]TenantConfig, error) {
	return s.listTenants(ctx, "store.ListTenants", sqlc.New(s.pool).ListServerConfigs)
}

// ListRosterTenants implements Store
func (s *DBStore) ListRosterTenants(ctx context.Context) ([]TenantConfig, error) {
	return s.listTenants(ctx, "store.ListRosterTenants", sqlc.New(s.pool).ListRosterServerConfigs)
}

// ListLiveTenants implements Store
func (s *DBStore) ListLiveTenants(ctx context.Context) ([]TenantConfig, error) {
	return s.listTenants(ctx, "store.ListLiveTenants", sqlc.New(s.pool).ListLiveServerConfigs)
}

func (s *DBStore) listTenants(
	ctx context.Context,
	spanName string,
	query func(context.Context) ([]sqlc.ServerConfig, error),
) ([]TenantConfig, error) {
	ctx, span := s.startSpan(ctx, spanName)
	defer span.End()

	rows, err := query(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	result := make([]TenantConfig, 0, len(rows))
	for _, row := range rows {
		result = append(result, tenantFromRow(row))
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(result)))
	return result, nil
}

// ListTrackingChannels implements Store
func (s *DBStore) ListTrackingChannels(ctx context.Context, tenantID string) ([]TrackingChannel, error) {
	ctx, span := s.startSpan(ctx, "store.ListTrackingChannels", otel.AttrTenantID.String(tenantID))
	defer span.End()

	rows, err := sqlc.New(s.pool).ListTrackingChannels(ctx, tenantID)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to list tracking channels: %w", err)
	}
	result := make([]TrackingChannel, 0, len(rows))
	for _, row := range rows {
		result = append(result, TrackingChannel{
			ChannelID:  row.ChannelID,
			TenantID:   row.TenantID,
			LastWipeAt: derefTime(row.LastWipeAt),
		})
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(result)))
	return result, nil
}

// AddTrackingChannel implements Store
func (s *DBStore) AddTrackingChannel(ctx context.Context, tenantID, channelID string) error {
	ctx, span := s.startSpan(ctx, "store.AddTrackingChannel",
		otel.AttrTenantID.String(tenantID), otel.AttrChannelID.String(channelID))
	defer span.End()

	err := sqlc.New(s.pool).AddTrackingChannel(ctx, sqlc.AddTrackingChannelParams{
		ChannelID: channelID,
		TenantID:  tenantID,
	})
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to add tracking channel: %w", err)
	}
	return nil
}

// RemoveTrackingChannel implements Store
func (s *DBStore) RemoveTrackingChannel(ctx context.Context, channelID string) error {
	ctx, span := s.startSpan(ctx, "store.RemoveTrackingChannel", otel.AttrChannelID.String(channelID))
	defer span.End()

	n, err := sqlc.New(s.pool).RemoveTrackingChannel(ctx, channelID)
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to remove tracking channel: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	return nil
}

// RecordWipe implements Store
func (s *DBStore) RecordWipe(ctx context.Context, tenantID string, at time.Time) (int64, error) {
	ctx, span := s.startSpan(ctx, "store.RecordWipe", otel.AttrTenantID.String(tenantID))
	defer span.End()

	n, err := sqlc.New(s.pool).RecordWipe(ctx, sqlc.RecordWipeParams{
		TenantID:   tenantID,
		LastWipeAt: &at,
	})
	if err != nil {
		otel.RecordError(span, err)
		return 0, fmt.Errorf("failed to record wipe: %w", err)
	}
	span.SetAttributes(otel.AttrResultCount.Int64(n))
	return n, nil
}

// LastWipe implements Store
func (s *DBStore) LastWipe(ctx context.Context, tenantID string) (time.Time, error) {
	ctx, span := s.startSpan(ctx, "store.LastWipe", otel.AttrTenantID.String(tenantID))
	defer span.End()

	at, err := sqlc.New(s.pool).LastWipe(ctx, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		otel.RecordError(span, err)
		return time.Time{}, fmt.Errorf("failed to get last wipe: %w", err)
	}
	return derefTime(at), nil
}

// ListPlayers implements Store
func (s *DBStore) ListPlayers(ctx context.Context, tenantID string) ([]Player, error) {
	ctx, span := s.startSpan(ctx, "store.ListPlayers", otel.AttrTenantID.String(tenantID))
	defer span.End()

	rows, err := sqlc.New(s.pool).ListPlayers(ctx, tenantID)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	result := make([]Player, 0, len(rows))
	for _, row := range rows {
		p := playerFromRow(sqlc.Player{
			ID:         row.ID,
			TenantID:   row.TenantID,
			SteamID:    row.SteamID,
			Name:       row.Name,
			IsOnline:   row.IsOnline,
			LastSeen:   row.LastSeen,
			IsTeammate: row.IsTeammate,
		})
		p.HasOpenSession = row.HasOpenSession
		result = append(result, p)
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(result)))
	return result, nil
}

// UpsertTeamMember implements Store. A single INSERT ... ON CONFLICT makes
// concurrent team events for the same name converge on one row.
func (s *DBStore) UpsertTeamMember(ctx context.Context, tenantID string, member TeamMember, seenAt time.Time) (int64, error) {
	ctx, span := s.startSpan(ctx, "store.UpsertTeamMember", otel.AttrTenantID.String(tenantID))
	defer span.End()

	id, err := sqlc.New(s.pool).UpsertTeamMember(ctx, sqlc.UpsertTeamMemberParams{
		TenantID: tenantID,
		SteamID:  optString(member.SteamID),
		Name:     member.Name,
		IsOnline: member.IsOnline,
		LastSeen: &seenAt,
	})
	if err != nil {
		otel.RecordError(span, err)
		return 0, fmt.Errorf("failed to upsert team member: %w", err)
	}
	span.SetAttributes(otel.AttrPlayerID.Int64(id))
	return id, nil
}

// SetPlayerOnline implements Store
func (s *DBStore) SetPlayerOnline(ctx context.Context, playerID int64, at time.Time) error {
	ctx, span := s.startSpan(ctx, "store.SetPlayerOnline", otel.AttrPlayerID.Int64(playerID))
	defer span.End()

	err := s.inTx(ctx, func(q *sqlc.Queries) error {
		player, err := q.LockPlayer(ctx, playerID)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
		}
		if err != nil {
			return fmt.Errorf("failed to lock player: %w", err)
		}

		open, err := q.GetOpenSession(ctx, playerID)
		switch {
		case err == nil:
			end := staleSessionEnd(open.StartTime, derefTime(player.LastSeen), at)
			logger.Debugf("Closing stale session %d of player %d at %s", open.ID, playerID, end.Format(time.RFC3339))
			if err := q.CloseSession(ctx, sqlc.CloseSessionParams{ID: open.ID, EndTime: &end}); err != nil {
				return fmt.Errorf("failed to close stale session: %w", err)
			}
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("failed to get open session: %w", err)
		}

		if err := q.SetPlayerPresence(ctx, sqlc.SetPlayerPresenceParams{
			ID:       playerID,
			IsOnline: true,
			LastSeen: &at,
		}); err != nil {
			return fmt.Errorf("failed to set player online: %w", err)
		}

		if _, err := q.OpenSession(ctx, sqlc.OpenSessionParams{PlayerID: playerID, StartTime: at}); err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
		return nil
	})
	if err != nil {
		otel.RecordError(span, err)
	}
	return err
}

// SetPlayerOffline implements Store
func (s *DBStore) SetPlayerOffline(ctx context.Context, playerID int64, at time.Time) error {
	ctx, span := s.startSpan(ctx, "store.SetPlayerOffline", otel.AttrPlayerID.Int64(playerID))
	defer span.End()

	err := s.inTx(ctx, func(q *sqlc.Queries) error {
		if _, err := q.LockPlayer(ctx, playerID); errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
		} else if err != nil {
			return fmt.Errorf("failed to lock player: %w", err)
		}

		if err := q.SetPlayerPresence(ctx, sqlc.SetPlayerPresenceParams{
			ID:       playerID,
			IsOnline: false,
			LastSeen: &at,
		}); err != nil {
			return fmt.Errorf("failed to set player offline: %w", err)
		}

		open, err := q.GetOpenSession(ctx, playerID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get open session: %w", err)
		}
		end := closingTime(open.StartTime, at)
		if err := q.CloseSession(ctx, sqlc.CloseSessionParams{ID: open.ID, EndTime: &end}); err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
		return nil
	})
	if err != nil {
		otel.RecordError(span, err)
	}
	return err
}

// OpenSessionCount implements Store
func (s *DBStore) OpenSessionCount(ctx context.Context, playerID int64) (int, error) {
	n, err := sqlc.New(s.pool).CountOpenSessions(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count open sessions: %w", err)
	}
	return int(n), nil
}

// GetSmartDevice implements Store
func (s *DBStore) GetSmartDevice(ctx context.Context, tenantID string, entityID int64) (*SmartDevice, error) {
	ctx, span := s.startSpan(ctx, "store.GetSmartDevice",
		otel.AttrTenantID.String(tenantID), otel.AttrEntityID.Int64(entityID))
	defer span.End()

	row, err := sqlc.New(s.pool).GetSmartDevice(ctx, sqlc.GetSmartDeviceParams{
		TenantID: tenantID,
		EntityID: entityID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrDeviceNotFound, entityID)
	}
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to get smart device: %w", err)
	}
	return &SmartDevice{
		TenantID: row.TenantID,
		EntityID: row.EntityID,
		Name:     row.Name,
		Type:     DeviceType(row.DeviceType),
	}, nil
}

// UpsertSmartDevice implements Store
func (s *DBStore) UpsertSmartDevice(ctx context.Context, device SmartDevice) error {
	if _, err := ParseDeviceType(string(device.Type)); err != nil {
		return err
	}

	ctx, span := s.startSpan(ctx, "store.UpsertSmartDevice",
		otel.AttrTenantID.String(device.TenantID), otel.AttrEntityID.Int64(device.EntityID))
	defer span.End()

	err := sqlc.New(s.pool).UpsertSmartDevice(ctx, sqlc.UpsertSmartDeviceParams{
		TenantID:   device.TenantID,
		EntityID:   device.EntityID,
		Name:       device.Name,
		DeviceType: string(device.Type),
	})
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to upsert smart device: %w", err)
	}
	return nil
}

// InsertMarketListings implements Store using COPY
func (s *DBStore) InsertMarketListings(ctx context.Context, tenantID string, listings []MarketListing) (int64, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	ctx, span := s.startSpan(ctx, "store.InsertMarketListings", otel.AttrTenantID.String(tenantID))
	defer span.End()

	params := make([]sqlc.InsertMarketListingsParams, 0, len(listings))
	for _, l := range listings {
		observed := l.ObservedAt
		if observed.IsZero() {
			observed = time.Now()
		}
		params = append(params, sqlc.InsertMarketListingsParams{
			TenantID:   tenantID,
			ShopName:   l.ShopName,
			ItemName:   l.ItemName,
			Quantity:   int32(l.Quantity),   //nolint:gosec // bounded by frame schema
			CostItem:   l.CostItem,
			CostAmount: int32(l.CostAmount), //nolint:gosec // bounded by frame schema
			Stock:      int32(l.Stock),      //nolint:gosec // bounded by frame schema
			ObservedAt: observed,
		})
	}

	n, err := sqlc.New(s.pool).InsertMarketListings(ctx, params)
	if err != nil {
		otel.RecordError(span, err)
		return 0, fmt.Errorf("failed to insert market listings: %w", err)
	}
	span.SetAttributes(otel.AttrResultCount.Int64(n))
	return n, nil
}

// SearchMarket implements Store
func (s *DBStore) SearchMarket(ctx context.Context, tenantID, item string, limit int) ([]MarketListing, error) {
	ctx, span := s.startSpan(ctx, "store.SearchMarket",
		otel.AttrTenantID.String(tenantID), attribute.String("market.item", item))
	defer span.End()

	rows, err := sqlc.New(s.pool).SearchMarket(ctx, sqlc.SearchMarketParams{
		TenantID: tenantID,
		Item:     item,
		RowLimit: int32(limit), //nolint:gosec // clamped by callers
	})
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to search market: %w", err)
	}
	result := make([]MarketListing, 0, len(rows))
	for _, row := range rows {
		result = append(result, MarketListing{
			ID:         row.ID,
			TenantID:   row.TenantID,
			ShopName:   row.ShopName,
			ItemName:   row.ItemName,
			Quantity:   int(row.Quantity),
			CostItem:   row.CostItem,
			CostAmount: int(row.CostAmount),
			Stock:      int(row.Stock),
			ObservedAt: row.ObservedAt,
		})
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(result)))
	return result, nil
}

// Leaderboard implements Store
func (s *DBStore) Leaderboard(ctx context.Context, tenantID string, since time.Time, limit int) ([]LeaderboardEntry, error) {
	ctx, span := s.startSpan(ctx, "store.Leaderboard", otel.AttrTenantID.String(tenantID))
	defer span.End()

	rows, err := sqlc.New(s.pool).Leaderboard(ctx, sqlc.LeaderboardParams{
		Now:      time.Now(),
		Since:    since,
		TenantID: tenantID,
		RowLimit: int32(limit), //nolint:gosec // clamped by callers
	})
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to compute leaderboard: %w", err)
	}
	result := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		result = append(result, LeaderboardEntry{
			PlayerID: row.PlayerID,
			Name:     row.Name,
			Playtime: time.Duration(row.Seconds) * time.Second,
		})
	}
	return result, nil
}

func tenantFromRow(row sqlc.ServerConfig) TenantConfig {
	cfg := TenantConfig{
		TenantID:       row.TenantID,
		ServerIP:       derefString(row.ServerIp),
		PlayerID:       derefString(row.PlayerID),
		RosterSourceID: derefString(row.RosterSourceID),
	}
	if row.ServerPort != nil {
		cfg.ServerPort = int(*row.ServerPort)
	}
	if row.PlayerToken != nil {
		cfg.PlayerToken = *row.PlayerToken
	}
	return cfg
}

func playerFromRow(row sqlc.Player) Player {
	return Player{
		ID:         row.ID,
		TenantID:   row.TenantID,
		SteamID:    derefString(row.SteamID),
		Name:       row.Name,
		IsOnline:   row.IsOnline,
		LastSeen:   derefTime(row.LastSeen),
		IsTeammate: row.IsTeammate,
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
