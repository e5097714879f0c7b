package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/rust-tracker/internal/config"
	"github.com/stacklok/rust-tracker/internal/db"
	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/store"
)

// DatabaseFactory creates the PostgreSQL backed store
type DatabaseFactory struct {
	pool  *pgxpool.Pool
	store *store.DBStore
}

var _ Factory = (*DatabaseFactory)(nil)

// NewDatabaseFactory establishes a connection pool to the configured database.
// A nil tracer disables store spans.
func NewDatabaseFactory(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (*DatabaseFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Database == nil {
		return nil, fmt.Errorf("database configuration is required for database storage type")
	}

	logger.Info("Creating database-backed storage factory")

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	return newDatabaseFactoryFromPool(pool, tracer), nil
}

func newDatabaseFactoryFromPool(pool *pgxpool.Pool, tracer trace.Tracer) *DatabaseFactory {
	var opts []store.DBOption
	if tracer != nil {
		opts = append(opts, store.WithTracer(tracer))
	}
	return &DatabaseFactory{
		pool:  pool,
		store: store.NewDBStore(pool, opts...),
	}
}

// CreateStore implements Factory
func (d *DatabaseFactory) CreateStore(_ context.Context) (store.Store, error) {
	if d.store == nil {
		return nil, fmt.Errorf("database factory is closed")
	}
	return d.store, nil
}

// Cleanup closes the connection pool
func (d *DatabaseFactory) Cleanup() {
	if d.pool != nil {
		logger.Info("Closing database connection pool")
		d.pool.Close()
		d.pool = nil
		d.store = nil
	}
}

// MemoryFactory creates the in-process store used for development
type MemoryFactory struct {
	store *store.MemoryStore
}

var _ Factory = (*MemoryFactory)(nil)

// NewMemoryFactory creates a factory around an empty in-memory store
func NewMemoryFactory() *MemoryFactory {
	logger.Warn("Using in-memory storage; tracker state is lost on restart")
	return &MemoryFactory{store: store.NewMemoryStore()}
}

// CreateStore implements Factory
func (m *MemoryFactory) CreateStore(_ context.Context) (store.Store, error) {
	return m.store, nil
}

// Cleanup is a no-op
func (*MemoryFactory) Cleanup() {}
