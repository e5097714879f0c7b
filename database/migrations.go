// Package database embeds the schema migrations and provides the tooling to run them.
package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the pgx5:// scheme with golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator is the interface for the migration tooling
type Migrator interface {
	Up() error
	Down() error
	Steps(int) error
	Version() (uint, bool, error)
	Close() (error, error)
}

// migrationsSource returns a migration source driver over the embedded files
func migrationsSource() (source.Driver, error) {
	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return d, nil
}

// NewFromConnectionString returns a new migration instance for a postgres:// connection string
func NewFromConnectionString(connString string) (Migrator, error) {
	d, err := migrationsSource()
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", d, toMigrateURL(connString))
}

// toMigrateURL rewrites libpq style URLs to the scheme the pgx/v5 migrate driver registers
func toMigrateURL(connString string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(connString, prefix) {
			return "pgx5://" + strings.TrimPrefix(connString, prefix)
		}
	}
	return connString
}

// MigrateUp applies num pending migrations, or all of them when num is 0.
// It reports whether anything changed.
func MigrateUp(m Migrator, num uint) (bool, error) {
	var err error
	if num == 0 {
		err = m.Up()
	} else {
		err = m.Steps(int(num))
	}
	return ignoreNoChange(err)
}

// MigrateDown reverts num migrations, or all of them when num is 0.
func MigrateDown(m Migrator, num uint) (bool, error) {
	var err error
	if num == 0 {
		err = m.Down()
	} else {
		err = m.Steps(-int(num))
	}
	return ignoreNoChange(err)
}

func ignoreNoChange(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
