package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/rust-tracker/database"
	"github.com/stacklok/rust-tracker/internal/logger"
)

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending database migrations",
		Long: `Apply pending database migrations to bring the schema up to date.
The database connection parameters are read from the config file.`,
		RunE: runMigrateUp,
	}
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	flags, err := readMigrationFlags(cmd)
	if err != nil {
		return err
	}

	cfg, m, err := openMigrator(flags.configPath)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if !flags.yes {
		prompt := fmt.Sprintf("Apply migrations to %s@%s:%d/%s?",
			cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
			logger.Info("Migration cancelled by user")
			return nil
		}
	}

	logger.Info("Applying database migrations...")
	changed, err := database.MigrateUp(m, flags.numSteps)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if !changed {
		logger.Info("No pending migrations")
	}

	displayMigrationVersion(m)
	return nil
}
