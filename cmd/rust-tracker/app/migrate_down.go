package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/rust-tracker/database"
	"github.com/stacklok/rust-tracker/internal/logger"
)

func newMigrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Migrate the database down",
		Long: `Migrate the database schema down by reverting migrations.
WARNING: This operation can result in data loss. Use with caution.

Examples:
  # Migrate down by 1 step
  rust-tracker migrate down --config config.yaml --num-steps 1 --yes

  # Migrate down all the way (WARNING: destroys all data)
  rust-tracker migrate down --config config.yaml --yes`,
		RunE: runMigrateDown,
	}
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	flags, err := readMigrationFlags(cmd)
	if err != nil {
		return err
	}

	_, m, err := openMigrator(flags.configPath)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if !flags.yes {
		prompt := "WARNING: This will migrate down ALL steps and may result in complete data loss. Continue?"
		if flags.numSteps > 0 {
			prompt = fmt.Sprintf("WARNING: This will migrate down %d step(s) and may result in data loss. Continue?",
				flags.numSteps)
		}
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
			return fmt.Errorf("migration cancelled by user")
		}
	}

	if flags.numSteps == 0 {
		logger.Warn("Migrating down all steps - this will remove all schema!")
	} else {
		logger.Infof("Migrating down %d step(s)...", flags.numSteps)
	}

	changed, err := database.MigrateDown(m, flags.numSteps)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if !changed {
		logger.Info("No migrations to revert - database is already at the oldest version")
	}

	displayMigrationVersion(m)
	return nil
}
