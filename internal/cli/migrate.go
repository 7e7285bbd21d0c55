package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/telemetry"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE:  runMigrate,
}

var migrateStatus bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "print migration status instead of migrating")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if migrateStatus {
		return db.MigrationStatus(ctx, sqlDB)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return err
	}
	telemetry.Info("migrate.complete", nil)
	return nil
}
