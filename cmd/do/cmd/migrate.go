package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/loginapi/internal/config"
	"github.com/templui/loginapi/internal/db"
	"github.com/templui/loginapi/internal/logger"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the users schema",
	}

	cmd.AddCommand(migrateStep("up", "Apply all pending migrations", db.RunMigrations))
	cmd.AddCommand(migrateStep("down", "Roll back the latest migration", db.MigrateDown))
	cmd.AddCommand(migrateStep("status", "Show applied and pending migrations", db.MigrationStatus))
	return cmd
}

func migrateStep(use, short string, fn func(*sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), fn)
		},
	}
}

func withDatabase(ctx context.Context, fn func(*sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	logger.Init(logger.Options{
		Development: true,
		Level:       cfg.LogLevel,
	})

	database, err := db.Init(ctx, cfg.DSN(), db.PoolOptions{
		MaxOpenConns: 1,
		PingTimeout:  cfg.DBConnectTimeout + cfg.DBQueryTimeout,
	})
	if err != nil {
		if hint := db.Hint(err); hint != "" {
			return fmt.Errorf("%w (%s)", err, hint)
		}
		return err
	}
	defer db.Close(database)

	return fn(database.DB)
}
