package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mopo922/canvas-importer/internal/config"
	"github.com/mopo922/canvas-importer/internal/database"
)

func newMigrateCmd(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the destination database schema.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations.",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(log, func(db *database.DB) error {
					return db.RunMigrations(migrationsPath())
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration.",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(log, func(db *database.DB) error {
					return db.MigrateDown(migrationsPath())
				})
			},
		},
	)

	return cmd
}

func withDB(log zerolog.Logger, fn func(*database.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect to destination database: %w", err)
	}
	defer db.Close()

	return fn(db)
}

func migrationsPath() string {
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		return path
	}
	return "./migrations"
}
