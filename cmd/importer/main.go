package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mopo922/canvas-importer/pkg/logger"
)

func main() {
	// A missing .env is fine; config falls back to defaults
	_ = godotenv.Load()

	log := logger.New()

	if err := newRootCmd(log).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(log zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "canvas-importer",
		Short:         "Import posts from another blog platform into Canvas",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newImportCmd(log),
		newServeCmd(log),
		newMigrateCmd(log),
	)

	return root
}
