package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mopo922/canvas-importer/internal/api"
	"github.com/mopo922/canvas-importer/internal/config"
	"github.com/mopo922/canvas-importer/internal/database"
	"github.com/mopo922/canvas-importer/internal/importer"
	"github.com/mopo922/canvas-importer/internal/platform"
	"github.com/mopo922/canvas-importer/internal/repository"
	"github.com/mopo922/canvas-importer/internal/wordpress"
)

func newServeCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for triggering and inspecting imports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(log)
		},
	}
}

func runServe(log zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect to destination database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(migrationsPath()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	repos := repository.New(db)

	// Each triggered import builds its own platform adapter so reference
	// caches stay scoped to one run.
	start := func(src api.ImportSource, jobID string) {
		wp := wordpress.New(wordpress.Config{
			BaseURL:      platform.NormalizeBaseURL(src.URL),
			Username:     src.Username,
			Password:     src.Password,
			HTTPTimeout:  cfg.Import.HTTPTimeout,
			Layout:       cfg.Import.PostLayout,
			StorageRoot:  cfg.Import.StorageRoot,
			PublicPrefix: cfg.Import.PublicPrefix,
		}, repos.User, log)

		imp := importer.New(wp, repos, log)
		imp.SourceURL = src.URL
		imp.JobID = jobID

		if _, err := imp.Run(context.Background()); err != nil {
			log.Error().Err(err).Str("job_id", jobID).Msg("Import run failed")
		}
	}

	importHandler := api.NewImportHandler(repos.Job, start, log)
	router := api.NewRouter(importHandler, db, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}
