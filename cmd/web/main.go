package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/quitq-dev/quitq/internal/cli/client"
	"github.com/quitq-dev/quitq/internal/config"
	"github.com/quitq-dev/quitq/internal/logger"
	"github.com/quitq-dev/quitq/internal/server"
	"github.com/quitq-dev/quitq/internal/session"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	storage, err := session.OpenSQLiteStorage(cfg.Session.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("failed to open session database %s: %w", cfg.Session.DatabasePath, err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing session database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pages answer with the loading view until the saved session is restored
	store := session.NewStore(storage, log)
	go store.Initialize(ctx)

	opts := []client.Option{client.WithLogger(log)}
	if cfg.API.Cache {
		opts = append(opts, client.WithCache())
	}
	api := client.New(cfg.API.URL, store, opts...)

	srv := server.New(cfg, log, store, api)

	log.Info().Str("version", version).Msg("Starting QuitQ web storefront...")

	return srv.Start(ctx)
}
