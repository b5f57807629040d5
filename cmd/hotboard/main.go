package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotboard-io/hotboard/internal/app"
	"github.com/hotboard-io/hotboard/internal/config"
	"github.com/hotboard-io/hotboard/internal/storage"
)

func main() {
	mode := flag.String("mode", "", "Service mode (serve, collect, analyze)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := storage.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, &logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing redis client")
		}
	}()

	var database *storage.DB

	if cfg.PostgresDSN != "" {
		database, err = storage.NewDB(ctx, cfg.PostgresDSN, cfg.DBMaxConnections, cfg.DBMinConnections, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	} else {
		logger.Warn().Msg("no postgres DSN configured, archive disabled")
	}

	application, err := app.New(cfg, store, database, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to wire application")
	}

	// Start health server in background
	go func() {
		if err := application.StartHealthServer(ctx); err != nil {
			logger.Error().Err(err).Msg("health check server error")
		}
	}()

	if err := runMode(ctx, application, *mode); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode string) error {
	switch mode {
	case "serve":
		return application.RunServe(ctx)
	case "collect":
		return application.RunCollect(ctx)
	case "analyze":
		return application.RunAnalyze(ctx)
	default:
		log.Fatalf("Usage: %s --mode=[serve|collect|analyze]", os.Args[0])

		return nil
	}
}
