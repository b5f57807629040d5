// Package worker provides the ticker loop used by the collect and
// analyze run modes.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config configures a single-ticker worker loop.
type Config struct {
	// Name identifies the worker for logging.
	Name string

	// Interval is the tick period.
	Interval time.Duration

	// OnTick does the work. Errors are the tick's own business; the
	// loop only stops on context cancellation.
	OnTick func(ctx context.Context)

	// RunOnStart fires OnTick once before the first ticker interval.
	RunOnStart bool

	// Logger for the worker.
	Logger *zerolog.Logger
}

// Run executes the loop until ctx is canceled. Returns a wrapped
// context error on cancellation.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	logger.Info().Str("worker", cfg.Name).Dur("interval", cfg.Interval).Msg("starting worker loop")

	defer logger.Info().Str("worker", cfg.Name).Msg("worker loop stopped")

	if cfg.RunOnStart && cfg.OnTick != nil {
		cfg.OnTick(ctx)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("worker loop %s: %w", cfg.Name, ctx.Err())
		case <-ticker.C:
			logger.Debug().Str("worker", cfg.Name).Msg("ticker fired")
			cfg.OnTick(ctx)
		}
	}
}

// RecoverPanic recovers from panics and logs them.
// Use as: defer worker.RecoverPanic(logger, "operation name")
func RecoverPanic(logger *zerolog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error().
			Interface("panic", r).
			Str("operation", operation).
			Msg("recovered from panic")
	}
}
