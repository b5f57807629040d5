// Package app wires the service components and runs the selected mode.
package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/hotboard-io/hotboard/internal/acquire"
	"github.com/hotboard-io/hotboard/internal/analysis"
	"github.com/hotboard-io/hotboard/internal/analysis/cooccur"
	"github.com/hotboard-io/hotboard/internal/analysis/correlate"
	"github.com/hotboard-io/hotboard/internal/analysis/forecast"
	"github.com/hotboard-io/hotboard/internal/analysis/history"
	"github.com/hotboard-io/hotboard/internal/analysis/keywords"
	"github.com/hotboard-io/hotboard/internal/config"
	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
	"github.com/hotboard-io/hotboard/internal/notify"
	"github.com/hotboard-io/hotboard/internal/observability"
	"github.com/hotboard-io/hotboard/internal/platform/worker"
	"github.com/hotboard-io/hotboard/internal/server"
	"github.com/hotboard-io/hotboard/internal/storage"
)

// App holds the wired components shared by the run modes.
type App struct {
	cfg      *config.Config
	store    *storage.Redis
	database *storage.DB
	engine   *analysis.Engine
	fetchers []acquire.Fetcher
	notifier *notify.DingTalk
	logger   *zerolog.Logger
}

// New wires an App. database may be nil when no archive is configured.
func New(cfg *config.Config, store *storage.Redis, database *storage.DB, logger *zerolog.Logger) (*App, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	toolkit, err := lexical.NewGse(logger)
	if err != nil {
		return nil, fmt.Errorf("init lexical toolkit: %w", err)
	}

	dict := lexical.LoadDictionary(cfg.StopwordsPath, cfg.CategoryDictPath, logger)

	fetchers := acquire.Registry(cfg.CollectHTTPTimeout)

	platforms := make([]string, 0, len(fetchers))
	for _, f := range fetchers {
		platforms = append(platforms, f.Name())
	}

	rng := newRand(cfg.ForecastSeed)

	engine := analysis.New(
		store,
		platforms,
		keywords.NewExtractor(toolkit, dict),
		correlate.New(toolkit, cfg.SimilarityMin),
		cooccur.New(toolkit, dict),
		history.NewDetector(toolkit, dict),
		forecast.New(toolkit, dict, rng),
		rng,
		analysis.Options{
			CacheTTL:        cfg.CacheTTL,
			HistoryDays:     cfg.HistoryDays,
			SnapshotTimeout: cfg.SnapshotReadLimit,
			Location:        location,
		},
		logger,
	)

	return &App{
		cfg:      cfg,
		store:    store,
		database: database,
		engine:   engine,
		fetchers: fetchers,
		notifier: notify.NewDingTalk(cfg.DingTalkWebhookURL, cfg.DingTalkSecret, cfg.NotifyTimeout, logger),
		logger:   logger,
	}, nil
}

// newRand builds the shared randomness source. A zero seed keeps a
// time-seeded generator; any other value pins the sequence.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// StartHealthServer serves /healthz, /readyz and /metrics until ctx is
// canceled.
func (a *App) StartHealthServer(ctx context.Context) error {
	pingers := map[string]observability.Pinger{"redis": a.store}
	if a.database != nil {
		pingers["postgres"] = pinger{a.database}
	}

	return observability.NewServer(pingers, a.cfg.HealthPort, a.logger).Start(ctx)
}

type pinger struct {
	db *storage.DB
}

func (p pinger) Ping(ctx context.Context) error {
	return p.db.Pool.Ping(ctx)
}

// RunServe runs the public API server.
func (a *App) RunServe(ctx context.Context) error {
	// A typed nil would defeat the server's nil check.
	var srv *server.Server
	if a.database != nil {
		srv = server.New(a.engine, a.database, a.cfg.HTTPPort, a.logger)
	} else {
		srv = server.New(a.engine, nil, a.cfg.HTTPPort, a.logger)
	}

	return srv.Start(ctx)
}

// RunCollect runs the platform collection loop.
func (a *App) RunCollect(ctx context.Context) error {
	var collector *acquire.Collector
	if a.database != nil {
		collector = acquire.NewCollector(a.fetchers, a.store, a.database, a.cfg.CollectFetchRPS, a.logger)
	} else {
		collector = acquire.NewCollector(a.fetchers, a.store, nil, a.cfg.CollectFetchRPS, a.logger)
	}

	return worker.Run(ctx, worker.Config{
		Name:       "collect",
		Interval:   a.cfg.CollectTickEvery,
		RunOnStart: true,
		Logger:     a.logger,
		OnTick: func(ctx context.Context) {
			defer worker.RecoverPanic(a.logger, "collect tick")

			date := a.engine.Today()

			succeeded, failed, err := collector.CollectAll(ctx, date)
			if err != nil {
				a.logger.Error().Err(err).Str("date", date).Msg("collection run failed")

				return
			}

			observability.SnapshotPlatforms.Set(float64(succeeded))

			// Results derived from the previous snapshot are stale now.
			a.engine.InvalidateDay(ctx, date)

			if err := a.notifier.CollectSummary(ctx, date, succeeded, len(a.fetchers), failed); err != nil {
				a.logger.Warn().Err(err).Msg("collect summary notification failed")
			}
		},
	})
}

// RunAnalyze runs the analysis precompute loop, warming the day's
// cached products so API reads stay cheap.
func (a *App) RunAnalyze(ctx context.Context) error {
	return worker.Run(ctx, worker.Config{
		Name:       "analyze",
		Interval:   a.cfg.AnalyzeTickEvery,
		RunOnStart: true,
		Logger:     a.logger,
		OnTick: func(ctx context.Context) {
			defer worker.RecoverPanic(a.logger, "analyze tick")

			a.warmCaches(ctx, a.engine.Today())
		},
	})
}

func (a *App) warmCaches(ctx context.Context, date string) {
	main, err := a.engine.MainThemes(ctx, date, true)
	if err == nil && main.Status == domain.StatusError {
		err = fmt.Errorf("main themes: %s", main.Message)
	}

	if err != nil {
		a.logger.Error().Err(err).Str("date", date).Msg("analysis run failed")

		if nerr := a.notifier.AnalysisError(ctx, date, err); nerr != nil {
			a.logger.Warn().Err(nerr).Msg("analysis error notification failed")
		}

		return
	}

	if _, err := a.engine.PlatformComparison(ctx, date, true); err != nil {
		a.logger.Warn().Err(err).Msg("platform comparison warmup failed")
	}

	if _, err := a.engine.CrossPlatform(ctx, date, true); err != nil {
		a.logger.Warn().Err(err).Msg("cross platform warmup failed")
	}

	if _, err := a.engine.Advanced(ctx, date, true); err != nil {
		a.logger.Warn().Err(err).Msg("advanced analysis warmup failed")
	}

	if _, err := a.engine.KeywordCloud(ctx, date, "", 0, true); err != nil {
		a.logger.Warn().Err(err).Msg("keyword cloud warmup failed")
	}

	if _, err := a.engine.Visualization(ctx, date, nil, true); err != nil {
		a.logger.Warn().Err(err).Msg("data visualization warmup failed")
	}

	if _, err := a.engine.Prediction(ctx, date, true); err != nil {
		a.logger.Warn().Err(err).Msg("prediction warmup failed")
	}

	a.logger.Info().Str("date", date).Msg("analysis caches warmed")
}
