package acquire

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
	"github.com/hotboard-io/hotboard/internal/observability"
)

// snapshotStore receives the fetched lists.
type snapshotStore interface {
	SetSnapshot(ctx context.Context, platform, date string, items []domain.Item) error
}

// archive keeps the long-term copy. Optional; nil disables archiving.
type archive interface {
	UpsertItems(ctx context.Context, platform, date string, items []domain.Item) error
}

// Collector runs every registered fetcher and persists the results.
// Platform failures are independent: one broken source never blocks
// the rest of the day's snapshot.
type Collector struct {
	fetchers []Fetcher
	store    snapshotStore
	archive  archive
	limiter  *rate.Limiter
	logger   *zerolog.Logger
}

// NewCollector wires a collector. rps throttles outbound fetches
// across all platforms.
func NewCollector(
	fetchers []Fetcher,
	store snapshotStore,
	arch archive,
	rps float64,
	logger *zerolog.Logger,
) *Collector {
	return &Collector{
		fetchers: fetchers,
		store:    store,
		archive:  arch,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		logger:   logger,
	}
}

// CollectAll fetches every platform for the given date. It returns the
// number of platforms that produced a non-empty list and the names of
// those that did not.
func (c *Collector) CollectAll(ctx context.Context, date string) (int, []string, error) {
	var g errgroup.Group

	failures := make(chan string, len(c.fetchers))

	for _, f := range c.fetchers {
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}

			if !c.collectOne(ctx, f, date) {
				failures <- f.Name()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, nil, err
	}

	close(failures)

	failed := make([]string, 0, len(c.fetchers))
	for name := range failures {
		failed = append(failed, name)
	}

	sort.Strings(failed)

	return len(c.fetchers) - len(failed), failed, nil
}

// collectOne fetches a single platform, drops malformed entries and
// persists the remainder. Returns whether anything was stored.
func (c *Collector) collectOne(ctx context.Context, f Fetcher, date string) bool {
	logger := c.logger.With().Str("platform", f.Name()).Str("date", date).Logger()

	items, err := f.Fetch(ctx)
	if err != nil {
		observability.CollectErrors.WithLabelValues(f.Name()).Inc()
		logger.Error().Err(err).Msg("fetch failed")

		return false
	}

	valid := items[:0]

	for _, it := range items {
		// Fold full-width forms so titles from different platforms
		// compare cleanly downstream.
		it.Title = lexical.NormalizeTitle(it.Title)

		if !it.Valid() {
			logger.Warn().Str("title", it.Title).Msg("skipping malformed item")
			continue
		}

		valid = append(valid, it)
	}

	if len(valid) == 0 {
		logger.Warn().Msg("platform returned no usable items")

		return false
	}

	if err := c.store.SetSnapshot(ctx, f.Name(), date, valid); err != nil {
		logger.Error().Err(err).Msg("store snapshot")

		return false
	}

	if c.archive != nil {
		if err := c.archive.UpsertItems(ctx, f.Name(), date, valid); err != nil {
			logger.Error().Err(err).Msg("archive items")
		}
	}

	observability.CollectedItems.WithLabelValues(f.Name()).Add(float64(len(valid)))
	logger.Info().Int("count", len(valid)).Msg("snapshot stored")

	return true
}
