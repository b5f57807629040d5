// Package analysis orchestrates the analyzers over stored snapshots
// and serves cached result envelopes.
package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hotboard-io/hotboard/internal/analysis/cooccur"
	"github.com/hotboard-io/hotboard/internal/analysis/correlate"
	"github.com/hotboard-io/hotboard/internal/analysis/forecast"
	"github.com/hotboard-io/hotboard/internal/analysis/history"
	"github.com/hotboard-io/hotboard/internal/analysis/keywords"
	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/observability"
)

// Cache key templates. They mirror the snapshot producer's layout so a
// rebuilt service keeps reading existing entries.
const (
	trendKeyFmt         = "analysis:trend:%s:%s"
	keywordCloudKeyFmt  = "analysis:keyword_cloud:%s"
	forecastKeyFmt      = "analysis:trend_forecast:%s:%s"
	predictionKeyFmt    = "analysis:prediction:%s"
	visualizationKeyFmt = "analysis:data_visualization:%s"
)

const (
	hotKeywordCount = 50
	cloudSize       = 200

	// vizPlatformCap and vizKeywordCount bound the heat distribution
	// matrix.
	vizPlatformCap  = 8
	vizKeywordCount = 10
)

// store is the engine's view of the result/snapshot cache.
type store interface {
	GetSnapshot(ctx context.Context, platform, date string) ([]domain.Item, error)
	GetResult(ctx context.Context, key string, v any) (bool, error)
	SetResult(ctx context.Context, key string, v any, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Engine computes and caches every analysis product. All operations
// return an envelope with a status field; missing data is a retriable
// state, never a Go error.
type Engine struct {
	store     store
	platforms []string

	extractor  *keywords.Extractor
	correlator *correlate.Correlator
	grouper    *cooccur.Grouper
	detector   *history.Detector
	projector  *forecast.Projector
	rng        forecast.Rand

	cacheTTL        time.Duration
	historyDays     int
	snapshotTimeout time.Duration
	location        *time.Location
	logger          *zerolog.Logger
	now             func() time.Time
}

// Options carries the engine's tunables.
type Options struct {
	CacheTTL    time.Duration
	HistoryDays int

	// SnapshotTimeout bounds each per-platform store read. Zero means
	// no bound beyond the caller's context.
	SnapshotTimeout time.Duration

	Location *time.Location
}

// New wires an Engine. platforms is the full registry of platform ids;
// snapshots missing for some of them are normal.
func New(
	st store,
	platforms []string,
	extractor *keywords.Extractor,
	correlator *correlate.Correlator,
	grouper *cooccur.Grouper,
	detector *history.Detector,
	projector *forecast.Projector,
	rng forecast.Rand,
	opts Options,
	logger *zerolog.Logger,
) *Engine {
	sorted := append([]string(nil), platforms...)
	sort.Strings(sorted)

	return &Engine{
		store:           st,
		platforms:       sorted,
		extractor:       extractor,
		correlator:      correlator,
		grouper:         grouper,
		detector:        detector,
		projector:       projector,
		rng:             rng,
		cacheTTL:        opts.CacheTTL,
		historyDays:     opts.HistoryDays,
		snapshotTimeout: opts.SnapshotTimeout,
		location:        opts.Location,
		logger:          logger,
		now:             time.Now,
	}
}

// Today resolves the current date in the operational timezone.
func (e *Engine) Today() string {
	return e.now().In(e.location).Format("2006-01-02")
}

func (e *Engine) updatedAt() string {
	return e.now().In(e.location).Format("2006-01-02 15:04:05")
}

// loadSnapshot reads every platform's list for one date concurrently.
// A platform whose read fails is treated as having no data for the day.
func (e *Engine) loadSnapshot(ctx context.Context, date string) domain.DailySnapshot {
	var (
		mu       sync.Mutex
		snapshot = make(domain.DailySnapshot)
		g        errgroup.Group
	)

	for _, platform := range e.platforms {
		g.Go(func() error {
			readCtx := ctx

			if e.snapshotTimeout > 0 {
				var cancel context.CancelFunc

				readCtx, cancel = context.WithTimeout(ctx, e.snapshotTimeout)
				defer cancel()
			}

			items, err := e.store.GetSnapshot(readCtx, platform, date)
			if err != nil {
				e.logger.Warn().Err(err).Str("platform", platform).Str("date", date).Msg("snapshot read failed")

				return nil
			}

			if len(items) == 0 {
				return nil
			}

			mu.Lock()
			snapshot[platform] = items
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return snapshot
}

// loadWindow reads the trailing days of snapshots ending at endDate.
// Days without any data are omitted.
func (e *Engine) loadWindow(ctx context.Context, endDate string, days int) domain.HistoricalWindow {
	end, err := time.ParseInLocation("2006-01-02", endDate, e.location)
	if err != nil {
		e.logger.Warn().Err(err).Str("date", endDate).Msg("unparseable window end date")

		return nil
	}

	window := make(domain.HistoricalWindow)

	for i := 0; i < days; i++ {
		date := end.AddDate(0, 0, -i).Format("2006-01-02")

		snapshot := e.loadSnapshot(ctx, date)
		if !snapshot.Empty() {
			window[date] = snapshot
		}
	}

	return window
}

// cached runs the compute function behind a cache-aside lookup.
// refresh bypasses and replaces the cached entry.
func cached[T any](ctx context.Context, e *Engine, key, kind string, refresh bool, compute func() (T, bool)) (T, error) {
	if refresh {
		if err := e.store.Invalidate(ctx, key); err != nil {
			e.logger.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
		}
	} else {
		var cachedResult T

		found, err := e.store.GetResult(ctx, key, &cachedResult)
		if err != nil {
			e.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}

		if found {
			observability.AnalysisCacheHits.WithLabelValues(kind, "hit").Inc()

			return cachedResult, nil
		}
	}

	observability.AnalysisCacheHits.WithLabelValues(kind, "miss").Inc()

	started := e.now()

	result, cacheable := compute()

	observability.AnalysisDuration.WithLabelValues(kind).Observe(e.now().Sub(started).Seconds())

	if cacheable {
		if err := e.store.SetResult(ctx, key, result, e.cacheTTL); err != nil {
			e.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")

			return result, nil
		}
	}

	return result, nil
}

func (e *Engine) errorEnvelope(date, message string) Envelope {
	return Envelope{
		Status:    domain.StatusError,
		Message:   message,
		Date:      date,
		UpdatedAt: e.updatedAt(),
	}
}

// MainThemes produces the day's hot keywords, category distribution and
// co-occurring word groups.
func (e *Engine) MainThemes(ctx context.Context, date string, refresh bool) (MainThemesResult, error) {
	key := fmt.Sprintf(trendKeyFmt, date, "main")

	return cached(ctx, e, key, "main", refresh, func() (MainThemesResult, bool) {
		snapshot := e.loadSnapshot(ctx, date)
		if snapshot.Empty() {
			return MainThemesResult{Envelope: e.errorEnvelope(date, "暂无可用数据进行分析")}, false
		}

		texts := snapshot.Texts()

		return MainThemesResult{
			Envelope: Envelope{
				Status:       domain.StatusSuccess,
				Date:         date,
				AnalysisType: "main",
				UpdatedAt:    e.updatedAt(),
			},
			HotKeywords:        e.extractor.Extract(texts, hotKeywordCount),
			TopicDistribution:  e.extractor.Categorize(texts),
			RelatedTopicGroups: e.grouper.Group(snapshot),
		}, true
	})
}

// PlatformComparison produces per-platform stats, the heat leaderboard
// and the update time-of-day distribution.
func (e *Engine) PlatformComparison(ctx context.Context, date string, refresh bool) (PlatformComparisonResult, error) {
	key := fmt.Sprintf(trendKeyFmt, date, "platform_comparison")

	return cached(ctx, e, key, "platform_comparison", refresh, func() (PlatformComparisonResult, bool) {
		snapshot := e.loadSnapshot(ctx, date)
		if snapshot.Empty() {
			return PlatformComparisonResult{Envelope: e.errorEnvelope(date, "暂无可用数据进行平台对比分析")}, false
		}

		return PlatformComparisonResult{
			Envelope: Envelope{
				Status:       domain.StatusSuccess,
				Date:         date,
				AnalysisType: "platform",
				UpdatedAt:    e.updatedAt(),
			},
			PlatformStats:    e.platformStats(snapshot),
			PlatformRankings: e.platformRankings(snapshot),
			UpdateFrequency:  e.updateFrequency(snapshot),
		}, true
	})
}

// CrossPlatform produces the cross-platform topic clusters.
func (e *Engine) CrossPlatform(ctx context.Context, date string, refresh bool) (CrossPlatformResult, error) {
	key := fmt.Sprintf(trendKeyFmt, date, "cross_platform")

	return cached(ctx, e, key, "cross_platform", refresh, func() (CrossPlatformResult, bool) {
		snapshot := e.loadSnapshot(ctx, date)
		if snapshot.Empty() {
			return CrossPlatformResult{Envelope: e.errorEnvelope(date, "暂无可用数据进行跨平台分析")}, false
		}

		return CrossPlatformResult{
			Envelope: Envelope{
				Status:       domain.StatusSuccess,
				Date:         date,
				AnalysisType: "cross_platform",
				UpdatedAt:    e.updatedAt(),
			},
			CommonTopics: e.correlator.Correlate(snapshot),
		}, true
	})
}

// Advanced produces keyword clouds, the sentiment split and the short
// trend-evolution forecast.
func (e *Engine) Advanced(ctx context.Context, date string, refresh bool) (AdvancedResult, error) {
	key := fmt.Sprintf(trendKeyFmt, date, "advanced_analysis")

	return cached(ctx, e, key, "advanced_analysis", refresh, func() (AdvancedResult, bool) {
		snapshot := e.loadSnapshot(ctx, date)
		if snapshot.Empty() {
			return AdvancedResult{Envelope: e.errorEnvelope(date, "暂无可用数据进行高级分析")}, false
		}

		window := e.loadWindow(ctx, date, 2)

		return AdvancedResult{
			Envelope: Envelope{
				Status:       domain.StatusSuccess,
				Date:         date,
				AnalysisType: "advanced",
				UpdatedAt:    e.updatedAt(),
			},
			KeywordClouds:  e.extractor.Clouds(snapshot, cloudSize),
			Sentiment:      e.sentiment(snapshot),
			TrendEvolution: e.projector.Project(date, snapshot, window, 1, 1),
		}, true
	})
}

// KeywordCloud produces the keyword cloud map alone. category filters
// the cached map down to one section when set.
func (e *Engine) KeywordCloud(ctx context.Context, date, category string, keywordCount int, refresh bool) (KeywordCloudResult, error) {
	if keywordCount <= 0 {
		keywordCount = cloudSize
	}

	key := fmt.Sprintf(keywordCloudKeyFmt, date)

	result, err := cached(ctx, e, key, "keyword_cloud", refresh, func() (KeywordCloudResult, bool) {
		snapshot := e.loadSnapshot(ctx, date)
		if snapshot.Empty() {
			return KeywordCloudResult{Envelope: e.errorEnvelope(date, "暂无可用数据生成关键词云")}, false
		}

		return KeywordCloudResult{
			Envelope: Envelope{
				Status:    domain.StatusSuccess,
				Date:      date,
				UpdatedAt: e.updatedAt(),
			},
			KeywordClouds: e.extractor.Clouds(snapshot, keywordCount),
		}, true
	})
	if err != nil {
		return result, err
	}

	if category != "" && result.Status == domain.StatusSuccess {
		if cloud, ok := result.KeywordClouds[category]; ok {
			result.KeywordClouds = map[string][]domain.Keyword{category: cloud}
		}
	}

	return result, nil
}

// forecastSpan maps a requested time range onto history and forecast
// day counts. Unknown ranges behave like 24h.
func forecastSpan(timeRange string) (string, int, int) {
	switch timeRange {
	case "7d":
		return "7d", 7, 3
	case "30d":
		return "30d", 30, 7
	default:
		return "24h", 1, 1
	}
}

// TrendForecast projects the day's hottest topics over the requested
// time range.
func (e *Engine) TrendForecast(ctx context.Context, date, timeRange string, refresh bool) (TrendForecastResult, error) {
	timeRange, historyDays, forecastDays := forecastSpan(timeRange)

	key := fmt.Sprintf(forecastKeyFmt, date, timeRange)

	return cached(ctx, e, key, "trend_forecast", refresh, func() (TrendForecastResult, bool) {
		snapshot := e.loadSnapshot(ctx, date)
		if snapshot.Empty() {
			return TrendForecastResult{Envelope: e.errorEnvelope(date, "暂无可用数据进行趋势预测")}, false
		}

		window := e.loadWindow(ctx, date, historyDays)

		return TrendForecastResult{
			Envelope: Envelope{
				Status:    domain.StatusSuccess,
				Date:      date,
				UpdatedAt: e.updatedAt(),
			},
			TimeRange: timeRange,
			Forecasts: e.projector.Project(date, snapshot, window, historyDays, forecastDays),
		}, true
	})
}

// Visualization produces the topic heat distribution matrix: the top
// shared keywords against each platform's heat for them. platforms
// filters the cached matrix down to the named platforms when set.
func (e *Engine) Visualization(ctx context.Context, date string, platforms []string, refresh bool) (VisualizationResult, error) {
	key := fmt.Sprintf(visualizationKeyFmt, date)

	result, err := cached(ctx, e, key, "data_visualization", refresh, func() (VisualizationResult, bool) {
		snapshot := e.loadSnapshot(ctx, date)
		if snapshot.Empty() {
			return VisualizationResult{Envelope: e.errorEnvelope(date, "暂无可用数据进行可视化分析")}, false
		}

		return VisualizationResult{
			Envelope: Envelope{
				Status:    domain.StatusSuccess,
				Date:      date,
				UpdatedAt: e.updatedAt(),
			},
			TopicHeatDistribution: e.heatDistribution(snapshot),
			Platforms:             sortedPlatforms(snapshot),
		}, true
	})
	if err != nil {
		return result, err
	}

	if len(platforms) > 0 && result.Status == domain.StatusSuccess {
		result.TopicHeatDistribution = filterDistribution(result.TopicHeatDistribution, platforms)
		result.Platforms = result.TopicHeatDistribution.Platforms
	}

	return result, nil
}

// heatDistribution extracts each platform's top keywords and lays the
// strongest shared ones out as a keyword-by-platform weight matrix.
func (e *Engine) heatDistribution(snapshot domain.DailySnapshot) HeatDistribution {
	platforms := sortedPlatforms(snapshot)
	if len(platforms) > vizPlatformCap {
		platforms = platforms[:vizPlatformCap]
	}

	perPlatform := make(map[string][]domain.Keyword, len(platforms))
	used := make([]string, 0, len(platforms))

	for _, platform := range platforms {
		var titles []string

		for _, it := range snapshot[platform] {
			if it.Title != "" {
				titles = append(titles, it.Title)
			}
		}

		keywords := e.extractor.Extract(titles, vizKeywordCount)
		if len(keywords) == 0 {
			continue
		}

		perPlatform[platform] = keywords
		used = append(used, platform)
	}

	// Keyword score is platform spread times accumulated weight.
	type keywordStat struct {
		count  int
		weight float64
	}

	stats := make(map[string]*keywordStat)

	for _, platform := range used {
		for _, kw := range perPlatform[platform] {
			s := stats[kw.Text]
			if s == nil {
				s = &keywordStat{}
				stats[kw.Text] = s
			}

			s.count++
			s.weight += kw.Weight
		}
	}

	words := make([]string, 0, len(stats))
	for word := range stats {
		words = append(words, word)
	}

	sort.SliceStable(words, func(i, j int) bool {
		si := float64(stats[words[i]].count) * stats[words[i]].weight
		sj := float64(stats[words[j]].count) * stats[words[j]].weight

		if si != sj {
			return si > sj
		}

		return words[i] < words[j]
	})

	if len(words) > vizKeywordCount {
		words = words[:vizKeywordCount]
	}

	data := make([]KeywordHeat, 0, len(words))

	for _, word := range words {
		values := make([]float64, 0, len(used))

		for _, platform := range used {
			heat := 0.0

			for _, kw := range perPlatform[platform] {
				if kw.Text == word {
					heat = kw.Weight
					break
				}
			}

			values = append(values, heat)
		}

		data = append(data, KeywordHeat{Keyword: word, Values: values})
	}

	return HeatDistribution{Keywords: words, Platforms: used, Data: data}
}

// filterDistribution keeps only the requested platforms' columns.
func filterDistribution(dist HeatDistribution, platforms []string) HeatDistribution {
	requested := make(map[string]struct{}, len(platforms))
	for _, p := range platforms {
		requested[p] = struct{}{}
	}

	var indices []int

	kept := make([]string, 0, len(platforms))

	for i, platform := range dist.Platforms {
		if _, ok := requested[platform]; ok {
			indices = append(indices, i)
			kept = append(kept, platform)
		}
	}

	data := make([]KeywordHeat, 0, len(dist.Data))

	for _, row := range dist.Data {
		values := make([]float64, 0, len(indices))
		for _, i := range indices {
			values = append(values, row.Values[i])
		}

		data = append(data, KeywordHeat{Keyword: row.Keyword, Values: values})
	}

	return HeatDistribution{Keywords: dist.Keywords, Platforms: kept, Data: data}
}

// Prediction produces the multi-day trend report: rising and persistent
// topics, platform growth and keyword movement.
func (e *Engine) Prediction(ctx context.Context, date string, refresh bool) (PredictionResult, error) {
	key := fmt.Sprintf(predictionKeyFmt, date)

	return cached(ctx, e, key, "prediction", refresh, func() (PredictionResult, bool) {
		window := e.loadWindow(ctx, date, e.historyDays)
		if !window.Sufficient() {
			return PredictionResult{Envelope: Envelope{
				Status:    domain.StatusProcessing,
				Message:   "正在准备热点趋势预测",
				Date:      date,
				UpdatedAt: e.updatedAt(),
			}}, false
		}

		emerging, declining := e.detector.PlatformTrends(window)
		rising, fading := e.detector.KeywordTrends(window)

		return PredictionResult{
			Envelope: Envelope{
				Status:    domain.StatusSuccess,
				Date:      date,
				UpdatedAt: e.updatedAt(),
			},
			RisingTopics:     e.detector.Rising(window),
			PersistentTopics: e.detector.Persistent(window),
			PlatformTrends: PlatformTrendReport{
				Emerging:  emerging,
				Declining: declining,
			},
			KeywordPredictions: KeywordPredictionReport{
				Emerging: rising,
				Fading:   fading,
			},
			CategoryTrends:   e.detector.CategoryTrends(window),
			PredictionWindow: fmt.Sprintf("%d days", e.historyDays),
		}, true
	})
}

// InvalidateDay drops every cached product for one date, typically
// after a fresh collection run.
func (e *Engine) InvalidateDay(ctx context.Context, date string) {
	keys := []string{
		fmt.Sprintf(trendKeyFmt, date, "main"),
		fmt.Sprintf(trendKeyFmt, date, "platform_comparison"),
		fmt.Sprintf(trendKeyFmt, date, "cross_platform"),
		fmt.Sprintf(trendKeyFmt, date, "advanced_analysis"),
		fmt.Sprintf(keywordCloudKeyFmt, date),
		fmt.Sprintf(visualizationKeyFmt, date),
		fmt.Sprintf(forecastKeyFmt, date, "24h"),
		fmt.Sprintf(forecastKeyFmt, date, "7d"),
		fmt.Sprintf(forecastKeyFmt, date, "30d"),
		fmt.Sprintf(predictionKeyFmt, date),
	}

	for _, key := range keys {
		if err := e.store.Invalidate(ctx, key); err != nil {
			e.logger.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
		}
	}
}

func (e *Engine) platformStats(snapshot domain.DailySnapshot) map[string]domain.PlatformStats {
	stats := make(map[string]domain.PlatformStats, len(snapshot))

	for platform, items := range snapshot {
		var (
			titleRunes int
			withDesc   int
			withURL    int
		)

		for _, it := range items {
			titleRunes += len([]rune(it.Title))

			if it.Desc != "" {
				withDesc++
			}

			if it.URL != "" {
				withURL++
			}
		}

		avg := 0.0
		if len(items) > 0 {
			avg = float64(titleRunes) / float64(len(items))
		}

		stats[platform] = domain.PlatformStats{
			TotalItems:     len(items),
			AvgTitleLength: round1(avg),
			HasDescription: withDesc,
			HasURL:         withURL,
		}
	}

	return stats
}

// platformRankings orders platforms by item count times mean score.
// The day-over-day trend figure is a placeholder drawn from the seeded
// generator.
func (e *Engine) platformRankings(snapshot domain.DailySnapshot) []domain.PlatformRanking {
	rankings := make([]domain.PlatformRanking, 0, len(snapshot))

	for _, platform := range sortedPlatforms(snapshot) {
		items := snapshot[platform]

		var total float64
		for _, it := range items {
			total += it.Score
		}

		avg := 0.0
		if len(items) > 0 {
			avg = total / float64(len(items))
		}

		rankings = append(rankings, domain.PlatformRanking{
			Platform: platform,
			Heat:     round1(float64(len(items)) * avg),
			Trend:    round1(-10 + 20*e.rng.Float64()),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Heat != rankings[j].Heat {
			return rankings[i].Heat > rankings[j].Heat
		}

		return rankings[i].Platform < rankings[j].Platform
	})

	for i := range rankings {
		rankings[i].Rank = i + 1
	}

	return rankings
}

// updateFrequency buckets item update times into four day periods per
// platform. Platforms without parseable times get an even split.
func (e *Engine) updateFrequency(snapshot domain.DailySnapshot) UpdateFrequency {
	freq := UpdateFrequency{
		ByPlatform: make(map[string]map[string]domain.TimeOfDayShare, len(snapshot)),
	}

	for _, platform := range sortedPlatforms(snapshot) {
		counts := map[string]int{}

		for _, it := range snapshot[platform] {
			hour, ok := parseHour(it.UpdateTime)
			if !ok {
				continue
			}

			counts[periodOf(hour)]++
		}

		freq.ByPlatform[platform] = periodShares(counts)
	}

	freq.Overall = averageShares(freq.ByPlatform)

	return freq
}

func parseHour(updateTime string) (int, bool) {
	if updateTime == "" {
		return 0, false
	}

	if ts, err := dateparse.ParseAny(updateTime); err == nil {
		return ts.Hour(), true
	}

	// Bare "14:30" style times are not full timestamps.
	if idx := strings.Index(updateTime, ":"); idx > 0 {
		if hour, err := strconv.Atoi(strings.TrimSpace(updateTime[:idx])); err == nil && hour >= 0 && hour < 24 {
			return hour, true
		}
	}

	return 0, false
}

func periodOf(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18:
		return "evening"
	default:
		return "night"
	}
}

var periodLabels = map[string]string{
	"morning":   "上午",
	"afternoon": "下午",
	"evening":   "晚上",
	"night":     "凌晨",
}

var periodOrder = []string{"morning", "afternoon", "evening", "night"}

func periodShares(counts map[string]int) map[string]domain.TimeOfDayShare {
	total := 0
	for _, n := range counts {
		total += n
	}

	shares := make(map[string]domain.TimeOfDayShare, len(periodOrder))

	for _, period := range periodOrder {
		pct := 25.0
		if total > 0 {
			pct = round1(float64(counts[period]) / float64(total) * 100)
		}

		shares[period] = domain.TimeOfDayShare{Label: periodLabels[period], Percentage: pct}
	}

	return shares
}

func averageShares(byPlatform map[string]map[string]domain.TimeOfDayShare) map[string]domain.TimeOfDayShare {
	overall := make(map[string]domain.TimeOfDayShare, len(periodOrder))

	for _, period := range periodOrder {
		sum := 0.0
		for _, shares := range byPlatform {
			sum += shares[period].Percentage
		}

		pct := 0.0
		if len(byPlatform) > 0 {
			pct = round1(sum / float64(len(byPlatform)))
		}

		overall[period] = domain.TimeOfDayShare{Label: periodLabels[period], Percentage: pct}
	}

	return overall
}

// sentiment is a placeholder split drawn from the seeded generator; a
// real classifier would replace it wholesale.
func (e *Engine) sentiment(snapshot domain.DailySnapshot) SentimentAnalysis {
	result := SentimentAnalysis{
		ByPlatform: make(map[string]domain.SentimentShare, len(snapshot)),
	}

	var sumPos, sumNeu, sumNeg float64

	platforms := sortedPlatforms(snapshot)

	for _, platform := range platforms {
		positive := round1(20 + 40*e.rng.Float64())
		negative := round1(10 + 30*e.rng.Float64())
		neutral := round1(100 - positive - negative)

		result.ByPlatform[platform] = domain.SentimentShare{
			Positive: positive,
			Neutral:  neutral,
			Negative: negative,
		}

		sumPos += positive
		sumNeu += neutral
		sumNeg += negative
	}

	if n := float64(len(platforms)); n > 0 {
		result.Overall = domain.SentimentShare{
			Positive: round1(sumPos / n),
			Neutral:  round1(sumNeu / n),
			Negative: round1(sumNeg / n),
		}
	}

	return result
}

func sortedPlatforms(snapshot domain.DailySnapshot) []string {
	platforms := make([]string, 0, len(snapshot))
	for platform := range snapshot {
		platforms = append(platforms, platform)
	}

	sort.Strings(platforms)

	return platforms
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
