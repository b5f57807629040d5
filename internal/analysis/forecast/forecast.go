// Package forecast extrapolates topic heat forward from recent
// movement.
//
// The projection is a trend heuristic, not a model: forward points
// apply the latest day-over-day change with bounded jitter. All
// randomness flows through an injected source so runs are reproducible
// under a fixed seed.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
)

const (
	// maxTopics caps how many of the day's hottest topics are
	// projected.
	maxTopics = 10

	// trendCut separates rising/falling from stable.
	trendCut = 0.1

	// probabilityCeiling bounds the reported probability.
	probabilityCeiling = 95

	// stableProbability is reported for flat trends.
	stableProbability = 70

	// backfillBase and backfillSpan bound synthesized history heat for
	// days absent from the window: [0.7, 1.0] of current heat.
	backfillBase = 0.7
	backfillSpan = 0.3

	// jitterBase and jitterSpan bound the forward jitter multiplier:
	// [0.8, 1.2] of the recent trend.
	jitterBase = 0.8
	jitterSpan = 0.4

	// maxOutPlatforms is how many other platforms are suggested per
	// topic.
	maxOutPlatforms = 3

	// topicKeywords is how many keywords are attached to each topic.
	topicKeywords = 3

	dateLayout = "2006-01-02"
)

// Rand is the randomness source for jitter, history backfill and
// platform suggestions. math/rand/v2's *Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Projector produces short-horizon heat forecasts.
type Projector struct {
	toolkit lexical.Toolkit
	dict    *lexical.Dictionary
	rng     Rand
}

// New builds a Projector around the given randomness source.
func New(toolkit lexical.Toolkit, dict *lexical.Dictionary, rng Rand) *Projector {
	return &Projector{toolkit: toolkit, dict: dict, rng: rng}
}

type scoredTopic struct {
	title    string
	score    float64
	platform string
}

// Project forecasts the day's hottest topics historyDays back and
// forecastDays forward from the given date.
func (p *Projector) Project(date string, snapshot domain.DailySnapshot, window domain.HistoricalWindow, historyDays, forecastDays int) []domain.Forecast {
	current, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil
	}

	topics := topTopics(snapshot)
	if len(topics) == 0 {
		return nil
	}

	platforms := make([]string, 0, len(snapshot))
	for platform := range snapshot {
		platforms = append(platforms, platform)
	}

	sort.Strings(platforms)

	forecasts := make([]domain.Forecast, 0, len(topics))
	for _, topic := range topics {
		forecasts = append(forecasts, p.projectTopic(topic, current, date, window, platforms, historyDays, forecastDays))
	}

	return forecasts
}

func (p *Projector) projectTopic(topic scoredTopic, current time.Time, date string, window domain.HistoricalWindow, platforms []string, historyDays, forecastDays int) domain.Forecast {
	history := p.historySeries(topic, current, date, window, historyDays)

	recentTrend := 0.0

	if len(history) >= 2 {
		latest := history[len(history)-1].Heat
		previous := history[len(history)-2].Heat
		recentTrend = (latest - previous) / math.Max(1, previous)
	}

	forward := make([]domain.HeatPoint, 0, forecastDays)

	for i := 1; i <= forecastDays; i++ {
		day := current.AddDate(0, 0, i).Format(dateLayout)
		factor := recentTrend * (jitterBase + jitterSpan*p.rng.Float64())
		heat := math.Max(0, topic.score*(1+factor))

		forward = append(forward, domain.HeatPoint{Date: day, Heat: round1(heat)})
	}

	trendType, probability := classify(recentTrend)

	return domain.Forecast{
		Topic:           topic.title,
		Category:        p.category(topic.title),
		Keywords:        p.keywords(topic.title),
		CurrentHeat:     round1(topic.score),
		History:         history,
		Forecast:        forward,
		TrendType:       trendType,
		Probability:     probability,
		ProbabilityText: fmt.Sprintf("%d%%", probability),
		Confidence:      confidenceText(probability),
		Platforms:       []string{topic.platform},
		OutPlatforms:    p.otherPlatforms(platforms, topic.platform),
	}
}

// historySeries assembles the topic's heat over the trailing days,
// using observed heat where the window has it and synthesizing a
// plausible value where it does not.
func (p *Projector) historySeries(topic scoredTopic, current time.Time, date string, window domain.HistoricalWindow, historyDays int) []domain.HeatPoint {
	series := []domain.HeatPoint{{Date: date, Heat: round1(topic.score)}}

	for i := 1; i <= historyDays; i++ {
		day := current.AddDate(0, 0, -i).Format(dateLayout)

		heat, ok := observedHeat(window[day], topic.title)
		if !ok {
			heat = topic.score * (backfillBase + backfillSpan*p.rng.Float64())
		}

		series = append(series, domain.HeatPoint{Date: day, Heat: round1(math.Max(0, heat))})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

	return series
}

func observedHeat(snapshot domain.DailySnapshot, title string) (float64, bool) {
	if snapshot == nil {
		return 0, false
	}

	var heat float64

	found := false

	for _, items := range snapshot {
		for _, it := range items {
			if it.Title == title {
				heat += it.Score
				found = true
			}
		}
	}

	return heat, found
}

func classify(recentTrend float64) (string, int) {
	switch {
	case recentTrend > trendCut:
		return domain.TrendRising, minInt(probabilityCeiling, 50+int(recentTrend*100))
	case recentTrend < -trendCut:
		return domain.TrendFalling, minInt(probabilityCeiling, 50+int(math.Abs(recentTrend)*100))
	default:
		return domain.TrendStable, stableProbability
	}
}

func confidenceText(probability int) string {
	switch {
	case probability >= 90:
		return "very high"
	case probability >= 70:
		return "high"
	case probability >= 50:
		return "medium"
	default:
		return "low"
	}
}

func (p *Projector) keywords(title string) []string {
	var keywords []string

	for _, kw := range p.toolkit.RankTFIDF(title, topicKeywords+2) {
		if len([]rune(kw.Text)) <= 1 || p.dict.IsStopword(kw.Text) {
			continue
		}

		keywords = append(keywords, kw.Text)
		if len(keywords) == topicKeywords {
			break
		}
	}

	if len(keywords) == 0 {
		if runes := []rune(title); len(runes) > 3 {
			keywords = []string{string(runes[:3])}
		}
	}

	return keywords
}

// category matches the title against the category dictionary; when no
// feature word hits, a category is drawn from the injected source so
// the field is always populated.
func (p *Projector) category(title string) string {
	for _, category := range p.dict.Categories() {
		for _, feature := range p.dict.CategoryKeywords(category) {
			if feature != "" && strings.Contains(title, feature) {
				return category
			}
		}
	}

	categories := p.dict.Categories()
	if len(categories) == 0 {
		return ""
	}

	return categories[p.rng.IntN(len(categories))]
}

func (p *Projector) otherPlatforms(platforms []string, own string) []string {
	others := make([]string, 0, len(platforms))

	for _, platform := range platforms {
		if platform != own {
			others = append(others, platform)
		}
	}

	// Fisher-Yates over the injected source.
	for i := len(others) - 1; i > 0; i-- {
		j := p.rng.IntN(i + 1)
		others[i], others[j] = others[j], others[i]
	}

	if len(others) > maxOutPlatforms {
		others = others[:maxOutPlatforms]
	}

	return others
}

// topTopics flattens the snapshot and keeps the ten hottest titled
// items.
func topTopics(snapshot domain.DailySnapshot) []scoredTopic {
	var topics []scoredTopic

	for platform, items := range snapshot {
		for _, it := range items {
			if it.Title == "" || it.Score <= 0 {
				continue
			}

			topics = append(topics, scoredTopic{title: it.Title, score: it.Score, platform: platform})
		}
	}

	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].score != topics[j].score {
			return topics[i].score > topics[j].score
		}

		return topics[i].title < topics[j].title
	})

	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}

	return topics
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
