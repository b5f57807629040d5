// Package history detects multi-day topic, platform and keyword trends
// from a sparse historical window of daily snapshots.
package history

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
)

const (
	maxRising     = 10
	maxPersistent = 10
	maxPlatforms  = 5
	maxKeywords   = 10

	// keywordGrowthCut is the day-over-day frequency change (percent)
	// above which a keyword counts as rising, below the negative as
	// fading.
	keywordGrowthCut = 50.0

	// categoryForecastDays is how far the category outlook extrapolates.
	categoryForecastDays = 3

	// confidenceBase and confidenceSpan bound the category trend
	// confidence to [70, 95].
	confidenceBase = 70
	confidenceSpan = 25.0

	dateLayout = "2006-01-02"
)

// Detector runs the historical comparisons. It is stateless apart from
// the shared toolkit and dictionary used for keyword trends.
type Detector struct {
	toolkit lexical.Toolkit
	dict    *lexical.Dictionary
}

// NewDetector builds a Detector.
func NewDetector(toolkit lexical.Toolkit, dict *lexical.Dictionary) *Detector {
	return &Detector{toolkit: toolkit, dict: dict}
}

// Rising returns topics whose rank or score improved between their
// first and last appearance in the window. A topic qualifies only when
// seen on at least two distinct days. With fewer than two dated
// snapshots the result is empty; cold starts are not errors.
func (d *Detector) Rising(window domain.HistoricalWindow) []domain.RisingTopic {
	if !window.Sufficient() {
		return nil
	}

	appearances := collectAppearances(window)

	var rising []domain.RisingTopic

	for title, entries := range appearances {
		days := distinctDates(entries)
		if days < 2 {
			continue
		}

		first := entries[0]
		last := entries[len(entries)-1]

		rankChange := first.Rank - last.Rank
		scoreChange := last.Score - first.Score

		if rankChange <= 0 && scoreChange <= 0 {
			continue
		}

		rising = append(rising, domain.RisingTopic{
			Title:       title,
			Trend:       domain.TrendRising,
			RankChange:  rankChange,
			ScoreChange: scoreChange,
			DaysTracked: days,
			First:       first,
			Last:        last,
		})
	}

	sort.SliceStable(rising, func(i, j int) bool {
		if rising[i].RankChange != rising[j].RankChange {
			return rising[i].RankChange > rising[j].RankChange
		}

		if rising[i].ScoreChange != rising[j].ScoreChange {
			return rising[i].ScoreChange > rising[j].ScoreChange
		}

		return rising[i].Title < rising[j].Title
	})

	if len(rising) > maxRising {
		rising = rising[:maxRising]
	}

	return rising
}

// Persistent returns topics present on at least half of the tracked
// days, ordered by appearances then platform spread.
func (d *Detector) Persistent(window domain.HistoricalWindow) []domain.PersistentTopic {
	if !window.Sufficient() {
		return nil
	}

	dates := window.Dates()

	seenDays := make(map[string]map[string]struct{})
	seenPlatforms := make(map[string]map[string]struct{})
	lastSeen := make(map[string]string)

	for _, date := range dates {
		for platform, items := range window[date] {
			for _, it := range items {
				if it.Title == "" {
					continue
				}

				if seenDays[it.Title] == nil {
					seenDays[it.Title] = make(map[string]struct{})
					seenPlatforms[it.Title] = make(map[string]struct{})
				}

				seenDays[it.Title][date] = struct{}{}
				seenPlatforms[it.Title][platform] = struct{}{}
				lastSeen[it.Title] = date
			}
		}
	}

	var persistent []domain.PersistentTopic

	for title, days := range seenDays {
		if float64(len(days)) < float64(len(dates))/2 {
			continue
		}

		platforms := setToSorted(seenPlatforms[title])

		persistent = append(persistent, domain.PersistentTopic{
			Title:          title,
			Trend:          domain.TrendPersistent,
			Appearances:    len(days),
			AppearanceRate: float64(len(days)) / float64(len(dates)),
			Platforms:      platforms,
			PlatformCount:  len(platforms),
			LastSeen:       lastSeen[title],
		})
	}

	sort.SliceStable(persistent, func(i, j int) bool {
		if persistent[i].Appearances != persistent[j].Appearances {
			return persistent[i].Appearances > persistent[j].Appearances
		}

		if persistent[i].PlatformCount != persistent[j].PlatformCount {
			return persistent[i].PlatformCount > persistent[j].PlatformCount
		}

		return persistent[i].Title < persistent[j].Title
	})

	if len(persistent) > maxPersistent {
		persistent = persistent[:maxPersistent]
	}

	return persistent
}

// PlatformTrends compares each platform's item count between the first
// and last day of the window. The five fastest growers are emerging;
// up to five platforms with negative growth are declining.
func (d *Detector) PlatformTrends(window domain.HistoricalWindow) (emerging, declining []domain.PlatformGrowth) {
	if !window.Sufficient() {
		return nil, nil
	}

	dates := window.Dates()
	firstDate := dates[0]
	lastDate := dates[len(dates)-1]

	platforms := make(map[string]struct{})

	for _, date := range dates {
		for p := range window[date] {
			platforms[p] = struct{}{}
		}
	}

	var growth []domain.PlatformGrowth

	for _, platform := range setToSorted(platforms) {
		firstCount := len(window[firstDate][platform])
		lastCount := len(window[lastDate][platform])

		var rate float64

		switch {
		case firstCount == 0 && lastCount > 0:
			rate = 100
		case firstCount == 0:
			rate = 0
		default:
			rate = float64(lastCount-firstCount) / float64(firstCount) * 100
		}

		growth = append(growth, domain.PlatformGrowth{
			Platform:   platform,
			FirstCount: firstCount,
			LastCount:  lastCount,
			GrowthRate: rate,
			Trend:      trendLabel(rate),
		})
	}

	sort.SliceStable(growth, func(i, j int) bool {
		if growth[i].GrowthRate != growth[j].GrowthRate {
			return growth[i].GrowthRate > growth[j].GrowthRate
		}

		return growth[i].Platform < growth[j].Platform
	})

	for _, g := range growth {
		if len(emerging) < maxPlatforms {
			emerging = append(emerging, g)
		}
	}

	for i := len(growth) - 1; i >= 0 && len(declining) < maxPlatforms; i-- {
		if growth[i].GrowthRate < 0 {
			declining = append(declining, growth[i])
		}
	}

	return emerging, declining
}

// KeywordTrends tokenizes every day's titles and flags keywords whose
// frequency moved more than 50% between the first and last day.
func (d *Detector) KeywordTrends(window domain.HistoricalWindow) (rising, fading []domain.KeywordTrend) {
	if !window.Sufficient() {
		return nil, nil
	}

	dates := window.Dates()

	dailyFreq := make(map[string]map[string]int, len(dates))

	for _, date := range dates {
		freq := make(map[string]int)

		for _, title := range window[date].Titles() {
			for _, token := range d.toolkit.Cut(title) {
				if utf8.RuneCountInString(token) <= 1 || d.dict.IsStopword(token) {
					continue
				}

				freq[token]++
			}
		}

		dailyFreq[date] = freq
	}

	keywords := make(map[string]struct{})
	for _, freq := range dailyFreq {
		for k := range freq {
			keywords[k] = struct{}{}
		}
	}

	firstDate := dates[0]
	lastDate := dates[len(dates)-1]

	for _, keyword := range setToSorted(keywords) {
		firstCount := dailyFreq[firstDate][keyword]
		lastCount := dailyFreq[lastDate][keyword]

		var rate float64

		switch {
		case firstCount == 0 && lastCount > 0:
			rate = 100
		case firstCount == 0:
			rate = 0
		default:
			rate = float64(lastCount-firstCount) / float64(firstCount) * 100
		}

		trend := domain.KeywordTrend{
			Keyword:    keyword,
			GrowthRate: rate,
			FirstCount: firstCount,
			LastCount:  lastCount,
		}

		switch {
		case rate > keywordGrowthCut:
			rising = append(rising, trend)
		case rate < -keywordGrowthCut:
			fading = append(fading, trend)
		}
	}

	sort.SliceStable(rising, func(i, j int) bool {
		return rising[i].GrowthRate > rising[j].GrowthRate
	})
	sort.SliceStable(fading, func(i, j int) bool {
		return fading[i].GrowthRate < fading[j].GrowthRate
	})

	if len(rising) > maxKeywords {
		rising = rising[:maxKeywords]
	}

	if len(fading) > maxKeywords {
		fading = fading[:maxKeywords]
	}

	return rising, fading
}

// CategoryTrends tracks each category's share of matched titles per day
// and extrapolates the movement between the first and last day three
// days forward. Shares are computed over matched titles only, so a day
// full of uncategorizable noise does not dilute every category at once.
func (d *Detector) CategoryTrends(window domain.HistoricalWindow) []domain.CategoryTrend {
	if !window.Sufficient() {
		return nil
	}

	dates := window.Dates()
	categories := d.dict.Categories()

	series := make(map[string][]domain.CategoryPoint, len(categories))

	for _, date := range dates {
		counts := make(map[string]int, len(categories))
		total := 0

		for _, title := range window[date].Titles() {
			if category, ok := d.categoryOf(title); ok {
				counts[category]++
				total++
			}
		}

		for _, category := range categories {
			pct := 0.0
			if total > 0 {
				pct = round1(float64(counts[category]) / float64(total) * 100)
			}

			series[category] = append(series[category], domain.CategoryPoint{Date: date, Percentage: pct})
		}
	}

	lastDay, err := time.Parse(dateLayout, dates[len(dates)-1])
	if err != nil {
		return nil
	}

	trends := make([]domain.CategoryTrend, 0, len(categories))

	for _, category := range categories {
		points := series[category]
		current := points[len(points)-1].Percentage
		past := points[0].Percentage

		// Per-day movement continues at its observed average rate.
		step := (current - past) / float64(len(dates)-1)

		prediction := make([]domain.CategoryPoint, 0, categoryForecastDays)

		for i := 1; i <= categoryForecastDays; i++ {
			value := current + step*float64(i)
			value = math.Max(0, math.Min(100, value))

			prediction = append(prediction, domain.CategoryPoint{
				Date:       lastDay.AddDate(0, 0, i).Format(dateLayout),
				Percentage: round1(value),
			})
		}

		trends = append(trends, domain.CategoryTrend{
			Category:          category,
			CurrentPercentage: current,
			Trend:             trendLabel(current - past),
			History:           points,
			Prediction:        prediction,
			Confidence:        confidenceBase + int(math.Min(confidenceSpan, math.Abs(current-past))),
		})
	}

	return trends
}

// categoryOf assigns a title to the first category whose feature word it
// contains.
func (d *Detector) categoryOf(title string) (string, bool) {
	for _, category := range d.dict.Categories() {
		for _, feature := range d.dict.CategoryKeywords(category) {
			if feature != "" && strings.Contains(title, feature) {
				return category, true
			}
		}
	}

	return "", false
}

// collectAppearances gathers per-title appearance records in
// chronological order. Rank falls back to list position when the item
// carries none.
func collectAppearances(window domain.HistoricalWindow) map[string][]domain.Appearance {
	appearances := make(map[string][]domain.Appearance)

	for _, date := range window.Dates() {
		snapshot := window[date]

		platforms := make(map[string]struct{}, len(snapshot))
		for p := range snapshot {
			platforms[p] = struct{}{}
		}

		// Platforms visited in sorted order so the first appearance on
		// a date is stable across runs.
		for _, platform := range setToSorted(platforms) {
			for i, it := range snapshot[platform] {
				if it.Title == "" {
					continue
				}

				rank := it.Rank
				if rank <= 0 {
					rank = i + 1
				}

				appearances[it.Title] = append(appearances[it.Title], domain.Appearance{
					Date:     date,
					Platform: platform,
					Rank:     rank,
					Score:    it.Score,
				})
			}
		}
	}

	return appearances
}

func distinctDates(entries []domain.Appearance) int {
	dates := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		dates[e.Date] = struct{}{}
	}

	return len(dates)
}

func trendLabel(rate float64) string {
	switch {
	case rate > 0:
		return domain.TrendRising
	case rate < 0:
		return domain.TrendFalling
	default:
		return domain.TrendStable
	}
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}
