package history

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
)

type fieldsToolkit struct{}

func (fieldsToolkit) Cut(text string) []string {
	return strings.Fields(text)
}

func (fieldsToolkit) RankTFIDF(string, int) []domain.Keyword { return nil }

func (fieldsToolkit) RankTextRank(string, int) []domain.Keyword { return nil }

func newDetector() *Detector {
	nop := zerolog.Nop()

	return NewDetector(fieldsToolkit{}, lexical.LoadDictionary("", "", &nop))
}

func TestRising(t *testing.T) {
	window := domain.HistoricalWindow{
		"2026-08-30": {
			"weibo": {
				{Title: "climber", Rank: 10, Score: 50},
				{Title: "one day only", Rank: 1, Score: 500},
			},
		},
		"2026-08-31": {
			"weibo": {
				{Title: "climber", Rank: 1, Score: 120},
			},
		},
	}

	rising := newDetector().Rising(window)

	require.Len(t, rising, 1)

	topic := rising[0]
	assert.Equal(t, "climber", topic.Title)
	assert.Equal(t, domain.TrendRising, topic.Trend)
	assert.Equal(t, 9, topic.RankChange)
	assert.InDelta(t, 70, topic.ScoreChange, 0.001)
	assert.Equal(t, 2, topic.DaysTracked)
	assert.Equal(t, "2026-08-30", topic.First.Date)
	assert.Equal(t, "2026-08-31", topic.Last.Date)
}

func TestRisingExcludesWorseningTopics(t *testing.T) {
	window := domain.HistoricalWindow{
		"2026-08-30": {"weibo": {{Title: "sinking", Rank: 1, Score: 100}}},
		"2026-08-31": {"weibo": {{Title: "sinking", Rank: 5, Score: 40}}},
	}

	assert.Empty(t, newDetector().Rising(window))
}

func TestRisingColdStart(t *testing.T) {
	window := domain.HistoricalWindow{
		"2026-08-31": {"weibo": {{Title: "climber", Rank: 1, Score: 100}}},
	}

	assert.Nil(t, newDetector().Rising(window))
}

func TestPersistent(t *testing.T) {
	window := domain.HistoricalWindow{
		"2026-08-29": {
			"weibo": {{Title: "evergreen", Rank: 3, Score: 80}},
		},
		"2026-08-30": {
			"weibo": {{Title: "evergreen", Rank: 4, Score: 70}},
			"zhihu": {
				{Title: "evergreen", Rank: 2, Score: 60},
				{Title: "flash", Rank: 1, Score: 200},
			},
		},
		"2026-08-31": {
			"weibo": {{Title: "evergreen", Rank: 5, Score: 60}},
		},
	}

	persistent := newDetector().Persistent(window)

	// flash appeared on one of three days, below the half cut.
	require.Len(t, persistent, 1)

	topic := persistent[0]
	assert.Equal(t, "evergreen", topic.Title)
	assert.Equal(t, domain.TrendPersistent, topic.Trend)
	assert.Equal(t, 3, topic.Appearances)
	assert.InDelta(t, 1.0, topic.AppearanceRate, 0.001)
	assert.Equal(t, []string{"weibo", "zhihu"}, topic.Platforms)
	assert.Equal(t, 2, topic.PlatformCount)
	assert.Equal(t, "2026-08-31", topic.LastSeen)
}

func TestPersistentHalfWindowBoundary(t *testing.T) {
	window := domain.HistoricalWindow{
		"2026-08-29": {"weibo": {
			{Title: "borderline", Rank: 1, Score: 10},
			{Title: "brief", Rank: 2, Score: 5},
		}},
		"2026-08-30": {"weibo": {{Title: "borderline", Rank: 1, Score: 10}}},
		"2026-08-31": {"weibo": {{Title: "filler", Rank: 1, Score: 1}}},
	}

	persistent := newDetector().Persistent(window)

	// Two of three days meets the half cut; one day does not.
	require.Len(t, persistent, 1)
	assert.Equal(t, "borderline", persistent[0].Title)
	assert.Equal(t, 2, persistent[0].Appearances)
}

func TestConstantTopicIsPersistentNotRising(t *testing.T) {
	window := domain.HistoricalWindow{
		"2026-08-29": {"weibo": {{Title: "steady", Rank: 1, Score: 100}}},
		"2026-08-30": {"weibo": {{Title: "steady", Rank: 1, Score: 100}}},
		"2026-08-31": {"weibo": {{Title: "steady", Rank: 1, Score: 100}}},
	}

	d := newDetector()

	// No movement in rank or score means no rising entry.
	assert.Empty(t, d.Rising(window))

	persistent := d.Persistent(window)
	require.Len(t, persistent, 1)
	assert.Equal(t, "steady", persistent[0].Title)
	assert.Equal(t, 3, persistent[0].Appearances)
	assert.InDelta(t, 1.0, persistent[0].AppearanceRate, 0.001)
}

func TestPlatformTrends(t *testing.T) {
	first := make([]domain.Item, 10)
	doubled := make([]domain.Item, 20)
	halved := make([]domain.Item, 5)

	for i := range doubled {
		doubled[i] = domain.Item{Title: "t", Rank: i + 1, Score: 1}
	}

	copy(first, doubled[:10])
	copy(halved, doubled[:5])

	window := domain.HistoricalWindow{
		"2026-08-30": {
			"growing":   first,
			"shrinking": first,
		},
		"2026-08-31": {
			"growing":   doubled,
			"shrinking": halved,
			"newcomer":  {{Title: "t", Rank: 1, Score: 1}},
		},
	}

	emerging, declining := newDetector().PlatformTrends(window)

	require.Len(t, emerging, 3)
	assert.Equal(t, "growing", emerging[0].Platform)
	assert.InDelta(t, 100, emerging[0].GrowthRate, 0.001)
	assert.Equal(t, domain.TrendRising, emerging[0].Trend)
	// A platform absent on the first day counts as fully new.
	assert.Equal(t, "newcomer", emerging[1].Platform)
	assert.InDelta(t, 100, emerging[1].GrowthRate, 0.001)

	require.Len(t, declining, 1)
	assert.Equal(t, "shrinking", declining[0].Platform)
	assert.InDelta(t, -50, declining[0].GrowthRate, 0.001)
	assert.Equal(t, domain.TrendFalling, declining[0].Trend)
}

func TestKeywordTrends(t *testing.T) {
	window := domain.HistoricalWindow{
		"2026-08-30": {
			"weibo": {
				{Title: "rocket 的 launch", Score: 1},
			},
		},
		"2026-08-31": {
			"weibo": {
				{Title: "rocket mission", Score: 1},
				{Title: "rocket test", Score: 1},
				{Title: "rocket news", Score: 1},
			},
		},
	}

	rising, fading := newDetector().KeywordTrends(window)

	require.Len(t, rising, 4)
	// rocket went 1 -> 3 (+200%); the rest are new (+100%) and keep
	// their alphabetical order under the stable sort.
	assert.Equal(t, "rocket", rising[0].Keyword)
	assert.InDelta(t, 200, rising[0].GrowthRate, 0.001)
	assert.Equal(t, "mission", rising[1].Keyword)
	assert.Equal(t, "news", rising[2].Keyword)
	assert.Equal(t, "test", rising[3].Keyword)

	require.Len(t, fading, 1)
	assert.Equal(t, "launch", fading[0].Keyword)
	assert.InDelta(t, -100, fading[0].GrowthRate, 0.001)
}

func TestKeywordTrendsFiltersShortAndStopwords(t *testing.T) {
	window := domain.HistoricalWindow{
		"2026-08-30": {"weibo": {{Title: "的 a", Score: 1}}},
		"2026-08-31": {"weibo": {{Title: "的 的 a a", Score: 1}}},
	}

	rising, fading := newDetector().KeywordTrends(window)

	assert.Empty(t, rising)
	assert.Empty(t, fading)
}

func TestCategoryTrends(t *testing.T) {
	window := domain.HistoricalWindow{
		"2026-08-30": {"weibo": {
			{Title: "火箭发射", Rank: 1, Score: 10},
			{Title: "电影上映", Rank: 2, Score: 9},
		}},
		"2026-08-31": {"weibo": {
			{Title: "火箭发射", Rank: 1, Score: 10},
			{Title: "火箭试验", Rank: 2, Score: 9},
			{Title: "芯片突破", Rank: 3, Score: 8},
			{Title: "电影上映", Rank: 4, Score: 7},
		}},
	}

	trends := newDetector().CategoryTrends(window)

	require.Len(t, trends, len(lexical.DefaultCategories))

	tech := trends[0]
	require.Equal(t, "科技", tech.Category)
	assert.InDelta(t, 75, tech.CurrentPercentage, 0.001)
	assert.Equal(t, domain.TrendRising, tech.Trend)
	assert.Equal(t, 95, tech.Confidence)

	require.Len(t, tech.History, 2)
	assert.Equal(t, domain.CategoryPoint{Date: "2026-08-30", Percentage: 50}, tech.History[0])
	assert.Equal(t, domain.CategoryPoint{Date: "2026-08-31", Percentage: 75}, tech.History[1])

	// The observed 25-point daily climb continues, capped at 100.
	require.Len(t, tech.Prediction, 3)
	assert.Equal(t, domain.CategoryPoint{Date: "2026-09-01", Percentage: 100}, tech.Prediction[0])
	assert.Equal(t, domain.CategoryPoint{Date: "2026-09-02", Percentage: 100}, tech.Prediction[1])
	assert.Equal(t, domain.CategoryPoint{Date: "2026-09-03", Percentage: 100}, tech.Prediction[2])

	entertainment := trends[1]
	require.Equal(t, "娱乐", entertainment.Category)
	assert.InDelta(t, 25, entertainment.CurrentPercentage, 0.001)
	assert.Equal(t, domain.TrendFalling, entertainment.Trend)
	assert.Equal(t, 95, entertainment.Confidence)
	assert.Equal(t, domain.CategoryPoint{Date: "2026-09-01", Percentage: 0}, entertainment.Prediction[0])

	// Unmatched categories stay flat with baseline confidence.
	sports := trends[4]
	require.Equal(t, "体育", sports.Category)
	assert.InDelta(t, 0, sports.CurrentPercentage, 0.001)
	assert.Equal(t, domain.TrendStable, sports.Trend)
	assert.Equal(t, 70, sports.Confidence)
}

func TestInsufficientWindow(t *testing.T) {
	d := newDetector()
	window := domain.HistoricalWindow{}

	assert.Nil(t, d.Rising(window))
	assert.Nil(t, d.Persistent(window))

	emerging, declining := d.PlatformTrends(window)
	assert.Nil(t, emerging)
	assert.Nil(t, declining)

	rising, fading := d.KeywordTrends(window)
	assert.Nil(t, rising)
	assert.Nil(t, fading)

	assert.Nil(t, d.CategoryTrends(window))
}
