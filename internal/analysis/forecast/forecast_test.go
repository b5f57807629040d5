package forecast

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
)

// stubRand returns fixed values so projected numbers are exact.
type stubRand struct {
	f float64
}

func (s stubRand) Float64() float64 { return s.f }

func (s stubRand) IntN(int) int { return 0 }

type fakeToolkit struct {
	tfidf map[string][]domain.Keyword
}

func (f *fakeToolkit) Cut(text string) []string {
	return strings.Fields(text)
}

func (f *fakeToolkit) RankTFIDF(text string, topK int) []domain.Keyword {
	keywords := f.tfidf[text]
	if len(keywords) > topK {
		return keywords[:topK]
	}

	return keywords
}

func (f *fakeToolkit) RankTextRank(text string, topK int) []domain.Keyword {
	return f.RankTFIDF(text, topK)
}

func testDict() *lexical.Dictionary {
	nop := zerolog.Nop()

	return lexical.LoadDictionary("", "", &nop)
}

func TestProjectRisingTopic(t *testing.T) {
	toolkit := &fakeToolkit{tfidf: map[string][]domain.Keyword{
		"火箭发射成功": {{Text: "火箭", Weight: 1}},
	}}

	p := New(toolkit, testDict(), stubRand{f: 0.5})

	snapshot := domain.DailySnapshot{
		"weibo": {{Title: "火箭发射成功", Score: 100}},
	}
	window := domain.HistoricalWindow{
		"2026-08-30": {"weibo": {{Title: "火箭发射成功", Score: 50}}},
	}

	forecasts := p.Project("2026-08-31", snapshot, window, 1, 1)

	require.Len(t, forecasts, 1)

	f := forecasts[0]
	assert.Equal(t, "火箭发射成功", f.Topic)
	assert.Equal(t, "科技", f.Category)
	assert.Equal(t, []string{"火箭"}, f.Keywords)
	assert.InDelta(t, 100, f.CurrentHeat, 0.001)

	require.Len(t, f.History, 2)
	assert.Equal(t, "2026-08-30", f.History[0].Date)
	assert.InDelta(t, 50, f.History[0].Heat, 0.001)
	assert.Equal(t, "2026-08-31", f.History[1].Date)

	// Heat doubled day over day: trend 1.0, jitter factor 1.0 at the
	// midpoint draw, so the forward point doubles again.
	require.Len(t, f.Forecast, 1)
	assert.Equal(t, "2026-09-01", f.Forecast[0].Date)
	assert.InDelta(t, 200, f.Forecast[0].Heat, 0.001)

	assert.Equal(t, domain.TrendRising, f.TrendType)
	assert.Equal(t, 95, f.Probability)
	assert.Equal(t, "95%", f.ProbabilityText)
	assert.Equal(t, "very high", f.Confidence)
	assert.Equal(t, []string{"weibo"}, f.Platforms)
	assert.Empty(t, f.OutPlatforms)
}

func TestProjectFallingTopic(t *testing.T) {
	p := New(&fakeToolkit{}, testDict(), stubRand{f: 0.5})

	snapshot := domain.DailySnapshot{
		"weibo": {{Title: "cooling topic", Score: 100}},
	}
	window := domain.HistoricalWindow{
		"2026-08-30": {"weibo": {{Title: "cooling topic", Score: 200}}},
	}

	forecasts := p.Project("2026-08-31", snapshot, window, 1, 1)

	require.Len(t, forecasts, 1)
	assert.Equal(t, domain.TrendFalling, forecasts[0].TrendType)
	assert.Equal(t, 95, forecasts[0].Probability)
	assert.InDelta(t, 50, forecasts[0].Forecast[0].Heat, 0.001)
}

func TestProjectBackfillsMissingHistory(t *testing.T) {
	p := New(&fakeToolkit{}, testDict(), stubRand{f: 0.75})

	snapshot := domain.DailySnapshot{
		"weibo": {{Title: "steady topic", Score: 100}},
	}

	forecasts := p.Project("2026-08-31", snapshot, domain.HistoricalWindow{}, 1, 1)

	require.Len(t, forecasts, 1)

	f := forecasts[0]

	// Synthesized yesterday: 100 * (0.7 + 0.3*0.75) = 92.5, which keeps
	// the trend inside the stable band.
	require.Len(t, f.History, 2)
	assert.InDelta(t, 92.5, f.History[0].Heat, 0.001)

	assert.Equal(t, domain.TrendStable, f.TrendType)
	assert.Equal(t, 70, f.Probability)
	assert.Equal(t, "high", f.Confidence)
	assert.InDelta(t, 108.9, f.Forecast[0].Heat, 0.001)
}

func TestProjectOrdersByScoreAndCaps(t *testing.T) {
	p := New(&fakeToolkit{}, testDict(), stubRand{f: 0.5})

	items := make([]domain.Item, 12)
	for i := range items {
		items[i] = domain.Item{Title: "topic " + string(rune('a'+i)), Score: float64(i + 1)}
	}

	snapshot := domain.DailySnapshot{"weibo": items}

	forecasts := p.Project("2026-08-31", snapshot, domain.HistoricalWindow{}, 1, 1)

	require.Len(t, forecasts, 10)
	assert.Equal(t, "topic l", forecasts[0].Topic)
	assert.InDelta(t, 12, forecasts[0].CurrentHeat, 0.001)
}

func TestProjectSkipsInvalidInput(t *testing.T) {
	p := New(&fakeToolkit{}, testDict(), stubRand{f: 0.5})

	assert.Nil(t, p.Project("not-a-date", domain.DailySnapshot{"weibo": {{Title: "t", Score: 1}}}, nil, 1, 1))
	assert.Nil(t, p.Project("2026-08-31", domain.DailySnapshot{}, nil, 1, 1))
	assert.Nil(t, p.Project("2026-08-31", domain.DailySnapshot{"weibo": {{Title: "", Score: 5}, {Title: "t", Score: 0}}}, nil, 1, 1))
}

func TestProjectSuggestsOtherPlatforms(t *testing.T) {
	p := New(&fakeToolkit{}, testDict(), stubRand{f: 0.5})

	snapshot := domain.DailySnapshot{
		"a": {{Title: "hot", Score: 100}},
		"b": nil, "c": nil, "d": nil, "e": nil,
	}

	forecasts := p.Project("2026-08-31", snapshot, domain.HistoricalWindow{}, 1, 1)

	require.Len(t, forecasts, 1)
	assert.Len(t, forecasts[0].OutPlatforms, 3)
	assert.NotContains(t, forecasts[0].OutPlatforms, "a")
}

func TestProjectDeterministicUnderSeed(t *testing.T) {
	snapshot := domain.DailySnapshot{
		"weibo": {{Title: "topic one", Score: 100}},
		"zhihu": {{Title: "topic two", Score: 80}},
	}

	run := func() []domain.Forecast {
		rng := rand.New(rand.NewPCG(7, 7))

		return New(&fakeToolkit{}, testDict(), rng).Project("2026-08-31", snapshot, domain.HistoricalWindow{}, 3, 2)
	}

	assert.Equal(t, run(), run())
}
