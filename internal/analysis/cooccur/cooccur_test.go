package cooccur

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
)

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

// repeat builds a snapshot with the same title n times so pair counts
// accumulate.
func repeat(title string, n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = domain.Item{Title: title, Score: 1}
	}

	return items
}

func TestGroupBasicPair(t *testing.T) {
	toolkit := &fakeToolkit{tfidf: map[string][]domain.Keyword{
		"t1": {{Text: "rocket", Weight: 1}, {Text: "launch", Weight: 0.9}},
	}}

	snapshot := domain.DailySnapshot{"weibo": repeat("t1", 3)}

	groups := New(toolkit, testDict()).Group(snapshot)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"launch", "rocket"}, groups[0].Words)
	assert.Equal(t, 3, groups[0].CoOccurrence)
}

func TestGroupBelowThresholdDropped(t *testing.T) {
	toolkit := &fakeToolkit{tfidf: map[string][]domain.Keyword{
		"t1": {{Text: "rocket", Weight: 1}, {Text: "launch", Weight: 0.9}},
	}}

	// Two co-occurrences are below the minimum of three.
	snapshot := domain.DailySnapshot{"weibo": repeat("t1", 2)}

	assert.Empty(t, New(toolkit, testDict()).Group(snapshot))
}

func TestGroupMeaninglessPairsFiltered(t *testing.T) {
	toolkit := &fakeToolkit{tfidf: map[string][]domain.Keyword{
		"t1": {{Text: "2024", Weight: 1}, {Text: "100", Weight: 0.9}},
	}}

	snapshot := domain.DailySnapshot{"weibo": repeat("t1", 5)}

	assert.Empty(t, New(toolkit, testDict()).Group(snapshot))
}

func TestGroupStopwordsAndShortTokensExcluded(t *testing.T) {
	toolkit := &fakeToolkit{tfidf: map[string][]domain.Keyword{
		"t1": {{Text: "的", Weight: 1}, {Text: "a", Weight: 0.9}, {Text: "rocket", Weight: 0.8}},
	}}

	// Only rocket survives filtering, so no pairs exist.
	snapshot := domain.DailySnapshot{"weibo": repeat("t1", 5)}

	assert.Empty(t, New(toolkit, testDict()).Group(snapshot))
}

func TestGroupCollapsesWideMerges(t *testing.T) {
	toolkit := &fakeToolkit{tfidf: map[string][]domain.Keyword{
		"t1": {{Text: "alpha", Weight: 1}, {Text: "beta", Weight: 0.9}},
		"t2": {{Text: "alpha", Weight: 1}, {Text: "gamma", Weight: 0.9}},
		"t3": {{Text: "alpha", Weight: 1}, {Text: "delta", Weight: 0.9}},
	}}

	snapshot := domain.DailySnapshot{
		"weibo": append(append(repeat("t1", 5), repeat("t2", 4)...), repeat("t3", 3)...),
	}

	groups := New(toolkit, testDict()).Group(snapshot)

	// alpha links four distinct words; the merge collapses back to the
	// strongest pair.
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"alpha", "beta"}, groups[0].Words)
	assert.Equal(t, 5, groups[0].CoOccurrence)
}

func TestGroupThreeWordMergeKept(t *testing.T) {
	toolkit := &fakeToolkit{tfidf: map[string][]domain.Keyword{
		"t1": {{Text: "alpha", Weight: 1}, {Text: "beta", Weight: 0.9}},
		"t2": {{Text: "alpha", Weight: 1}, {Text: "gamma", Weight: 0.9}},
	}}

	snapshot := domain.DailySnapshot{
		"weibo": append(repeat("t1", 5), repeat("t2", 4)...),
	}

	groups := New(toolkit, testDict()).Group(snapshot)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, groups[0].Words)
	assert.Equal(t, 5, groups[0].CoOccurrence)
}

func TestGroupEmptySnapshot(t *testing.T) {
	assert.Empty(t, New(&fakeToolkit{}, testDict()).Group(domain.DailySnapshot{}))
}
