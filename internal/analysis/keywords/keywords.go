// Package keywords builds ranked keyword lists and category
// distributions from daily snapshot texts.
package keywords

import (
	"math"
	"sort"
	"strings"

	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
)

const (
	// boostDivisor and boostCap bound the multi-text occurrence boost:
	// weight *= 1 + min(count/boostDivisor, boostCap), at most 3x.
	boostDivisor = 10.0
	boostCap     = 2.0

	// categorySampleSize is how many ranked keywords feed the category
	// distribution.
	categorySampleSize = 200

	// partialMatchFactor is the weight credited on substring matches
	// between a keyword and a category feature word.
	partialMatchFactor = 0.5

	// minCategoryPercent drops trace categories from the distribution.
	minCategoryPercent = 1.0

	// weightScale makes weights readable for tag cloud consumers.
	weightScale = 100.0
)

// Extractor derives keyword rankings from text batches using both
// toolkit algorithms.
type Extractor struct {
	toolkit lexical.Toolkit
	dict    *lexical.Dictionary
}

// NewExtractor builds an Extractor over the shared toolkit and
// dictionary.
func NewExtractor(toolkit lexical.Toolkit, dict *lexical.Dictionary) *Extractor {
	return &Extractor{toolkit: toolkit, dict: dict}
}

// Extract returns the topK keywords for the given texts.
//
// Both ranking algorithms are asked for 2×topK candidates; tokens found
// by both get the arithmetic mean of the two weights. Stopwords, single
// ideographs and pure numbers are dropped. Tokens occurring in more
// than one source text get a capped occurrence boost. Ordering is fully
// deterministic: weight descending, then token ascending.
func (e *Extractor) Extract(texts []string, topK int) []domain.Keyword {
	if len(texts) == 0 || topK <= 0 {
		return nil
	}

	combined := strings.Join(texts, " ")

	merged := make(map[string]float64)

	for _, kw := range e.toolkit.RankTFIDF(combined, 2*topK) {
		merged[kw.Text] = kw.Weight
	}

	for _, kw := range e.toolkit.RankTextRank(combined, 2*topK) {
		if w, ok := merged[kw.Text]; ok {
			merged[kw.Text] = (w + kw.Weight) / 2
		} else {
			merged[kw.Text] = kw.Weight
		}
	}

	keywords := make([]domain.Keyword, 0, len(merged))

	for token, weight := range merged {
		if e.dict.IsIgnorable(token) {
			continue
		}

		if n := countContaining(texts, token); n > 1 {
			weight *= 1 + math.Min(float64(n)/boostDivisor, boostCap)
		}

		keywords = append(keywords, domain.Keyword{
			Text:   token,
			Weight: round1(weight * weightScale),
		})
	}

	sortKeywords(keywords)

	if len(keywords) > topK {
		keywords = keywords[:topK]
	}

	return keywords
}

// Categorize scores the fixed category set against the ranked keywords
// of the given texts and returns a percentage distribution summing to
// 100. Exact dictionary hits add full weight, substring containment in
// either direction (both words longer than one rune) adds half weight.
// When nothing matches, a deterministic synthetic distribution is
// returned instead of an error.
func (e *Extractor) Categorize(texts []string) []domain.CategoryShare {
	if len(texts) == 0 {
		return e.fallbackDistribution()
	}

	combined := strings.Join(texts, " ")
	ranked := e.toolkit.RankTFIDF(combined, categorySampleSize)

	scores := make(map[string]float64, len(e.dict.Categories()))
	for _, c := range e.dict.Categories() {
		scores[c] = 0
	}

	for _, kw := range ranked {
		for _, category := range e.dict.Categories() {
			features := e.dict.CategoryKeywords(category)

			if containsWord(features, kw.Text) {
				scores[category] += kw.Weight
				continue
			}

			for _, feature := range features {
				if len([]rune(kw.Text)) > 1 && len([]rune(feature)) > 1 &&
					(strings.Contains(feature, kw.Text) || strings.Contains(kw.Text, feature)) {
					scores[category] += kw.Weight * partialMatchFactor
					break
				}
			}
		}
	}

	var total float64
	for _, s := range scores {
		total += s
	}

	if total == 0 {
		return e.fallbackDistribution()
	}

	distribution := make([]domain.CategoryShare, 0, len(scores))
	for _, category := range e.dict.Categories() {
		distribution = append(distribution, domain.CategoryShare{
			Category:   category,
			Percentage: round1(scores[category] / total * 100),
		})
	}

	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Percentage > distribution[j].Percentage
	})

	filtered := make([]domain.CategoryShare, 0, len(distribution))
	for _, share := range distribution {
		if share.Percentage >= minCategoryPercent {
			filtered = append(filtered, share)
		}
	}

	if len(filtered) == 0 {
		return distribution
	}

	return filtered
}

// fallbackDistribution yields a fixed distribution summing to exactly
// 100 when content-based categorization produced no signal. The shares
// decay linearly over the category order.
func (e *Extractor) fallbackDistribution() []domain.CategoryShare {
	categories := e.dict.Categories()
	if len(categories) == 0 {
		return nil
	}

	n := len(categories)
	total := float64(n*(n+1)) / 2

	distribution := make([]domain.CategoryShare, 0, n)

	assigned := 0.0
	for i, category := range categories {
		share := round1(float64(n-i) / total * 100)
		if i == n-1 {
			share = round1(100 - assigned)
		}

		assigned += share

		distribution = append(distribution, domain.CategoryShare{
			Category:   category,
			Percentage: share,
		})
	}

	return distribution
}

// Clouds builds the keyword cloud map: the global ranking under "all",
// one ranking per category (titles matched by feature-word containment)
// and one per platform under "platform_<id>".
func (e *Extractor) Clouds(snapshot domain.DailySnapshot, keywordCount int) map[string][]domain.Keyword {
	perSection := keywordCount / 2
	if perSection < 50 {
		perSection = 50
	}

	var allTitles []string

	categoryTitles := make(map[string][]string)
	platformTitles := make(map[string][]string)

	for platform, items := range snapshot {
		for _, it := range items {
			if it.Title == "" {
				continue
			}

			allTitles = append(allTitles, it.Title)
			platformTitles[platform] = append(platformTitles[platform], it.Title)

			if category := e.matchCategory(it.Title); category != "" {
				categoryTitles[category] = append(categoryTitles[category], it.Title)
			}
		}
	}

	clouds := make(map[string][]domain.Keyword)
	clouds["all"] = e.Extract(allTitles, keywordCount)

	for _, category := range e.dict.Categories() {
		clouds[category] = e.Extract(categoryTitles[category], perSection)
	}

	for platform, titles := range platformTitles {
		clouds["platform_"+platform] = e.Extract(titles, perSection)
	}

	return clouds
}

// matchCategory returns the first category whose feature words appear
// in the title, or empty when none match.
func (e *Extractor) matchCategory(title string) string {
	for _, category := range e.dict.Categories() {
		for _, feature := range e.dict.CategoryKeywords(category) {
			if strings.Contains(title, feature) {
				return category
			}
		}
	}

	return ""
}

func sortKeywords(keywords []domain.Keyword) {
	sort.SliceStable(keywords, func(i, j int) bool {
		if keywords[i].Weight != keywords[j].Weight {
			return keywords[i].Weight > keywords[j].Weight
		}

		return keywords[i].Text < keywords[j].Text
	})
}

func countContaining(texts []string, token string) int {
	n := 0

	for _, t := range texts {
		if strings.Contains(t, token) {
			n++
		}
	}

	return n
}

func containsWord(words []string, w string) bool {
	for _, candidate := range words {
		if candidate == w {
			return true
		}
	}

	return false
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
