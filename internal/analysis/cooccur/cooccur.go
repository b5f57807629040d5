// Package cooccur builds keyword co-occurrence groups from per-title
// keyword sets.
package cooccur

import (
	"sort"
	"unicode/utf8"

	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
)

const (
	// titleTopK keywords are taken from each title.
	titleTopK = 5

	// vocabularySize and minWordFreq bound the candidate vocabulary.
	vocabularySize = 50
	minWordFreq    = 2

	// minPairCount is the co-occurrence threshold for a pair to count.
	minPairCount = 3

	// maxGroupWords caps merged groups; larger merges collapse back to
	// their strongest pair.
	maxGroupWords = 3

	// maxGroups caps the result list.
	maxGroups = 10
)

// Grouper extracts related-term groups from a daily snapshot.
type Grouper struct {
	toolkit lexical.Toolkit
	dict    *lexical.Dictionary
}

// New builds a Grouper over the shared toolkit and dictionary.
func New(toolkit lexical.Toolkit, dict *lexical.Dictionary) *Grouper {
	return &Grouper{toolkit: toolkit, dict: dict}
}

type pair struct {
	w1, w2 string
	count  int
}

// Group returns up to ten related-term groups ordered by co-occurrence
// count.
func (g *Grouper) Group(snapshot domain.DailySnapshot) []domain.WordGroup {
	keywordSets := g.titleKeywords(snapshot)
	if len(keywordSets) == 0 {
		return nil
	}

	vocabulary := candidateVocabulary(keywordSets)
	if len(vocabulary) == 0 {
		return nil
	}

	pairs := g.countPairs(keywordSets, vocabulary)
	if len(pairs) == 0 {
		return nil
	}

	groups := mergePairs(pairs)

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CoOccurrence > groups[j].CoOccurrence
	})

	if len(groups) > maxGroups {
		groups = groups[:maxGroups]
	}

	return groups
}

// titleKeywords extracts the filtered top keywords of every title.
func (g *Grouper) titleKeywords(snapshot domain.DailySnapshot) [][]string {
	var sets [][]string

	for _, items := range snapshot {
		for _, it := range items {
			if it.Title == "" {
				continue
			}

			var valid []string

			for _, kw := range g.toolkit.RankTFIDF(it.Title, titleTopK) {
				if g.dict.IsStopword(kw.Text) || utf8.RuneCountInString(kw.Text) <= 1 {
					continue
				}

				valid = append(valid, kw.Text)
			}

			if len(valid) > 0 {
				sets = append(sets, valid)
			}
		}
	}

	return sets
}

// candidateVocabulary keeps the 50 most frequent keywords appearing at
// least twice. Frequency ties break on the word itself so the
// vocabulary is stable across runs.
func candidateVocabulary(keywordSets [][]string) map[string]struct{} {
	freq := make(map[string]int)

	for _, set := range keywordSets {
		for _, w := range set {
			freq[w]++
		}
	}

	type wordCount struct {
		word  string
		count int
	}

	counts := make([]wordCount, 0, len(freq))

	for w, n := range freq {
		if n >= minWordFreq {
			counts = append(counts, wordCount{word: w, count: n})
		}
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}

		return counts[i].word < counts[j].word
	})

	if len(counts) > vocabularySize {
		counts = counts[:vocabularySize]
	}

	vocabulary := make(map[string]struct{}, len(counts))
	for _, wc := range counts {
		vocabulary[wc.word] = struct{}{}
	}

	return vocabulary
}

// countPairs records every unordered in-vocabulary pair per title.
func (g *Grouper) countPairs(keywordSets [][]string, vocabulary map[string]struct{}) []pair {
	counts := make(map[[2]string]int)

	for _, set := range keywordSets {
		var valid []string

		for _, w := range set {
			if _, ok := vocabulary[w]; ok {
				valid = append(valid, w)
			}
		}

		for i, w1 := range valid {
			for _, w2 := range valid[i+1:] {
				if w1 == w2 {
					continue
				}

				key := orderPair(w1, w2)
				counts[key]++
			}
		}
	}

	var pairs []pair

	for key, n := range counts {
		if n < minPairCount {
			continue
		}

		if g.dict.IsMeaninglessPair(key[0], key[1]) {
			continue
		}

		pairs = append(pairs, pair{w1: key[0], w2: key[1], count: n})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}

		if pairs[i].w1 != pairs[j].w1 {
			return pairs[i].w1 < pairs[j].w1
		}

		return pairs[i].w2 < pairs[j].w2
	})

	return pairs
}

// mergePairs folds pairs sharing a word with a stronger seed pair into
// one group. Groups growing past three distinct words collapse to the
// seed's strongest pair so the output stays readable.
func mergePairs(pairs []pair) []domain.WordGroup {
	used := make([]bool, len(pairs))

	var groups []domain.WordGroup

	for i, seed := range pairs {
		if used[i] {
			continue
		}

		used[i] = true

		group := []pair{seed}

		for j := i + 1; j < len(pairs); j++ {
			if used[j] {
				continue
			}

			if sharesWord(seed, pairs[j]) {
				group = append(group, pairs[j])
				used[j] = true
			}
		}

		groups = append(groups, buildGroup(group))
	}

	return groups
}

func buildGroup(group []pair) domain.WordGroup {
	if len(group) == 1 {
		return domain.WordGroup{
			Words:        []string{group[0].w1, group[0].w2},
			CoOccurrence: group[0].count,
		}
	}

	wordSet := make(map[string]struct{})
	maxCount := 0
	strongest := group[0]

	for _, p := range group {
		wordSet[p.w1] = struct{}{}
		wordSet[p.w2] = struct{}{}

		if p.count > maxCount {
			maxCount = p.count
		}

		if p.count > strongest.count {
			strongest = p
		}
	}

	if len(wordSet) > maxGroupWords {
		return domain.WordGroup{
			Words:        []string{strongest.w1, strongest.w2},
			CoOccurrence: maxCount,
		}
	}

	words := make([]string, 0, len(wordSet))
	for w := range wordSet {
		words = append(words, w)
	}

	sort.Strings(words)

	return domain.WordGroup{Words: words, CoOccurrence: maxCount}
}

func sharesWord(a, b pair) bool {
	return a.w1 == b.w1 || a.w1 == b.w2 || a.w2 == b.w1 || a.w2 == b.w2
}

func orderPair(w1, w2 string) [2]string {
	if w1 < w2 {
		return [2]string{w1, w2}
	}

	return [2]string{w2, w1}
}
