// Package correlate clusters same-topic items across platforms by
// title similarity.
package correlate

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/lexical"
)

const (
	// DefaultThreshold is the minimum similarity for a cross-platform
	// match.
	DefaultThreshold = 0.25

	// maxClusters caps the returned cluster list.
	maxClusters = 20

	// substringScore is granted when one title (at least 5 runes long)
	// contains the other.
	substringScore = 0.8

	// lengthRatioLimit rejects pairs whose lengths differ too much to
	// plausibly describe the same topic.
	lengthRatioLimit = 3

	// keywordTopK is the per-title keyword set size for the keyword
	// Jaccard component.
	keywordTopK = 5

	// missPenalty is subtracted from the token Jaccard when the two
	// keyword sets share nothing.
	missPenalty = 0.1
)

// Correlator computes title similarity and greedy cross-platform
// clusters.
type Correlator struct {
	toolkit   lexical.Toolkit
	threshold float64
}

// New builds a Correlator. A non-positive threshold falls back to
// DefaultThreshold.
func New(toolkit lexical.Toolkit, threshold float64) *Correlator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Correlator{toolkit: toolkit, threshold: threshold}
}

// Similarity scores two titles in [0, 1]. It is symmetric.
//
// Exact equality scores 1. A length ratio above 3 scores 0. A long
// enough substring containment scores 0.8. Otherwise the score is the
// token-set Jaccard, discarded when the sets share at most one token,
// combined with the keyword-set Jaccard: max of the two when the
// keyword sets overlap, token Jaccard reduced by 0.1 when they do not.
func (c *Correlator) Similarity(t1, t2 string) float64 {
	if t1 == t2 {
		return 1.0
	}

	len1 := utf8.RuneCountInString(t1)
	len2 := utf8.RuneCountInString(t2)

	if len1 == 0 || len2 == 0 {
		return 0
	}

	if max(len1, len2) > lengthRatioLimit*min(len1, len2) {
		return 0
	}

	if len1 >= 5 && strings.Contains(t2, t1) {
		return substringScore
	}

	if len2 >= 5 && strings.Contains(t1, t2) {
		return substringScore
	}

	words1 := tokenSet(c.toolkit.Cut(t1))
	words2 := tokenSet(c.toolkit.Cut(t2))

	if len(words1) == 0 || len(words2) == 0 {
		return 0
	}

	shared := intersectionSize(words1, words2)
	if shared <= 1 {
		return 0
	}

	jaccard := float64(shared) / float64(len(words1)+len(words2)-shared)

	kw1 := keywordSet(c.toolkit.RankTFIDF(t1, keywordTopK))
	kw2 := keywordSet(c.toolkit.RankTFIDF(t2, keywordTopK))

	if len(kw1) == 0 || len(kw2) == 0 {
		return jaccard
	}

	kwShared := intersectionSize(kw1, kw2)
	if kwShared == 0 {
		return math.Max(0, jaccard-missPenalty)
	}

	kwJaccard := float64(kwShared) / float64(len(kw1)+len(kw2)-kwShared)

	return math.Max(jaccard, kwJaccard)
}

// Correlate clusters the snapshot's items across platforms.
//
// Platforms are visited in sorted id order so runs are reproducible
// regardless of registration order. For each unconsumed anchor title
// every other platform is scanned once and the first title above the
// threshold becomes that platform's representative; consumed titles can
// neither seed nor join another cluster. Clusters covering fewer than
// two platforms are dropped. Results are sorted by platform count then
// heat, capped at 20.
func (c *Correlator) Correlate(snapshot domain.DailySnapshot) []domain.TopicCluster {
	platforms := make([]string, 0, len(snapshot))
	for p := range snapshot {
		platforms = append(platforms, p)
	}

	sort.Strings(platforms)

	consumed := make(map[string]bool)

	var clusters []domain.TopicCluster

	for _, anchor := range platforms {
		for _, anchorItem := range snapshot[anchor] {
			title := anchorItem.Title
			if title == "" || consumed[title] {
				continue
			}

			members := []domain.ClusterMember{{
				Platform: anchor,
				Title:    title,
				URL:      anchorItem.URL,
				Score:    anchorItem.Score,
			}}
			found := map[string]bool{anchor: true}

			for _, other := range platforms {
				if other == anchor {
					continue
				}

				for _, candidate := range snapshot[other] {
					if candidate.Title == "" || consumed[candidate.Title] {
						continue
					}

					similarity := c.Similarity(title, candidate.Title)
					if similarity <= c.threshold {
						continue
					}

					members = append(members, domain.ClusterMember{
						Platform:   other,
						Title:      candidate.Title,
						URL:        candidate.URL,
						Score:      candidate.Score,
						Similarity: round2(similarity),
					})
					found[other] = true
					consumed[candidate.Title] = true

					break
				}
			}

			if len(found) < 2 {
				continue
			}

			consumed[title] = true

			clusters = append(clusters, domain.TopicCluster{
				Title:         title,
				PlatformCount: len(found),
				Platforms:     sortedSet(found),
				Heat:          round1(totalHeat(members)),
				Members:       members,
			})
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].PlatformCount != clusters[j].PlatformCount {
			return clusters[i].PlatformCount > clusters[j].PlatformCount
		}

		return clusters[i].Heat > clusters[j].Heat
	})

	if len(clusters) > maxClusters {
		clusters = clusters[:maxClusters]
	}

	return clusters
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))

	for _, t := range tokens {
		if strings.TrimSpace(t) != "" {
			set[t] = struct{}{}
		}
	}

	return set
}

func keywordSet(keywords []domain.Keyword) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[kw.Text] = struct{}{}
	}

	return set
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}

	n := 0

	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}

	return n
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

func totalHeat(members []domain.ClusterMember) float64 {
	var heat float64
	for _, m := range members {
		heat += m.Score
	}

	return heat
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round2(x float64) float64 { return math.Round(x*100) / 100 }
