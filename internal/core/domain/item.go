// Package domain defines the data model shared by the acquisition,
// storage and analysis layers.
//
// Items are produced by per-platform fetchers and stored as daily
// snapshots. Everything derived from them (keywords, clusters, trend
// records, forecasts) is recomputed per run and cached with a TTL; the
// analysis engine never mutates a snapshot it was given.
package domain

import "strings"

// Item is one trending entry from one platform on one day.
//
// Score is the platform-native popularity metric; units are not
// comparable across platforms. Rank is the 1-based position within the
// platform list and is derived from list order when the source does not
// provide one.
type Item struct {
	Title      string  `json:"title"`
	URL        string  `json:"url,omitempty"`
	Desc       string  `json:"desc,omitempty"`
	Score      float64 `json:"score"`
	Platform   string  `json:"platform,omitempty"`
	Rank       int     `json:"rank,omitempty"`
	UpdateTime string  `json:"update_time,omitempty"`
}

// Valid reports whether the item carries the minimum required fields.
// Malformed items are skipped individually, never failing a whole batch.
func (it Item) Valid() bool {
	return strings.TrimSpace(it.Title) != "" && it.Score >= 0
}

// DailySnapshot maps a platform id to its ordered item list for one date.
type DailySnapshot map[string][]Item

// Titles returns every non-empty title across all platforms.
func (s DailySnapshot) Titles() []string {
	var titles []string

	for _, items := range s {
		for _, it := range items {
			if it.Title != "" {
				titles = append(titles, it.Title)
			}
		}
	}

	return titles
}

// Texts returns every non-empty title and description across all platforms.
func (s DailySnapshot) Texts() []string {
	var texts []string

	for _, items := range s {
		for _, it := range items {
			if it.Title != "" {
				texts = append(texts, it.Title)
			}

			if it.Desc != "" {
				texts = append(texts, it.Desc)
			}
		}
	}

	return texts
}

// Empty reports whether the snapshot holds no items at all.
func (s DailySnapshot) Empty() bool {
	for _, items := range s {
		if len(items) > 0 {
			return false
		}
	}

	return true
}
