package acquire

import (
	"context"
	"fmt"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/hotboard-io/hotboard/internal/core/domain"
)

// rssFetcher adapts any syndication feed to the trending-item shape.
// Feeds carry no popularity metric, so list position stands in for
// score.
type rssFetcher struct {
	name string
	url  string
}

// NewRSS builds a fetcher for one feed under the given platform id.
func NewRSS(name, url string) Fetcher {
	return &rssFetcher{name: name, url: url}
}

func (f *rssFetcher) Name() string { return f.name }

func (f *rssFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	feed, err := gofeed.NewParser().ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.url, err)
	}

	items := make([]domain.Item, 0, len(feed.Items))

	for i, entry := range feed.Items {
		if entry.Title == "" {
			continue
		}

		it := domain.Item{
			Title:    entry.Title,
			URL:      entry.Link,
			Desc:     entry.Description,
			Score:    float64(len(feed.Items) - i),
			Platform: f.name,
			Rank:     i + 1,
		}

		if entry.Published != "" {
			if ts, err := dateparse.ParseAny(entry.Published); err == nil {
				it.UpdateTime = ts.Format("2006-01-02 15:04:05")
			}
		}

		items = append(items, it)
	}

	return items, nil
}
