package acquire

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hotboard-io/hotboard/internal/core/domain"
)

var nonDigits = regexp.MustCompile(`\D`)

// parseCount strips everything but digits from a label like "123 喜欢".
func parseCount(text string) float64 {
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return 0
	}

	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}

	return n
}

// doubanFetcher scrapes the group explore page.
type doubanFetcher struct {
	c *client
}

func (f *doubanFetcher) Name() string { return "douban" }

func (f *doubanFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	body, err := f.c.get(ctx, "https://www.douban.com/group/explore")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse douban page: %w", err)
	}

	var items []domain.Item

	doc.Find("div.channel-item").Each(func(i int, sel *goquery.Selection) {
		link := sel.Find("h3 a")

		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		href, _ := link.Attr("href")
		items = append(items, domain.Item{
			Title:    title,
			URL:      href,
			Score:    parseCount(sel.Find("div.likes").Text()),
			Platform: f.Name(),
			Rank:     i + 1,
		})
	})

	return items, nil
}

// v2exFetcher scrapes the hot tab. The page exposes no heat metric, so
// list position stands in for score.
type v2exFetcher struct {
	c *client
}

func (f *v2exFetcher) Name() string { return "v2ex" }

func (f *v2exFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	body, err := f.c.get(ctx, "https://www.v2ex.com/?tab=hot")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse v2ex page: %w", err)
	}

	var items []domain.Item

	doc.Find("div.cell.item").Each(func(i int, sel *goquery.Selection) {
		link := sel.Find("a.topic-link")

		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		href, _ := link.Attr("href")
		if href != "" && !strings.HasPrefix(href, "http") {
			href = "https://www.v2ex.com" + href
		}

		replies := parseCount(sel.Find("a.count_livid").Text())
		if replies == 0 {
			replies = float64(100 - i)
		}

		items = append(items, domain.Item{
			Title:    title,
			URL:      href,
			Score:    replies,
			Platform: f.Name(),
			Rank:     i + 1,
		})
	})

	return items, nil
}
