package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hotboard-io/hotboard/internal/core/domain"
)

// weiboFetcher reads the realtime hot-search side api.
type weiboFetcher struct {
	c *client
}

func (f *weiboFetcher) Name() string { return "weibo" }

func (f *weiboFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	body, err := f.c.get(ctx, "https://weibo.com/ajax/side/hotSearch")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data struct {
			Realtime []struct {
				Word string  `json:"word"`
				Num  float64 `json:"num"`
			} `json:"realtime"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode weibo response: %w", err)
	}

	items := make([]domain.Item, 0, len(payload.Data.Realtime))

	for i, entry := range payload.Data.Realtime {
		if entry.Word == "" {
			continue
		}

		items = append(items, domain.Item{
			Title:    entry.Word,
			URL:      "https://s.weibo.com/weibo?q=" + url.QueryEscape(entry.Word),
			Score:    entry.Num,
			Platform: f.Name(),
			Rank:     i + 1,
		})
	}

	return items, nil
}

// tiebaFetcher reads the hot-topic browse list.
type tiebaFetcher struct {
	c *client
}

func (f *tiebaFetcher) Name() string { return "tieba" }

func (f *tiebaFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	body, err := f.c.get(ctx, "https://tieba.baidu.com/hottopic/browse/topicList")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data struct {
			BangTopic struct {
				TopicList []struct {
					TopicName  string      `json:"topic_name"`
					TopicDesc  string      `json:"topic_desc"`
					TopicURL   string      `json:"topic_url"`
					DiscussNum json.Number `json:"discuss_num"`
				} `json:"topic_list"`
			} `json:"bang_topic"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode tieba response: %w", err)
	}

	topics := payload.Data.BangTopic.TopicList
	items := make([]domain.Item, 0, len(topics))

	for i, topic := range topics {
		if topic.TopicName == "" {
			continue
		}

		score, _ := topic.DiscussNum.Float64()
		items = append(items, domain.Item{
			Title:    topic.TopicName,
			URL:      topic.TopicURL,
			Desc:     topic.TopicDesc,
			Score:    score,
			Platform: f.Name(),
			Rank:     i + 1,
		})
	}

	return items, nil
}

// juejinFetcher reads the hot article rank api.
type juejinFetcher struct {
	c *client
}

func (f *juejinFetcher) Name() string { return "juejin" }

func (f *juejinFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	body, err := f.c.get(ctx, "https://api.juejin.cn/content_api/v1/content/article_rank?category_id=1&type=hot")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			Content struct {
				Title     string `json:"title"`
				ContentID string `json:"content_id"`
			} `json:"content"`
			ContentCounter struct {
				View float64 `json:"view"`
			} `json:"content_counter"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode juejin response: %w", err)
	}

	items := make([]domain.Item, 0, len(payload.Data))

	for i, entry := range payload.Data {
		if entry.Content.Title == "" {
			continue
		}

		items = append(items, domain.Item{
			Title:    entry.Content.Title,
			URL:      "https://juejin.cn/post/" + entry.Content.ContentID,
			Score:    entry.ContentCounter.View,
			Platform: f.Name(),
			Rank:     i + 1,
		})
	}

	return items, nil
}

// bilibiliFetcher reads the popular ranking api.
type bilibiliFetcher struct {
	c *client
}

func (f *bilibiliFetcher) Name() string { return "bilibili" }

func (f *bilibiliFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	body, err := f.c.get(ctx, "https://api.bilibili.com/x/web-interface/ranking/v2?rid=0&type=all")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data struct {
			List []struct {
				Title    string `json:"title"`
				ShortURL string `json:"short_link_v2"`
				Desc     string `json:"desc"`
				Stat     struct {
					View float64 `json:"view"`
				} `json:"stat"`
			} `json:"list"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode bilibili response: %w", err)
	}

	items := make([]domain.Item, 0, len(payload.Data.List))

	for i, entry := range payload.Data.List {
		if entry.Title == "" {
			continue
		}

		items = append(items, domain.Item{
			Title:    entry.Title,
			URL:      entry.ShortURL,
			Desc:     entry.Desc,
			Score:    entry.Stat.View,
			Platform: f.Name(),
			Rank:     i + 1,
		})
	}

	return items, nil
}

// zhihuFetcher reads the hot-list api. Detail text carries the heat as
// "<n> 万热度".
type zhihuFetcher struct {
	c *client
}

func (f *zhihuFetcher) Name() string { return "zhihu" }

func (f *zhihuFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	body, err := f.c.get(ctx, "https://www.zhihu.com/api/v3/feed/topstory/hot-lists/total?limit=50")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			DetailText string `json:"detail_text"`
			Target     struct {
				ID      json.Number `json:"id"`
				Title   string      `json:"title"`
				Excerpt string      `json:"excerpt"`
			} `json:"target"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode zhihu response: %w", err)
	}

	items := make([]domain.Item, 0, len(payload.Data))

	for i, entry := range payload.Data {
		if entry.Target.Title == "" {
			continue
		}

		items = append(items, domain.Item{
			Title:    entry.Target.Title,
			URL:      "https://www.zhihu.com/question/" + entry.Target.ID.String(),
			Desc:     entry.Target.Excerpt,
			Score:    parseZhihuHeat(entry.DetailText),
			Platform: f.Name(),
			Rank:     i + 1,
		})
	}

	return items, nil
}

// parseZhihuHeat extracts the numeric prefix of strings like
// "1234 万热度". 万-scaled values are expanded to raw counts.
func parseZhihuHeat(detail string) float64 {
	var digits []rune

	for _, r := range detail {
		if r >= '0' && r <= '9' || r == '.' {
			digits = append(digits, r)
			continue
		}

		break
	}

	if len(digits) == 0 {
		return 0
	}

	n, err := strconv.ParseFloat(string(digits), 64)
	if err != nil {
		return 0
	}

	for _, r := range detail {
		if r == '万' {
			return n * 10000
		}
	}

	return n
}
