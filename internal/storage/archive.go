package storage

import (
	"context"
	"fmt"

	"github.com/hotboard-io/hotboard/internal/core/domain"
)

// UpsertItems persists one platform's daily list into the archive.
// Re-fetching the same day updates score and bumps the times counter
// instead of duplicating rows.
func (db *DB) UpsertItems(ctx context.Context, platform, date string, items []domain.Item) error {
	const query = `
		INSERT INTO daily_news (platform, news_date, title, description, link, score, item_rank)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (platform, news_date, title) DO UPDATE SET
			score = EXCLUDED.score,
			item_rank = EXCLUDED.item_rank,
			times = daily_news.times + 1,
			updated_at = now()`

	for i, it := range items {
		if !it.Valid() {
			continue
		}

		rank := it.Rank
		if rank <= 0 {
			rank = i + 1
		}

		if _, err := db.Pool.Exec(ctx, query, platform, date, it.Title, it.Desc, it.URL, it.Score, rank); err != nil {
			return fmt.Errorf("upsert item %q for %s/%s: %w", it.Title, platform, date, err)
		}
	}

	return nil
}

// ListByDate returns a platform's archived items for one date in rank
// order.
func (db *DB) ListByDate(ctx context.Context, platform, date string) ([]domain.Item, error) {
	const query = `
		SELECT title, description, link, score, item_rank
		FROM daily_news
		WHERE platform = $1 AND news_date = $2
		ORDER BY item_rank`

	rows, err := db.Pool.Query(ctx, query, platform, date)
	if err != nil {
		return nil, fmt.Errorf("list archive %s/%s: %w", platform, date, err)
	}
	defer rows.Close()

	var items []domain.Item

	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.Title, &it.Desc, &it.URL, &it.Score, &it.Rank); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}

		it.Platform = platform
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archive rows: %w", err)
	}

	return items, nil
}
