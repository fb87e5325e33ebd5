package wardroberepo

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

// PostgresRepository reads wardrobe items from Postgres.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{pool: pool, logger: logger.With("component", "wardroberepo.postgres")}
}

// ListByUser implements outfit.ItemRepository. Rows with an unknown category are skipped.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]outfit.WardrobeItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, category, colors, season, style, custom_tags, occasions
		FROM wardrobe_items
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]outfit.WardrobeItem, 0)
	for rows.Next() {
		item, ok, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		if !ok {
			r.logger.Warn("skipping wardrobe item with unknown category", "item_id", item.ID)
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row pgx.Row) (outfit.WardrobeItem, bool, error) {
	var (
		item     outfit.WardrobeItem
		category string
	)
	if err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&category,
		&item.Colors,
		&item.Season,
		&item.Style,
		&item.CustomTags,
		&item.Occasions,
	); err != nil {
		return outfit.WardrobeItem{}, false, err
	}
	parsed, ok := outfit.ParseCategory(category)
	item.Category = parsed
	return item, ok, nil
}

var _ outfit.ItemRepository = (*PostgresRepository)(nil)
