package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waitr/waitr-api/internal/domain"
)

// MenuRepository defines read access to menu categories and items.
type MenuRepository interface {
	ListCategories(ctx context.Context, restaurantID string) ([]domain.MenuCategory, error)
	ListAvailableItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	// GetAvailableItemsByIDs returns the subset of ids that exist for the
	// restaurant and are currently available.
	GetAvailableItemsByIDs(ctx context.Context, restaurantID string, ids []string) ([]domain.MenuItem, error)
}

type menuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a Postgres-backed implementation.
func NewMenuRepository(pool *pgxpool.Pool) MenuRepository {
	return &menuRepository{pool: pool}
}

func (r *menuRepository) ListCategories(ctx context.Context, restaurantID string) ([]domain.MenuCategory, error) {
	const query = `
        SELECT id, restaurant_id, name, sort_order, created_at
        FROM menu_categories WHERE restaurant_id=$1
        ORDER BY sort_order ASC`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.MenuCategory
	for rows.Next() {
		var category domain.MenuCategory
		if err := rows.Scan(
			&category.ID,
			&category.RestaurantID,
			&category.Name,
			&category.SortOrder,
			&category.CreatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *menuRepository) ListAvailableItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	const query = `
        SELECT id, restaurant_id, category_id, name, price_cents, is_available, created_at, updated_at
        FROM menu_items
        WHERE restaurant_id=$1 AND is_available=TRUE
        ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenuItems(rows)
}

func (r *menuRepository) GetAvailableItemsByIDs(ctx context.Context, restaurantID string, ids []string) ([]domain.MenuItem, error) {
	const query = `
        SELECT id, restaurant_id, category_id, name, price_cents, is_available, created_at, updated_at
        FROM menu_items
        WHERE restaurant_id=$1 AND is_available=TRUE AND id = ANY($2)`

	rows, err := r.pool.Query(ctx, query, restaurantID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenuItems(rows)
}

func scanMenuItems(rows pgx.Rows) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID,
			&item.RestaurantID,
			&item.CategoryID,
			&item.Name,
			&item.PriceCents,
			&item.IsAvailable,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
