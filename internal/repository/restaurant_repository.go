package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waitr/waitr-api/internal/domain"
)

// RestaurantRepository defines persistence access for venues and tables.
type RestaurantRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Restaurant, error)
	GetTable(ctx context.Context, tableID string) (*domain.Table, error)
	ListTables(ctx context.Context, restaurantID string) ([]domain.Table, error)
	// IsMember reports whether the user belongs to the restaurant's owner set.
	IsMember(ctx context.Context, userID, restaurantID string) (bool, error)
}

type restaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository returns a Postgres-backed implementation.
func NewRestaurantRepository(pool *pgxpool.Pool) RestaurantRepository {
	return &restaurantRepository{pool: pool}
}

func (r *restaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	const query = `
        SELECT id, name, slug, created_at, updated_at
        FROM restaurants WHERE id=$1`

	return r.scanRestaurant(r.pool.QueryRow(ctx, query, id))
}

func (r *restaurantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	const query = `
        SELECT id, name, slug, created_at, updated_at
        FROM restaurants WHERE slug=$1`

	return r.scanRestaurant(r.pool.QueryRow(ctx, query, slug))
}

func (r *restaurantRepository) scanRestaurant(row pgx.Row) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	if err := row.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.Slug,
		&restaurant.CreatedAt,
		&restaurant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetTable(ctx context.Context, tableID string) (*domain.Table, error) {
	const query = `
        SELECT id, restaurant_id, table_number, created_at
        FROM tables WHERE id=$1`

	var table domain.Table
	if err := r.pool.QueryRow(ctx, query, tableID).Scan(
		&table.ID,
		&table.RestaurantID,
		&table.TableNumber,
		&table.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *restaurantRepository) ListTables(ctx context.Context, restaurantID string) ([]domain.Table, error) {
	const query = `
        SELECT id, restaurant_id, table_number, created_at
        FROM tables WHERE restaurant_id=$1
        ORDER BY table_number ASC`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var table domain.Table
		if err := rows.Scan(&table.ID, &table.RestaurantID, &table.TableNumber, &table.CreatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *restaurantRepository) IsMember(ctx context.Context, userID, restaurantID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM restaurant_members
            WHERE user_id=$1 AND restaurant_id=$2
        )`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, restaurantID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
