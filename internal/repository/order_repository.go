package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waitr/waitr-api/internal/domain"
)

// OrderRepository defines persistence access for orders and their line items.
type OrderRepository interface {
	// Create inserts the order and its items in one transaction, filling
	// generated ids and timestamps on the passed order.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertOrder = `
        INSERT INTO orders (restaurant_id, table_id, status, total_cents)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, insertOrder,
		order.RestaurantID,
		order.TableID,
		order.Status,
		order.TotalCents,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	const insertItem = `
        INSERT INTO order_items (order_id, menu_item_id, name_snapshot, price_cents_snapshot, quantity)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRow(ctx, insertItem,
			item.OrderID,
			item.MenuItemID,
			item.NameSnapshot,
			item.PriceCentsSnap,
			item.Quantity,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
        SELECT id, restaurant_id, table_id, status, total_cents, created_at, updated_at
        FROM orders WHERE id=$1`

	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.RestaurantID,
		&order.TableID,
		&order.Status,
		&order.TotalCents,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	table, err := r.getTable(ctx, order.TableID)
	if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}
	order.Table = table
	return &order, nil
}

func (r *orderRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Order, error) {
	const query = `
        SELECT o.id, o.restaurant_id, o.table_id, o.status, o.total_cents, o.created_at, o.updated_at,
               t.id, t.restaurant_id, t.table_number, t.created_at
        FROM orders o
        JOIN tables t ON t.id = o.table_id
        WHERE o.restaurant_id=$1
        ORDER BY o.created_at DESC`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		var order domain.Order
		var table domain.Table
		if err := rows.Scan(
			&order.ID,
			&order.RestaurantID,
			&order.TableID,
			&order.Status,
			&order.TotalCents,
			&order.CreatedAt,
			&order.UpdatedAt,
			&table.ID,
			&table.RestaurantID,
			&table.TableNumber,
			&table.CreatedAt,
		); err != nil {
			return nil, err
		}
		order.Table = &table
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}

	itemsByOrder, err := r.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	const query = `
        UPDATE orders SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING id`

	var updated string
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(&updated); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *orderRepository) listItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	const query = `
        SELECT id, order_id, menu_item_id, name_snapshot, price_cents_snapshot, quantity
        FROM order_items WHERE order_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MenuItemID,
			&item.NameSnapshot,
			&item.PriceCentsSnap,
			&item.Quantity,
		); err != nil {
			return nil, err
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

func (r *orderRepository) getTable(ctx context.Context, tableID string) (*domain.Table, error) {
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
