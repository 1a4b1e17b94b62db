package domain

import "time"

// OrderStatus enumerates kitchen lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusNew, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted:
		return true
	}
	return false
}

// Order is a diner order placed from a table.
type Order struct {
	ID           string
	RestaurantID string
	TableID      string
	Status       OrderStatus
	TotalCents   int64
	Items        []OrderItem
	Table        *Table
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem is a line item carrying name and price snapshots taken at
// ordering time, so later menu edits do not rewrite order history.
type OrderItem struct {
	ID             string
	OrderID        string
	MenuItemID     string
	NameSnapshot   string
	PriceCentsSnap int64
	Quantity       int
}
