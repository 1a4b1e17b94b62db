package domain

import "time"

// MenuCategory groups menu items for display ordering.
type MenuCategory struct {
	ID           string
	RestaurantID string
	Name         string
	SortOrder    int
	CreatedAt    time.Time
}

// MenuItem is an orderable dish. Prices are stored in cents.
type MenuItem struct {
	ID           string
	RestaurantID string
	CategoryID   string
	Name         string
	PriceCents   int64
	IsAvailable  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
