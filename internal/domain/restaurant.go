package domain

import "time"

// Restaurant is a venue onboarded by an owner. The public menu is addressed
// by its slug.
type Restaurant struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Table is a physical table diners order from via its QR code.
type Table struct {
	ID           string
	RestaurantID string
	TableNumber  int
	CreatedAt    time.Time
}
