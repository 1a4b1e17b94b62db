package dto

// OrderLine is one requested item of a new order.
type OrderLine struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CreateOrderRequest payload for diner order placement.
type CreateOrderRequest struct {
	TableID string      `json:"table_id"`
	Items   []OrderLine `json:"items"`
}

// UpdateOrderStatusRequest payload for kitchen status changes.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
