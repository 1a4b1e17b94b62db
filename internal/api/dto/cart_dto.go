package dto

// CartLine is one item of the anonymous cart payload.
type CartLine struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CartRequest payload for replacing the cart.
type CartRequest struct {
	Items []CartLine `json:"items"`
}

// CartResponse returns the current cart contents.
type CartResponse struct {
	Items []CartLine `json:"items"`
}
