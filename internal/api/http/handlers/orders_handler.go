package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waitr/waitr-api/internal/api/dto"
	"github.com/waitr/waitr-api/internal/auth"
	"github.com/waitr/waitr-api/internal/service"
	apperrors "github.com/waitr/waitr-api/pkg/util"
)

// OrdersHandler exposes order placement and kitchen endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Create handles POST /orders (public, diner-facing).
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TableID == "" || len(req.Items) == 0 {
		return apperrors.NewValidationError("table_id and items are required", nil)
	}

	lines := make([]service.OrderLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLineInput{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
	}

	order, err := h.orders.Create(c.Context(), req.TableID, lines)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(service.SerializeOrder(order))
}

// List handles GET /orders?restaurant_id= (kitchen polling fallback).
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	restaurantID := c.Query("restaurant_id")
	if restaurantID == "" {
		return apperrors.NewValidationError("restaurant_id query is required", nil)
	}

	orders, err := h.orders.ListByRestaurant(c.Context(), principal.User.ID, restaurantID)
	if err != nil {
		return err
	}

	out := make([]service.SerializedOrder, 0, len(orders))
	for i := range orders {
		out = append(out, service.SerializeOrder(&orders[i]))
	}
	return c.JSON(out)
}

// UpdateStatus handles PATCH /orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	orderID := c.Params("id")
	var req dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if orderID == "" || req.Status == "" {
		return apperrors.NewValidationError("order id and status are required", nil)
	}

	order, err := h.orders.UpdateStatus(c.Context(), principal.User.ID, orderID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(service.SerializeOrder(order))
}
