package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/waitr/waitr-api/internal/api/dto"
	"github.com/waitr/waitr-api/internal/config"
	"github.com/waitr/waitr-api/internal/service"
	apperrors "github.com/waitr/waitr-api/pkg/util"
)

const cartSessionCookie = "cart_session"

// CartHandler exposes the anonymous diner cart. The cart is identified by an
// httpOnly session cookie minted on first touch; no authentication involved.
type CartHandler struct {
	cart   *service.CartService
	ttl    time.Duration
	secure bool
}

// NewCartHandler constructs handler.
func NewCartHandler(cartService *service.CartService, cfg config.Config) *CartHandler {
	return &CartHandler{
		cart:   cartService,
		ttl:    cfg.Cart.TTL(),
		secure: cfg.App.IsProduction(),
	}
}

// Get handles GET /cart.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	sessionID := h.sessionID(c)

	items, err := h.cart.Get(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(toCartResponse(items))
}

// Put handles PUT /cart, replacing the cart wholesale.
func (h *CartHandler) Put(c *fiber.Ctx) error {
	var req dto.CartRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	items := make([]service.CartItem, 0, len(req.Items))
	for _, line := range req.Items {
		if line.MenuItemID == "" || line.Quantity < 1 {
			return apperrors.NewValidationError("each item needs a menu_item_id and a positive quantity", nil)
		}
		items = append(items, service.CartItem{MenuItemID: line.MenuItemID, Quantity: line.Quantity})
	}

	sessionID := h.sessionID(c)
	if err := h.cart.Set(c.Context(), sessionID, items); err != nil {
		return err
	}
	return c.JSON(toCartResponse(items))
}

// sessionID returns the cart session cookie, minting one when absent.
func (h *CartHandler) sessionID(c *fiber.Ctx) string {
	if id := c.Cookies(cartSessionCookie); id != "" {
		return id
	}

	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     cartSessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(h.ttl),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id
}

func toCartResponse(items []service.CartItem) dto.CartResponse {
	out := dto.CartResponse{Items: make([]dto.CartLine, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, dto.CartLine{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
	}
	return out
}
