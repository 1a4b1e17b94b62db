package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/waitr/waitr-api/internal/service"
	apperrors "github.com/waitr/waitr-api/pkg/util"
)

// MenuHandler exposes the public menu endpoint.
type MenuHandler struct {
	menu *service.MenuService
}

// NewMenuHandler constructs handler.
func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menu: menuService}
}

// GetBySlug handles GET /restaurants/:slug/menu.
func (h *MenuHandler) GetBySlug(c *fiber.Ctx) error {
	slug := strings.ToLower(c.Params("slug"))
	if slug == "" {
		return apperrors.NewValidationError("slug is required", nil)
	}

	menu, err := h.menu.GetBySlug(c.Context(), slug)
	if err != nil {
		return err
	}
	return c.JSON(menu)
}
