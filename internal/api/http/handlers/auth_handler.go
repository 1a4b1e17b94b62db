package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/waitr/waitr-api/internal/api/dto"
	"github.com/waitr/waitr-api/internal/config"
	"github.com/waitr/waitr-api/internal/service"
	apperrors "github.com/waitr/waitr-api/pkg/util"
)

// AuthHandler exposes the OTP login endpoints and manages the refresh
// cookie.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
	secure     bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		auth:       authService,
		cookieName: cfg.Auth.RefreshCookieName,
		secure:     cfg.App.IsProduction(),
	}
}

// SendOTP handles POST /auth/send-otp.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		return apperrors.NewValidationError("email is required", nil)
	}

	if err := h.auth.SendOTP(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// VerifyOTP handles POST /auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.OTP == "" {
		return apperrors.NewValidationError("email and otp are required", nil)
	}

	pair, err := h.auth.VerifyOTP(c.Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, pair.RefreshToken, pair.RefreshExpiresAt)
	return c.JSON(dto.TokenResponse{Token: pair.AccessToken})
}

// Refresh handles POST /auth/refresh. Any failure clears the cookie so the
// client does not retry a token already known to be dead.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(h.cookieName)
	if refreshToken == "" {
		h.clearRefreshCookie(c)
		return apperrors.NewUnauthorizedRefresh("missing refresh token")
	}

	pair, err := h.auth.Refresh(c.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		return err
	}

	h.setRefreshCookie(c, pair.RefreshToken, pair.RefreshExpiresAt)
	return c.JSON(dto.TokenResponse{Token: pair.AccessToken})
}

// Logout handles POST /auth/logout. Clears the cookie regardless of the
// token's validity.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(h.cookieName)
	if err := h.auth.Logout(c.Context(), refreshToken); err != nil {
		h.clearRefreshCookie(c)
		return err
	}
	h.clearRefreshCookie(c)
	return c.JSON(dto.OKResponse{OK: true})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
