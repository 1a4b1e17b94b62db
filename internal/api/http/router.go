package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/waitr/waitr-api/internal/api/http/handlers"
	"github.com/waitr/waitr-api/internal/auth"
	"github.com/waitr/waitr-api/internal/config"
	"github.com/waitr/waitr-api/internal/events"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Menu           *handlers.MenuHandler
	Cart           *handlers.CartHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.AuthMiddleware
	Bus            *events.Bus
	RateLimit      config.RateLimitConfig
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	globalLimiter := NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	authLimiter := NewRateLimiter(rate.Limit(cfg.RateLimit.AuthRPS), cfg.RateLimit.AuthBurst)
	app.Use(globalLimiter.Handle)

	authGroup := app.Group("/auth")
	authGroup.Post("/send-otp", authLimiter.Handle, cfg.Auth.SendOTP)
	authGroup.Post("/verify-otp", authLimiter.Handle, cfg.Auth.VerifyOTP)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)

	app.Get("/restaurants/:slug/menu", cfg.Menu.GetBySlug)

	app.Get("/cart", cfg.Cart.Get)
	app.Put("/cart", cfg.Cart.Put)

	app.Post("/orders", cfg.Orders.Create)
	protected := app.Group("/orders", cfg.AuthMiddleware.Handle)
	protected.Get("/", cfg.Orders.List)
	protected.Patch("/:id/status", cfg.Orders.UpdateStatus)

	app.Use("/ws", events.UpgradeRequired)
	app.Get("/ws", events.Handler(cfg.Bus, cfg.Logger))
}
