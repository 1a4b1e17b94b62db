package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/waitr/waitr-api/internal/api/http"
	"github.com/waitr/waitr-api/internal/api/http/handlers"
	"github.com/waitr/waitr-api/internal/auth"
	"github.com/waitr/waitr-api/internal/config"
	"github.com/waitr/waitr-api/internal/events"
	"github.com/waitr/waitr-api/internal/observability"
	"github.com/waitr/waitr-api/internal/persistence"
	"github.com/waitr/waitr-api/internal/repository"
	"github.com/waitr/waitr-api/internal/service"
	"github.com/waitr/waitr-api/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	sessionStore := session.New(cfg.Session, redis.Client, logger)
	defer sessionStore.Close() //nolint:errcheck

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	otpRepo := repository.NewOTPRepository(pool)
	restaurantRepo := repository.NewRestaurantRepository(pool)
	menuRepo := repository.NewMenuRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	metrics := observability.NewMetrics()
	bus := events.NewBus(logger)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL())
	mailer := service.NewSMTPMailer(cfg.Mail, cfg.Auth.OTPTTLMinutes)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:     userRepo,
		OTPRepo:      otpRepo,
		SessionStore: sessionStore,
		TokenManager: tokenManager,
		Mailer:       mailer,
		Logger:       logger,
	})
	menuService := service.NewMenuService(restaurantRepo, menuRepo,
		service.NewRedisMenuCache(redis.Client, logger), cfg.MenuCache.TTL(), logger)
	cartService := service.NewCartService(service.NewRedisCartStorage(redis.Client), cfg.Cart.TTL(), logger)
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:      orderRepo,
		MenuRepo:       menuRepo,
		RestaurantRepo: restaurantRepo,
		Bus:            bus,
		Logger:         logger,
	})

	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, sessionStore),
		Auth:           handlers.NewAuthHandler(authService, *cfg),
		Menu:           handlers.NewMenuHandler(menuService),
		Cart:           handlers.NewCartHandler(cartService, *cfg),
		Orders:         handlers.NewOrdersHandler(orderService),
		AuthMiddleware: authMiddleware,
		Bus:            bus,
		RateLimit:      cfg.RateLimit,
		Logger:         logger,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
