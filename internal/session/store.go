package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/waitr/waitr-api/internal/config"
)

// refreshPrefix namespaces refresh session keys in shared backends.
const refreshPrefix = "waitr:refresh:"

// Store maps a refresh token's jti to its owning user id with per-key expiry.
// A session record exists exactly as long as its refresh token is usable;
// Delete revokes the token immediately regardless of remaining TTL.
type Store interface {
	Set(ctx context.Context, jti, userID string, ttl time.Duration) error
	// Get returns the stored owner. ok is false when the key is missing or
	// expired; err reports backend failures only.
	Get(ctx context.Context, jti string) (userID string, ok bool, err error)
	Delete(ctx context.Context, jti string) error
	// Ping is the liveness probe used by health checks.
	Ping(ctx context.Context) error
	Close() error
}

// New selects the store backend from configuration. Call sites hold only the
// Store interface and never branch on the backend.
func New(cfg config.SessionConfig, client *redis.Client, logger *zap.Logger) Store {
	if cfg.Backend == "redis" && client != nil {
		logger.Info("session store backend: redis")
		return NewRedisStore(client)
	}
	logger.Info("session store backend: memory")
	return NewMemoryStore()
}
