package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cartKeyPrefix = "cart:"

// CartItem is one line of an anonymous diner cart, stored as JSON in Redis.
type CartItem struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CartStorage is the keyed byte store behind carts. Unlike the menu cache,
// the cart has no database fallback, so backend errors propagate.
type CartStorage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CartService keeps per-session carts in expiring storage. Sessions are
// anonymous cookie ids; a cart untouched past the TTL simply vanishes.
type CartService struct {
	storage CartStorage
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCartService builds the service.
func NewCartService(storage CartStorage, ttl time.Duration, logger *zap.Logger) *CartService {
	return &CartService{storage: storage, ttl: ttl, logger: logger}
}

// Get returns the session's cart. A missing key or an unreadable record is an
// empty cart, never an error; entries with no item id or a non-positive
// quantity are dropped on read.
func (s *CartService) Get(ctx context.Context, sessionID string) ([]CartItem, error) {
	raw, ok, err := s.storage.Get(ctx, cartKeyPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []CartItem{}, nil
	}

	var stored []CartItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Debug("cart record unreadable, treating as empty", zap.String("session_id", sessionID))
		return []CartItem{}, nil
	}

	items := make([]CartItem, 0, len(stored))
	for _, item := range stored {
		if item.MenuItemID == "" || item.Quantity < 1 {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Set replaces the session's cart and restarts its TTL. An empty item list
// deletes the record outright.
func (s *CartService) Set(ctx context.Context, sessionID string, items []CartItem) error {
	key := cartKeyPrefix + sessionID
	if len(items) == 0 {
		return s.storage.Delete(ctx, key)
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, key, raw, s.ttl)
}

type redisCartStorage struct {
	client *redis.Client
}

// NewRedisCartStorage wraps a go-redis client as CartStorage.
func NewRedisCartStorage(client *redis.Client) CartStorage {
	return &redisCartStorage{client: client}
}

func (r *redisCartStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *redisCartStorage) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

func (r *redisCartStorage) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
