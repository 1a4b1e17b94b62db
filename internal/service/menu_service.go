package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/waitr/waitr-api/internal/repository"
	apperrors "github.com/waitr/waitr-api/pkg/util"
)

const menuCachePrefix = "menu:"

// MenuCache is the read-through cache for rendered public menus. Failures
// must degrade to the database, so implementations report misses rather
// than errors.
type MenuCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

// PublicMenu is the diner-facing menu payload, cached as JSON by slug.
type PublicMenu struct {
	Restaurant PublicRestaurant `json:"restaurant"`
	Tables     []PublicTable    `json:"tables"`
	Categories []PublicCategory `json:"categories"`
}

// PublicRestaurant identifies the venue on the public menu.
type PublicRestaurant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PublicTable is a table selectable when ordering.
type PublicTable struct {
	ID          string `json:"id"`
	TableNumber int    `json:"table_number"`
}

// PublicCategory groups the available items for display.
type PublicCategory struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	SortOrder int          `json:"sort_order"`
	Items     []PublicItem `json:"items"`
}

// PublicItem is an orderable dish with its current price.
type PublicItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// MenuService serves the public menu with a slug-keyed read-through cache.
type MenuService struct {
	restaurants repository.RestaurantRepository
	menu        repository.MenuRepository
	cache       MenuCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewMenuService builds the service. cache may be nil to disable caching.
func NewMenuService(restaurants repository.RestaurantRepository, menu repository.MenuRepository, cache MenuCache, cacheTTL time.Duration, logger *zap.Logger) *MenuService {
	return &MenuService{
		restaurants: restaurants,
		menu:        menu,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// GetBySlug returns the public menu for a restaurant slug, serving from
// cache within the TTL and falling back to the database on a miss.
func (s *MenuService) GetBySlug(ctx context.Context, slug string) (*PublicMenu, error) {
	key := menuCachePrefix + slug

	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached PublicMenu
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Debug("menu cache entry unreadable, reloading", zap.String("slug", slug))
		}
	}

	menu, err := s.load(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(menu); err == nil {
			s.cache.Set(ctx, key, raw, s.cacheTTL)
		}
	}
	return menu, nil
}

func (s *MenuService) load(ctx context.Context, slug string) (*PublicMenu, error) {
	restaurant, err := s.restaurants.GetBySlug(ctx, slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("restaurant", map[string]any{"slug": slug})
		}
		return nil, err
	}

	tables, err := s.restaurants.ListTables(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}

	categories, err := s.menu.ListCategories(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}

	items, err := s.menu.ListAvailableItems(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}

	itemsByCategory := make(map[string][]PublicItem)
	for _, item := range items {
		itemsByCategory[item.CategoryID] = append(itemsByCategory[item.CategoryID], PublicItem{
			ID:         item.ID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
		})
	}

	menu := &PublicMenu{
		Restaurant: PublicRestaurant{ID: restaurant.ID, Name: restaurant.Name, Slug: restaurant.Slug},
		Tables:     make([]PublicTable, 0, len(tables)),
		Categories: make([]PublicCategory, 0, len(categories)),
	}
	for _, table := range tables {
		menu.Tables = append(menu.Tables, PublicTable{ID: table.ID, TableNumber: table.TableNumber})
	}
	for _, category := range categories {
		menu.Categories = append(menu.Categories, PublicCategory{
			ID:        category.ID,
			Name:      category.Name,
			SortOrder: category.SortOrder,
			Items:     itemsByCategory[category.ID],
		})
	}
	return menu, nil
}

// redisMenuCache backs MenuCache with Redis; errors are logged at debug and
// treated as misses so cache trouble never fails a menu read.
type redisMenuCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisMenuCache wraps a go-redis client as a MenuCache.
func NewRedisMenuCache(client *redis.Client, logger *zap.Logger) MenuCache {
	return &redisMenuCache{client: client, logger: logger}
}

func (c *redisMenuCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("menu cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

func (c *redisMenuCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, val, ttl).Err(); err != nil {
		c.logger.Debug("menu cache write failed", zap.Error(err))
	}
}
