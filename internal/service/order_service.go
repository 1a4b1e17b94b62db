package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/waitr/waitr-api/internal/domain"
	"github.com/waitr/waitr-api/internal/events"
	"github.com/waitr/waitr-api/internal/repository"
	apperrors "github.com/waitr/waitr-api/pkg/util"
)

// OrderLineInput is one requested line of a new order.
type OrderLineInput struct {
	MenuItemID string
	Quantity   int
}

// OrderService coordinates order placement, kitchen listing and status
// changes, and publishes order events to the kitchen fan-out bus.
type OrderService struct {
	orders      repository.OrderRepository
	menu        repository.MenuRepository
	restaurants repository.RestaurantRepository
	bus         events.Publisher
	logger      *zap.Logger
}

// OrderDependencies bundles collaborator requirements for the order service.
type OrderDependencies struct {
	OrderRepo      repository.OrderRepository
	MenuRepo       repository.MenuRepository
	RestaurantRepo repository.RestaurantRepository
	Bus            events.Publisher
	Logger         *zap.Logger
}

// NewOrderService builds the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:      deps.OrderRepo,
		menu:        deps.MenuRepo,
		restaurants: deps.RestaurantRepo,
		bus:         deps.Bus,
		logger:      deps.Logger,
	}
}

// Create places a diner order from a table. Every line's menu item must
// exist, belong to the table's restaurant and be available. Name and price
// are snapshotted per line; the total is the sum of price times quantity.
// The order_created event is published best-effort after the write commits.
func (s *OrderService) Create(ctx context.Context, tableID string, lines []OrderLineInput) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, apperrors.NewValidationError("at least one item required", nil)
	}

	table, err := s.restaurants.GetTable(ctx, tableID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("table not found", map[string]any{"table_id": tableID})
		}
		return nil, err
	}

	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, apperrors.NewValidationError("invalid item quantity", nil)
		}
		if _, dup := seen[line.MenuItemID]; !dup {
			seen[line.MenuItemID] = struct{}{}
			ids = append(ids, line.MenuItemID)
		}
	}

	items, err := s.menu.GetAvailableItemsByIDs(ctx, table.RestaurantID, ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(ids) {
		return nil, apperrors.NewValidationError("invalid or unavailable menu items", nil)
	}

	byID := make(map[string]domain.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	order := &domain.Order{
		RestaurantID: table.RestaurantID,
		TableID:      table.ID,
		Status:       domain.OrderStatusNew,
	}
	for _, line := range lines {
		item := byID[line.MenuItemID]
		order.TotalCents += item.PriceCents * int64(line.Quantity)
		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID:     item.ID,
			NameSnapshot:   item.Name,
			PriceCentsSnap: item.PriceCents,
			Quantity:       line.Quantity,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	order.Table = table

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("restaurant_id", order.RestaurantID),
		zap.String("table_id", order.TableID),
		zap.Int64("total_cents", order.TotalCents),
	)
	s.bus.Publish(order.RestaurantID, events.EventOrderCreated, SerializeOrder(order))
	return order, nil
}

// ListByRestaurant returns the restaurant's orders, newest first, for the
// kitchen display's polling fallback. The caller must be a member.
func (s *OrderService) ListByRestaurant(ctx context.Context, userID, restaurantID string) ([]domain.Order, error) {
	if err := s.requireMember(ctx, userID, restaurantID); err != nil {
		return nil, err
	}
	return s.orders.ListByRestaurant(ctx, restaurantID)
}

// UpdateStatus moves an order to a new kitchen status and publishes the
// order_status_updated event best-effort.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID string, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
		}
		return nil, err
	}

	if err := s.requireMember(ctx, userID, order.RestaurantID); err != nil {
		return nil, err
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatus(status))
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("order_id", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	s.bus.Publish(updated.RestaurantID, events.EventOrderStatusUpdated, map[string]any{
		"orderId": updated.ID,
		"status":  updated.Status,
	})
	return updated, nil
}

func (s *OrderService) requireMember(ctx context.Context, userID, restaurantID string) error {
	member, err := s.restaurants.IsMember(ctx, userID, restaurantID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.NewForbidden("not a member of this restaurant")
	}
	return nil
}

// SerializedOrder is the order payload pushed over the socket channel and
// returned by the orders endpoints.
type SerializedOrder struct {
	ID         string                `json:"id"`
	Status     domain.OrderStatus    `json:"status"`
	TotalCents int64                 `json:"total_cents"`
	CreatedAt  string                `json:"created_at"`
	Table      *SerializedTable      `json:"table"`
	Items      []SerializedOrderItem `json:"items"`
}

// SerializedTable identifies the ordering table.
type SerializedTable struct {
	ID          string `json:"id"`
	TableNumber int    `json:"table_number"`
}

// SerializedOrderItem is a line item with its snapshots.
type SerializedOrderItem struct {
	ID             string `json:"id"`
	NameSnapshot   string `json:"name_snapshot"`
	PriceCentsSnap int64  `json:"price_cents_snapshot"`
	Quantity       int    `json:"quantity"`
}

// SerializeOrder renders an order for API responses and socket events.
func SerializeOrder(order *domain.Order) SerializedOrder {
	out := SerializedOrder{
		ID:         order.ID,
		Status:     order.Status,
		TotalCents: order.TotalCents,
		CreatedAt:  order.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Items:      make([]SerializedOrderItem, 0, len(order.Items)),
	}
	if order.Table != nil {
		out.Table = &SerializedTable{ID: order.Table.ID, TableNumber: order.Table.TableNumber}
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, SerializedOrderItem{
			ID:             item.ID,
			NameSnapshot:   item.NameSnapshot,
			PriceCentsSnap: item.PriceCentsSnap,
			Quantity:       item.Quantity,
		})
	}
	return out
}
