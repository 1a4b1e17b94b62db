package events

import (
	"sync"

	"go.uber.org/zap"
)

// Event names pushed to kitchen displays.
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusUpdated = "order_status_updated"
)

const roomPrefix = "restaurant:"

// Conn is a live subscriber connection. Satisfied by *websocket.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Publisher is the producer-side view of the bus. Publish is best-effort:
// it never blocks the caller on subscriber failures and never returns an
// error to the triggering operation.
type Publisher interface {
	Publish(restaurantID, event string, payload interface{})
}

// Envelope is the wire format pushed to subscribers.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Bus fans order events out to connections subscribed per restaurant room.
// Delivery is fire-and-forget: no acknowledgement, no retry, no persistence.
type Bus struct {
	mu     sync.RWMutex
	rooms  map[string]map[Conn]struct{}
	logger *zap.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		rooms:  make(map[string]map[Conn]struct{}),
		logger: logger,
	}
}

// Join subscribes the connection to one restaurant's room. A connection may
// join any number of rooms; membership is not authenticated (restaurant ids
// are not secret and the feed is read-only).
func (b *Bus) Join(conn Conn, restaurantID string) {
	if restaurantID == "" {
		return
	}
	room := roomPrefix + restaurantID

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rooms[room] == nil {
		b.rooms[room] = make(map[Conn]struct{})
	}
	b.rooms[room][conn] = struct{}{}
	b.logger.Debug("subscriber joined", zap.String("room", room))
}

// Leave unsubscribes the connection from one room.
func (b *Bus) Leave(conn Conn, restaurantID string) {
	room := roomPrefix + restaurantID

	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeFromRoom(room, conn)
}

// Remove drops the connection from every room, typically on disconnect.
func (b *Bus) Remove(conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for room := range b.rooms {
		b.removeFromRoom(room, conn)
	}
}

// Publish delivers the event to every connection currently in the
// restaurant's room. Zero subscribers is a no-op. Connections that fail to
// accept the write are dropped.
func (b *Bus) Publish(restaurantID, event string, payload interface{}) {
	room := roomPrefix + restaurantID
	envelope := Envelope{Event: event, Data: payload}

	b.mu.RLock()
	conns := make([]Conn, 0, len(b.rooms[room]))
	for conn := range b.rooms[room] {
		conns = append(conns, conn)
	}
	b.mu.RUnlock()

	var dead []Conn
	for _, conn := range conns {
		if err := conn.WriteJSON(envelope); err != nil {
			b.logger.Debug("dropping dead subscriber", zap.String("room", room), zap.Error(err))
			dead = append(dead, conn)
		}
	}

	for _, conn := range dead {
		b.Remove(conn)
		_ = conn.Close()
	}
}

// SubscriberCount reports current room membership, used by tests and debugging.
func (b *Bus) SubscriberCount(restaurantID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[roomPrefix+restaurantID])
}

// removeFromRoom must be called with the write lock held.
func (b *Bus) removeFromRoom(room string, conn Conn) {
	if conns, ok := b.rooms[room]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(b.rooms, room)
		}
	}
}
