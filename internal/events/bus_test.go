package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []Envelope
	failNext bool
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failNext {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, v.(Envelope))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Envelope{}, c.messages...)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus(zap.NewNop())

	assert.NotPanics(t, func() {
		bus.Publish("rest-1", EventOrderCreated, map[string]string{"id": "o-1"})
	})
}

func TestPublishDeliversToRoomMembers(t *testing.T) {
	bus := NewBus(zap.NewNop())
	conn := &fakeConn{}
	bus.Join(conn, "rest-1")

	bus.Publish("rest-1", EventOrderCreated, "payload")

	messages := conn.received()
	require.Len(t, messages, 1)
	assert.Equal(t, EventOrderCreated, messages[0].Event)
	assert.Equal(t, "payload", messages[0].Data)
}

func TestPublishScopedToRestaurant(t *testing.T) {
	bus := NewBus(zap.NewNop())
	kitchen1 := &fakeConn{}
	kitchen2 := &fakeConn{}
	bus.Join(kitchen1, "rest-1")
	bus.Join(kitchen2, "rest-2")

	bus.Publish("rest-1", EventOrderStatusUpdated, "payload")

	assert.Len(t, kitchen1.received(), 1)
	assert.Empty(t, kitchen2.received())
}

func TestConnectionMayJoinMultipleRooms(t *testing.T) {
	bus := NewBus(zap.NewNop())
	conn := &fakeConn{}
	bus.Join(conn, "rest-1")
	bus.Join(conn, "rest-2")

	bus.Publish("rest-1", EventOrderCreated, "a")
	bus.Publish("rest-2", EventOrderCreated, "b")

	assert.Len(t, conn.received(), 2)
}

func TestRemoveDropsAllMemberships(t *testing.T) {
	bus := NewBus(zap.NewNop())
	conn := &fakeConn{}
	bus.Join(conn, "rest-1")
	bus.Join(conn, "rest-2")

	bus.Remove(conn)

	bus.Publish("rest-1", EventOrderCreated, "a")
	bus.Publish("rest-2", EventOrderCreated, "b")
	assert.Empty(t, conn.received())
	assert.Zero(t, bus.SubscriberCount("rest-1"))
}

func TestDeadSubscriberIsDropped(t *testing.T) {
	bus := NewBus(zap.NewNop())
	dead := &fakeConn{failNext: true}
	live := &fakeConn{}
	bus.Join(dead, "rest-1")
	bus.Join(live, "rest-1")

	bus.Publish("rest-1", EventOrderCreated, "payload")

	assert.Len(t, live.received(), 1)
	assert.Equal(t, 1, bus.SubscriberCount("rest-1"))
	assert.True(t, dead.closed)
}

func TestLeaveRemovesFromSingleRoom(t *testing.T) {
	bus := NewBus(zap.NewNop())
	conn := &fakeConn{}
	bus.Join(conn, "rest-1")
	bus.Join(conn, "rest-2")

	bus.Leave(conn, "rest-1")

	bus.Publish("rest-1", EventOrderCreated, "a")
	bus.Publish("rest-2", EventOrderCreated, "b")
	messages := conn.received()
	require.Len(t, messages, 1)
	assert.Equal(t, "b", messages[0].Data)
}

func TestJoinIgnoresEmptyRestaurantID(t *testing.T) {
	bus := NewBus(zap.NewNop())
	conn := &fakeConn{}
	bus.Join(conn, "")

	assert.Zero(t, bus.SubscriberCount(""))
}
