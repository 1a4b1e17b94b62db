package events

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// joinMessage is the only client-to-server message on the socket channel.
type joinMessage struct {
	Event        string `json:"event"`
	RestaurantID string `json:"restaurant_id"`
}

// UpgradeRequired gates the websocket route: non-upgrade requests get 426.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler returns the websocket endpoint for kitchen displays. Clients send
// join_restaurant messages and receive order events until they disconnect.
func Handler(bus *Bus, logger *zap.Logger) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer func() {
			bus.Remove(conn)
			_ = conn.Close()
		}()

		for {
			var msg joinMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Event == "join_restaurant" && msg.RestaurantID != "" {
				bus.Join(conn, msg.RestaurantID)
				continue
			}
			logger.Debug("ignoring unknown socket message", zap.String("event", msg.Event))
		}
	})
}
