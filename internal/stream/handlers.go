package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SessionExists reports whether a session id is live. A nil func accepts all ids.
type SessionExists func(sessionID string) bool

func RegisterRoutes(r fiber.Router, hub *Hub, exists SessionExists) {
	upgrade := func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if exists != nil && !exists(c.Params("sessionID")) {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return c.Next()
	}

	r.Get("/ws/:sessionID", upgrade, websocket.New(func(c *websocket.Conn) {
		sessionID := c.Params("sessionID")
		client := hub.Register(sessionID)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
			// Send is closed on disconnect or when the session ends
			_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
			_ = c.Close()
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
	}))
}
