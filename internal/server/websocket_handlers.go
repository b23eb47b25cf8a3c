package server

import (
	"errors"

	"sportpulse/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedUpgrade rejects plain HTTP requests and records the optional viewer
// before the websocket handshake. Browsers cannot set headers on websocket
// requests, so a token query parameter is accepted too.
func (s *Server) FeedUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	viewerID, ok := s.optionalUserID(c)
	if !ok {
		if token := c.Query("token"); token != "" {
			if claims, err := s.tokens.Parse(token); err == nil {
				viewerID = claims.Subject
			}
		}
	}
	c.Locals("viewerID", viewerID)
	return c.Next()
}

// WebSocketFeedHandler streams feed events (posts and comments) to the client.
// @Summary Realtime feed
// @Description Websocket; frames are {type, payload} JSON events
// @Tags feed
// @Router /ws/feed [get]
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		viewerID, _ := conn.Locals("viewerID").(string)

		client, err := s.hub.Register(conn, viewerID)
		if err != nil {
			msg := "unavailable"
			if errors.Is(err, notifications.ErrHubFull) {
				msg = "too many connections"
			}
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+msg+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
