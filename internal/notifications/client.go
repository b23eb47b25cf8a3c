package notifications

import (
	"context"
	"time"

	"sportpulse/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBuffer = 64
)

// Client is a middleman between one websocket connection and the feed hub.
type Client struct {
	Hub *FeedHub

	// The websocket connection. Nil in tests.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	// ID identifies the connection in logs.
	ID string

	// ViewerID is the authenticated user, empty for anonymous viewers.
	ViewerID string
}

func newClient(hub *FeedHub, conn *websocket.Conn, id, viewerID string) *Client {
	return &Client{
		Hub:      hub,
		Conn:     conn,
		ID:       id,
		ViewerID: viewerID,
		Send:     make(chan []byte, sendBuffer),
	}
}

// ReadPump drains the connection until it closes; the feed is server-to-client only.
func (c *Client) ReadPump() {
	reason := "closed"
	defer func() {
		c.Hub.UnregisterClient(c, reason)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { _ = c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.LogError(context.Background(), c.ID, err, "read")
				reason = "read_error"
			}
			return
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a message without blocking. A full buffer drops the message
// and queues a drop notice so the client can re-fetch.
func (c *Client) TrySend(message []byte) bool {
	defer func() {
		if r := recover(); r != nil {
			observability.WebSocketBackpressureDrops.WithLabelValues(c.Hub.Name(), "closed").Inc()
		}
	}()

	select {
	case c.Send <- message:
		return true
	default:
		observability.WebSocketBackpressureDrops.WithLabelValues(c.Hub.Name(), "full").Inc()
		select {
		case c.Send <- dropNotice:
		default:
		}
		return false
	}
}

var dropNotice = []byte(`{"type":"` + EventMessagesDropped + `","payload":{"reason":"buffer_full"}}`)
