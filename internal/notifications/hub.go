package notifications

import (
	"context"
	"errors"
	"sync"

	"sportpulse/internal/observability"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const defaultMaxConns = 10000

// ErrHubFull is returned by Register when the connection limit is reached.
var ErrHubFull = errors.New("server connection limit reached")

// ErrHubClosed is returned by Register after Shutdown.
var ErrHubClosed = errors.New("feed hub is shut down")

// FeedHub fans feed events out to every connected websocket client.
type FeedHub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	maxConns int
	closed   bool
	logger   *observability.WSLogger
}

// NewFeedHub creates an empty hub.
func NewFeedHub() *FeedHub {
	h := &FeedHub{
		clients:  make(map[*Client]struct{}),
		maxConns: defaultMaxConns,
	}
	h.logger = observability.NewWSLogger(h.Name())
	return h
}

// Name returns a human-readable identifier for this hub.
func (h *FeedHub) Name() string { return "feed hub" }

// Register adds a connection. viewerID may be empty for anonymous viewers.
func (h *FeedHub) Register(conn *websocket.Conn, viewerID string) (*Client, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	if len(h.clients) >= h.maxConns {
		h.mu.Unlock()
		return nil, ErrHubFull
	}
	client := newClient(h, conn, uuid.NewString(), viewerID)
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	observability.WebSocketConnections.Inc()
	h.logger.LogConnect(context.Background(), client.ID, total)
	return client, nil
}

// UnregisterClient removes a client and closes its send channel. Safe to call twice.
func (h *FeedHub) UnregisterClient(client *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.Send)
	}
	h.mu.Unlock()

	if ok {
		observability.WebSocketConnections.Dec()
		h.logger.LogDisconnect(context.Background(), client.ID, reason)
	}
}

// Count returns the number of connected clients.
func (h *FeedHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll sends message to every connected client.
func (h *FeedHub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.clients {
		c.TrySend(data)
	}
}

// StartWiring forwards every event published on FeedChannel to local clients.
func (h *FeedHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartFeedSubscriber(ctx, h.BroadcastAll)
}

// Shutdown sends a going-away close frame to every client and drops them.
func (h *FeedHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	for client := range h.clients {
		if client.Conn != nil {
			_ = client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down"))
			_ = client.Conn.Close()
		}
		close(client.Send)
		observability.WebSocketConnections.Dec()
	}
	h.clients = make(map[*Client]struct{})
	return nil
}
