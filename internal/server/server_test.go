package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sportpulse/internal/notifications"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t, nil)

	tests := []struct {
		path   string
		status int
	}{
		{"/health/live", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/health", http.StatusOK},
		{"/api/", http.StatusOK},
	}
	for _, tt := range tests {
		resp := do(t, app, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.status, resp.Status, tt.path)
	}

	body := do(t, app, httptest.NewRequest(http.MethodGet, "/health/ready", nil)).object(t)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "disabled", checks["redis"])
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t, nil)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.Equal(t, http.StatusNotFound, resp.Status)
	body := resp.object(t)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, body["error"], body["message"])
}

func TestGetFeatureFlags(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.FeatureFlags = "raw_token_auth=on,beta_feed=off"
	_, app := newTestServer(t, cfg)

	var out struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}
	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/feature-flags", nil))
	require.Equal(t, http.StatusOK, resp.Status)
	resp.decode(t, &out)
	assert.Equal(t, "on", out.Raw["raw_token_auth"])
	assert.True(t, out.Evaluated["raw_token_auth"])
	assert.False(t, out.Evaluated["beta_feed"])
}

func TestFeedRequiresUpgrade(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t, nil)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/ws/feed", nil))
	assert.Equal(t, http.StatusUpgradeRequired, resp.Status)
}

func TestFeedWebSocket_ReceivesPostEvents(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t, nil)
	token, userID := registerUser(t, app, "streamer")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/ws/feed?token="+token, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool { return s.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	post := createPost(t, s, token, map[string]string{"title": "Live", "text": "now"}, nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type    string   `json:"type"`
		Payload postBody `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, notifications.EventPostCreated, event.Type)
	assert.Equal(t, post.ID, event.Payload.ID)
	assert.Equal(t, userID, event.Payload.Author)

	require.NoError(t, s.hub.Shutdown(context.Background()))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
