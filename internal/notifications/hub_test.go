package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedHub_BroadcastAll(t *testing.T) {
	hub := NewFeedHub()
	a, err := hub.Register(nil, "")
	require.NoError(t, err)
	b, err := hub.Register(nil, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, hub.Count())
	assert.NotEqual(t, a.ID, b.ID)

	hub.BroadcastAll(`{"type":"post_created"}`)

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			assert.JSONEq(t, `{"type":"post_created"}`, string(msg))
		default:
			t.Fatalf("client %s got nothing", c.ID)
		}
	}

	_ = hub.Shutdown(context.Background())
}

func TestFeedHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewFeedHub()
	c, err := hub.Register(nil, "")
	require.NoError(t, err)

	hub.UnregisterClient(c, "closed")
	hub.UnregisterClient(c, "closed")
	assert.Zero(t, hub.Count())

	_, open := <-c.Send
	assert.False(t, open)

	// Broadcasting after removal must not panic.
	hub.BroadcastAll("ignored")
}

func TestFeedHub_ConnectionLimit(t *testing.T) {
	hub := NewFeedHub()
	hub.maxConns = 2
	for i := 0; i < 2; i++ {
		_, err := hub.Register(nil, "")
		require.NoError(t, err)
	}
	_, err := hub.Register(nil, "")
	assert.ErrorIs(t, err, ErrHubFull)
}

func TestFeedHub_ShutdownRejectsNewClients(t *testing.T) {
	hub := NewFeedHub()
	c, err := hub.Register(nil, "")
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	require.NoError(t, hub.Shutdown(context.Background()))

	_, open := <-c.Send
	assert.False(t, open)
	_, err = hub.Register(nil, "")
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestClient_TrySendBackpressure(t *testing.T) {
	hub := NewFeedHub()
	c, err := hub.Register(nil, "")
	require.NoError(t, err)

	for i := 0; i < sendBuffer; i++ {
		assert.True(t, c.TrySend([]byte(fmt.Sprintf("%d", i))))
	}
	assert.False(t, c.TrySend([]byte("overflow")))
	assert.Len(t, c.Send, sendBuffer)

	<-c.Send
	assert.True(t, c.TrySend([]byte("fits")))

	_ = hub.Shutdown(context.Background())
}

func TestEvent_Encode(t *testing.T) {
	t.Parallel()

	raw, err := Event{Type: EventPostDeleted, Payload: map[string]string{"_id": "p-1"}}.Encode()
	require.NoError(t, err)

	var decoded struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, EventPostDeleted, decoded.Type)
	assert.Equal(t, "p-1", decoded.Payload["_id"])

	_, err = Event{Type: "bad", Payload: make(chan int)}.Encode()
	assert.Error(t, err)
}
