package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, n.PublishFeed(context.Background(), "payload"))
	assert.NoError(t, n.StartFeedSubscriber(context.Background(), func(string) {
		t.Fatal("no messages expected")
	}))
}

func TestFeedHub_WiringDeliversPublishedEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	hub := NewFeedHub()
	client, err := hub.Register(nil, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, n))

	payload, err := Event{Type: EventPostCreated, Payload: map[string]string{"_id": "p-1"}}.Encode()
	require.NoError(t, err)
	require.NoError(t, n.PublishFeed(context.Background(), payload))

	assert.Eventually(t, func() bool {
		select {
		case msg := <-client.Send:
			return string(msg) == payload
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)

	_ = hub.Shutdown(context.Background())
}

func TestNotifier_SubscriberSurvivesPanics(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	require.NoError(t, n.StartFeedSubscriber(ctx, func(payload string) {
		if payload == "boom" {
			panic("handler failure")
		}
		mu.Lock()
		got = append(got, payload)
		mu.Unlock()
	}))

	require.NoError(t, n.PublishFeed(context.Background(), "boom"))
	require.NoError(t, n.PublishFeed(context.Background(), "after"))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == "after"
	}, testEventuallyTimeout, testPollInterval)
}
