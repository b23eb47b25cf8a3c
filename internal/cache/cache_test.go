package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = GetClient().Close()
		SetClient(nil)
		mr.Close()
	})
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dst *item) func() error {
		return func() error {
			calls++
			dst.Name = "bob1"
			return nil
		}
	}

	var first item
	require.NoError(t, Aside(ctx, UserKey("u1"), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "bob1", first.Name)
	assert.True(t, mr.Exists("user:u1"))

	var second item
	require.NoError(t, Aside(ctx, UserKey("u1"), &second, UserTTL, fetch(&second)))
	assert.Equal(t, "bob1", second.Name)
	assert.Equal(t, 1, calls)

	InvalidateUser(ctx, "u1")
	assert.False(t, mr.Exists("user:u1"))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := useMiniredis(t)
	boom := errors.New("boom")

	var dst item
	err := Aside(context.Background(), PostCommentsKey("p1"), &dst, PostCommentsTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("post:p1:comments"))
}

func TestAside_WithoutRedis(t *testing.T) {
	SetClient(nil)

	calls := 0
	var dst item
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), UserKey("u2"), &dst, UserTTL, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestKeyFamily(t *testing.T) {
	assert.Equal(t, "user", keyFamily(UserKey("x")))
	assert.Equal(t, "post_comments", keyFamily(PostCommentsKey("x")))
}

func TestNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"plain address", Options{URL: mr.Addr(), ClientName: "sportpulse-test"}, false},
		{"redis url", Options{URL: "redis://" + mr.Addr() + "/0", ClientName: "sportpulse-test"}, false},
		{"bad url", Options{URL: "redis://:bad:port/x"}, true},
		{"unreachable", Options{URL: "127.0.0.1:1", PingTimeout: 200 * time.Millisecond}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = c.Close() })
			assert.Equal(t, "sportpulse-test", c.Options().ClientName)
			require.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
			assert.ErrorIs(t, c.Get(context.Background(), "missing").Err(), redis.Nil)
		})
	}
}

func TestInitRedis_FallsBackWithoutCache(t *testing.T) {
	t.Cleanup(func() { SetClient(nil) })

	InitRedis(Options{URL: "127.0.0.1:1", PingTimeout: 200 * time.Millisecond})
	assert.Nil(t, GetClient())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	InitRedis(Options{URL: mr.Addr(), ClientName: "sportpulse-test"})
	require.NotNil(t, GetClient())
	t.Cleanup(func() { _ = GetClient().Close() })
	assert.NoError(t, GetClient().Ping(context.Background()).Err())
}
