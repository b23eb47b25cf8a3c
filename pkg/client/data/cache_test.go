package data

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_EvictsOldest(t *testing.T) {
	t.Parallel()
	c := NewCache(time.Hour, 3, nil)
	for i := 1; i <= 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.Set("k1", 10)
	c.Set("k4", 4)

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("k2")
	assert.False(t, ok, "k2 was the oldest write")
	v, ok := c.Get("k1")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestCache_TTLAndClear(t *testing.T) {
	t.Parallel()
	now := time.Unix(0, 0)
	c := NewCache(time.Second, 0, func() time.Time { return now })

	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(999 * time.Millisecond)
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Set("c", 3)
	c.Clear("c")
	_, ok = c.Get("c")
	assert.False(t, ok)

	c.Set("d", 4)
	c.Clear()
	assert.Zero(t, c.Len())
}

func TestFingerprint(t *testing.T) {
	t.Parallel()
	a := Fingerprint("get", "/posts", url.Values{"offset": {"10"}, "limit": {"5"}})
	b := Fingerprint("GET", "/posts", url.Values{"limit": {"5"}, "offset": {"10"}})
	assert.Equal(t, "GET /posts?limit=5&offset=10", a)
	assert.Equal(t, a, b)
	assert.Equal(t, "GET /posts", Fingerprint("GET", "/posts", nil))
	assert.NotEqual(t, a, Fingerprint("GET", "/posts", url.Values{"limit": {"6"}}))
}
