package data

import (
	"net/url"
	"strings"
	"sync"
	"time"
)

// Cache memoizes fetch results. Entries expire after ttl and the oldest entry
// is evicted once max entries are stored.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	now     func() time.Time
	seq     uint64
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value  any
	stored time.Time
	seq    uint64
}

func NewCache(ttl time.Duration, max int, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, max: max, now: now, entries: make(map[string]cacheEntry)}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.stored) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && c.max > 0 {
		for len(c.entries) >= c.max {
			c.evictOldest()
		}
	}
	c.seq++
	c.entries[key] = cacheEntry{value: value, stored: c.now(), seq: c.seq}
}

func (c *Cache) evictOldest() {
	var (
		oldestKey string
		oldestSeq uint64
		found     bool
	)
	for k, e := range c.entries {
		if !found || e.seq < oldestSeq {
			oldestKey, oldestSeq, found = k, e.seq, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}

// Clear drops the given keys, or everything when none are given.
func (c *Cache) Clear(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[string]cacheEntry)
		return
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// Len counts stored entries, expired ones included until they are read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fingerprint builds a cache key for a request. Query parameters are sorted.
func Fingerprint(method, path string, query url.Values) string {
	key := strings.ToUpper(method) + " " + path
	if encoded := query.Encode(); encoded != "" {
		key += "?" + encoded
	}
	return key
}
