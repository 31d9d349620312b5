package internal

import (
	"container/list"
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	key       string
	value     V
	expiresAt int64
}

func (e *cacheEntry[V]) isExpired(now int64) bool {
	return e.expiresAt > 0 && now > e.expiresAt
}

// Cache is a thread-safe LRU cache with optional TTL. A cache built with
// maxEntries == 0 stores nothing.
type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// NewCache creates a cache holding at most maxEntries values, each for ttl
// (ttl <= 0 disables expiry).
func NewCache[V any](maxEntries int, ttl time.Duration) *Cache[V] {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Cache[V]{
		entries:    make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the value stored under key and marks it recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}
	now := c.now().UnixNano()

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	entry := el.Value.(*cacheEntry[V])
	if entry.isExpired(now) {
		c.order.Remove(el)
		delete(c.entries, key)
		return zero, false
	}
	c.order.MoveToFront(el)
	return entry.value, true
}

// Set stores value under key, evicting an expired or the least recently used
// entry when the cache is full.
func (c *Cache[V]) Set(key string, value V) {
	if key == "" || c.maxEntries == 0 {
		return
	}
	now := c.now().UnixNano()
	var expiresAt int64
	if c.ttl > 0 {
		expiresAt = now + c.ttl.Nanoseconds()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry[V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	if len(c.entries) >= c.maxEntries {
		c.evictOne(now)
	}
	c.entries[key] = c.order.PushFront(&cacheEntry[V]{key: key, value: value, expiresAt: expiresAt})
}

func (c *Cache[V]) evictOne(now int64) {
	for el := c.order.Back(); el != nil; el = el.Prev() {
		if entry := el.Value.(*cacheEntry[V]); entry.isExpired(now) {
			c.order.Remove(el)
			delete(c.entries, entry.key)
			return
		}
	}
	if el := c.order.Back(); el != nil {
		c.order.Remove(el)
		delete(c.entries, el.Value.(*cacheEntry[V]).key)
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.order.Init()
}
