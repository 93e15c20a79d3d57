package leaderboardservice

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// cacheCapacity bounds the number of filter combinations kept at once.
const cacheCapacity = 1024

// Cache keeps computed values for a fixed time. A zero TTL disables it.
type Cache[V any] struct {
	ttl   time.Duration
	items *ttlcache.Cache[string, V]
}

// NewCache creates a cache whose entries live for ttl.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl: ttl,
		items: ttlcache.New[string, V](
			ttlcache.WithTTL[string, V](ttl),
			ttlcache.WithCapacity[string, V](cacheCapacity),
			ttlcache.WithDisableTouchOnHit[string, V](),
		),
	}
}

// Get returns the live value stored under key.
func (c *Cache[V]) Get(key string) (V, bool) {
	item := c.items.Get(key)
	if item == nil {
		var zero V
		return zero, false
	}
	return item.Value(), true
}

// Set stores value under key.
func (c *Cache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}
	c.items.DeleteExpired()
	c.items.Set(key, value, ttlcache.DefaultTTL)
}

// Invalidate drops every entry.
func (c *Cache[V]) Invalidate() {
	c.items.DeleteAll()
}

// Len returns the number of stored entries.
func (c *Cache[V]) Len() int {
	return c.items.Len()
}
