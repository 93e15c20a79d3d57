package leaderboardservice

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	c := NewCache[int](time.Minute)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Set("b", 2)
	assert.Equal(t, 2, c.Len())
	c.Invalidate()
	assert.Zero(t, c.Len())
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCache_Expires(t *testing.T) {
	c := NewCache[int](20 * time.Millisecond)
	c.Set("a", 1)

	require.Eventually(t, func() bool {
		_, ok := c.Get("a")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestCache_ReadsDoNotExtendLifetime(t *testing.T) {
	c := NewCache[int](50 * time.Millisecond)
	c.Set("a", 1)

	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		c.Get("a")
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_Capacity(t *testing.T) {
	c := NewCache[int](time.Minute)
	for i := range cacheCapacity + 10 {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, cacheCapacity, c.Len())
}

func TestCache_ZeroTTLDisables(t *testing.T) {
	c := NewCache[string](0)
	c.Set("a", "x")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}
