package cache_test

import (
	"testing"
	"time"

	"github.com/ryos-app/ryos-server/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SetGet(t *testing.T) {
	c := cache.NewLocal(cache.DefaultOptions())
	defer c.Close()

	c.Set("key", "value", time.Minute)

	value, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, "value", value)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestLocal_Expiration(t *testing.T) {
	c := cache.NewLocal(cache.DefaultOptions())
	defer c.Close()

	c.Set("key", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestLocal_LRUEviction(t *testing.T) {
	c := cache.NewLocal(cache.Options{CleanupInterval: time.Minute, MaxItems: 2})
	defer c.Close()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	// Touch "a" so "b" is the LRU entry.
	_, found := c.Get("a")
	require.True(t, found)

	c.Set("c", 3, time.Minute)

	_, found = c.Get("b")
	assert.False(t, found)
	_, found = c.Get("a")
	assert.True(t, found)
	_, found = c.Get("c")
	assert.True(t, found)

	assert.Equal(t, int64(1), c.GetStats().Evictions)
}

func TestLocal_DeleteAndFlush(t *testing.T) {
	c := cache.NewLocal(cache.DefaultOptions())
	defer c.Close()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)

	c.Flush()
	assert.Equal(t, 0, c.Count())
}
