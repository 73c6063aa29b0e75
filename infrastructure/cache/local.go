package cache

import (
	"sync"
	"time"
)

// Item is a locally cached value with expiry and access bookkeeping.
type Item struct {
	Value      any
	Expiration int64
	LastAccess time.Time
}

// IsExpired returns true if the item has expired.
func (item Item) IsExpired() bool {
	if item.Expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > item.Expiration
}

// Local is an in-process TTL cache with LRU eviction. The proxy uses it to
// keep embedding verdicts hot without a Redis round trip.
type Local struct {
	items           map[string]Item
	mu              sync.RWMutex
	cleanupInterval time.Duration
	maxItems        int
	stopCleanup     chan struct{}
	stats           Stats
}

type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// Options configures the local cache.
type Options struct {
	CleanupInterval time.Duration
	MaxItems        int
}

func DefaultOptions() Options {
	return Options{
		CleanupInterval: 5 * time.Minute,
		MaxItems:        0, // No limit
	}
}

func NewLocal(options Options) *Local {
	c := &Local{
		items:           make(map[string]Item),
		cleanupInterval: options.CleanupInterval,
		maxItems:        options.MaxItems,
		stopCleanup:     make(chan struct{}),
	}

	go c.startCleanupTimer()

	return c
}

func (c *Local) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Local) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			delete(c.items, key)
		}
	}
}

// evictLRU drops the least recently used item. Caller holds the lock.
func (c *Local) evictLRU() {
	var keyToEvict string
	var oldestTime time.Time

	for k, item := range c.items {
		if keyToEvict == "" || item.LastAccess.Before(oldestTime) {
			keyToEvict = k
			oldestTime = item.LastAccess
		}
	}

	if keyToEvict != "" {
		delete(c.items, keyToEvict)
		c.stats.Evictions++
	}
}

// Set adds an item to the cache with an expiration time.
func (c *Local) Set(key string, value any, expiration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.items[key]
	if c.maxItems > 0 && len(c.items) >= c.maxItems && !exists {
		c.evictLRU()
	}

	var exp int64
	if expiration > 0 {
		exp = time.Now().Add(expiration).UnixNano()
	}

	c.items[key] = Item{
		Value:      value,
		Expiration: exp,
		LastAccess: time.Now(),
	}
}

// Get retrieves an item from the cache.
func (c *Local) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		c.stats.Misses++
		return nil, false
	}

	if item.IsExpired() {
		delete(c.items, key)
		c.stats.Misses++
		return nil, false
	}

	item.LastAccess = time.Now()
	c.items[key] = item

	c.stats.Hits++
	return item.Value, true
}

// Delete removes an item from the cache.
func (c *Local) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Flush removes all items from the cache.
func (c *Local) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Item)
	c.stats = Stats{}
}

// Close stops the cleanup goroutine.
func (c *Local) Close() {
	close(c.stopCleanup)
}

// Count returns the number of items in the cache.
func (c *Local) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// GetStats returns the cache statistics.
func (c *Local) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.stats
}
