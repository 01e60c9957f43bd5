package cache

import (
	"sync"
	"time"

	"github.com/meshivamsingh/cryptoMate/internal/models"
)

// entry wraps a cached chart with expiry and insertion order tracking.
type entry struct {
	chart     *models.MarketChart
	expiry    time.Time
	insertIdx int64
}

// ChartCache caches market-chart results to prevent duplicate round-trips to
// the upstream provider while a range is re-selected. Keys are
// "coinID:range". Thread-safe with sync.RWMutex.
type ChartCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// New creates a new ChartCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *ChartCache {
	return &ChartCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// MakeKey builds a cache key from a coin id and time range.
func MakeKey(coinID, timeRange string) string {
	return coinID + ":" + timeRange
}

// Get returns a cached chart if found and not expired.
func (c *ChartCache) Get(key string) (*models.MarketChart, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.chart, true
}

// Set stores a chart in the cache. Evicts the oldest entry if at capacity.
func (c *ChartCache) Set(key string, chart *models.MarketChart) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		chart:     chart,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}

	// Evict oldest if at capacity
	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *ChartCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
