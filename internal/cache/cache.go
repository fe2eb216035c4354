package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/fundlens/fundlens/internal/models"
)

// entry wraps a cached quote with expiry and insertion order tracking.
type entry struct {
	quote     models.PriceChange
	expiry    time.Time
	insertIdx int64
}

// QuoteCache caches market price lookups to prevent duplicate round-trips
// to the market data API. Keys are "ticker:period".
// Thread-safe with sync.RWMutex.
type QuoteCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// New creates a new QuoteCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *QuoteCache {
	return &QuoteCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// MakeKey builds a cache key from ticker and lookback period.
func MakeKey(ticker, period string) string {
	return strings.ToUpper(ticker) + ":" + period
}

// Get returns a cached quote if found and not expired.
func (c *QuoteCache) Get(key string) (models.PriceChange, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return models.PriceChange{}, false
	}

	if time.Now().After(e.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return models.PriceChange{}, false
	}

	return e.quote, true
}

// Set stores a quote in the cache. Evicts the oldest entry if at capacity.
func (c *QuoteCache) Set(key string, quote models.PriceChange) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		quote:     quote,
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

// Len returns the current entry count.
func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear drops every cached quote.
func (c *QuoteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *QuoteCache) evictOldest() {
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
