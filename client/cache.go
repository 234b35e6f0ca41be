package client

import (
	"strings"
	"sync"
	"time"

	"github.com/sharad-mishra/bharat-lens/models"
)

// Cache sizing and expiry
const (
	cacheMaxSize = 20
	cacheTTL     = 30 * time.Minute

	cacheKeyPrefix = "search:"

	minCacheableQuery = 3
	maxCacheableQuery = 100
)

// cacheEntry pairs a cached result with its insertion time
type cacheEntry struct {
	data      *models.SearchResult
	timestamp time.Time
}

// SearchCache is a bounded, TTL'd cache of past search results. Expired
// entries are removed lazily on access; when full, the oldest-inserted
// entry is evicted first.
type SearchCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string // keys in insertion order, oldest first
	now     func() time.Time
}

// NewSearchCache creates an empty search cache
func NewSearchCache() *SearchCache {
	return &SearchCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached result for a key, or nil if the key is absent
// or the entry is older than the TTL
func (c *SearchCache) Get(key string) *models.SearchResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}

	if c.now().Sub(entry.timestamp) > cacheTTL {
		c.remove(key)
		return nil
	}

	return entry.data
}

// Set stores a result, evicting the oldest-inserted entry if the cache
// is full
func (c *SearchCache) Set(key string, data *models.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= cacheMaxSize {
			c.remove(c.order[0])
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = cacheEntry{data: data, timestamp: c.now()}
}

// remove deletes a key from the map and the insertion-order queue.
// Caller must hold the lock.
func (c *SearchCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Stats reports the current and maximum cache size
func (c *SearchCache) Stats() (size, maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), cacheMaxSize
}

// GenerateCacheKey builds the namespaced cache key for a query
func GenerateCacheKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}

// ShouldCacheQuery reports whether a query is eligible for caching.
// Applied identically on the read and write paths.
func ShouldCacheQuery(query string) bool {
	trimmed := strings.TrimSpace(query)
	return len(trimmed) >= minCacheableQuery && len(trimmed) <= maxCacheableQuery
}
