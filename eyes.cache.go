package eyes

import (
	"sync"
)

// PatternCache memoizes compiled patterns keyed by template source.
// Eviction is FIFO once MaxEntries is reached. A cache with MaxEntries <= 0
// stores nothing.
type PatternCache struct {
	mu         sync.RWMutex
	entries    map[string]*Pattern
	evictList  []string
	maxEntries int
	stats      PatternCacheStats
}

// PatternCacheStats tracks cache performance metrics.
type PatternCacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	EntryCount int
}

// NewPatternCache creates a cache holding up to maxEntries patterns.
func NewPatternCache(maxEntries int) *PatternCache {
	c := &PatternCache{
		entries:    make(map[string]*Pattern),
		maxEntries: maxEntries,
	}
	if maxEntries > 0 {
		c.evictList = make([]string, 0, maxEntries)
	}
	return c
}

// Get returns the cached pattern for template.
func (c *PatternCache) Get(template string) (*Pattern, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.entries[template]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return p, ok
}

// Put stores p under its template source. An existing entry is kept and returned.
func (c *PatternCache) Put(p *Pattern) *Pattern {
	if c.maxEntries <= 0 {
		return p
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[p.Source()]; ok {
		return existing
	}

	if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[p.Source()] = p
	c.evictList = append(c.evictList, p.Source())
	c.stats.EntryCount = len(c.entries)
	return p
}

// Clear removes all entries from the cache.
func (c *PatternCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Pattern)
	c.evictList = c.evictList[:0]
	c.stats.EntryCount = 0
}

// Len returns the number of cached patterns.
func (c *PatternCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns current cache statistics.
func (c *PatternCache) Stats() PatternCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *PatternCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

// evictOldest removes the oldest entry. Caller holds the write lock.
func (c *PatternCache) evictOldest() {
	if len(c.evictList) == 0 {
		return
	}

	oldest := c.evictList[0]
	c.evictList = c.evictList[1:]

	if _, exists := c.entries[oldest]; exists {
		delete(c.entries, oldest)
		c.stats.Evictions++
	}
	c.stats.EntryCount = len(c.entries)
}
