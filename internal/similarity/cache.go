package similarity

import (
	"sync"
)

// Cache memoizes pairwise text similarity scores. Keys are symmetric, so
// Get(a, b) and Get(b, a) hit the same entry. The cache is owned by
// whoever constructs the Service and lives for as long as the caller
// keeps it; entries are only removed by an explicit Clear.
//
// The cache is safe for concurrent use: the service runs inside an HTTP
// host where multiple analyses share one instance.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]float64
	hits    uint64
	misses  uint64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// NewCache creates an empty similarity cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]float64),
	}
}

// pairKey builds a symmetric key for a string pair by ordering the two
// strings before joining them. The separator cannot appear in normal text.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x1f" + b
}

// Get retrieves a cached similarity score for the pair, recording a hit
// or miss.
func (c *Cache) Get(a, b string) (float64, bool) {
	key := pairKey(a, b)

	c.mu.Lock()
	defer c.mu.Unlock()

	score, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return score, ok
}

// Put stores a similarity score for the pair.
func (c *Cache) Put(a, b string, score float64) {
	key := pairKey(a, b)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = score
}

// Clear removes all entries and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]float64)
	c.hits = 0
	c.misses = 0
}

// Stats returns a snapshot of the hit/miss counters and entry count.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Hits:   c.hits,
		Misses: c.misses,
		Size:   len(c.entries),
	}
}
