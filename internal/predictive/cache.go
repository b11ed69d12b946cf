package predictive

import "sync"

// cacheKey identifies one memoized suggestion. Usage participates so a
// counter update naturally misses the stale entry.
type cacheKey struct {
	Ficha  string
	PlanID string
	Usage  float64
}

// Cache memoizes suggestions keyed on (ficha, plan id, usage). Safe for
// concurrent use. Override mutations must call Invalidate for the affected
// ficha once confirmed.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]Suggestion
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Suggestion)}
}

func (c *Cache) get(k cacheKey) (Suggestion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[k]
	return s, ok
}

func (c *Cache) put(k cacheKey, s Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = s
}

// Invalidate drops every memoized suggestion for one equipment.
func (c *Cache) Invalidate(ficha string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Ficha == ficha {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of memoized suggestions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
