package utilities

import (
	"sync"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
)

// Counter tracks cache hits and misses per key, the logic uses the search
// kind as the key.
type Counter interface {
	// Read returns -1, -1 for a key that was never incremented.
	Read(key string) (hitCount, missCount int)
	ReadAll() *data.CacheCounters
	IncrementHit(key string) (hitCount int)
	IncrementMiss(key string) (missCount int)
	Reset()
}

type counter struct {
	sync.RWMutex
	hits   map[string]int
	misses map[string]int
}

func NewCounter() Counter {
	return &counter{
		hits:   make(map[string]int),
		misses: make(map[string]int),
	}
}

func (c *counter) Read(key string) (int, int) {
	c.RLock()
	defer c.RUnlock()

	hit, hitFound := c.hits[key]
	miss, missFound := c.misses[key]
	if !hitFound && !missFound {
		return -1, -1
	}
	return hit, miss
}

func (c *counter) ReadAll() *data.CacheCounters {
	c.RLock()
	defer c.RUnlock()

	all := &data.CacheCounters{
		CounterHits:   make(map[string]int, len(c.hits)),
		CounterMisses: make(map[string]int, len(c.misses)),
	}
	for key := range c.hits {
		all.CounterHits[key], all.CounterMisses[key] = c.hits[key], c.misses[key]
	}
	for key := range c.misses {
		all.CounterHits[key], all.CounterMisses[key] = c.hits[key], c.misses[key]
	}
	return all
}

func (c *counter) Reset() {
	c.Lock()
	defer c.Unlock()

	clear(c.hits)
	clear(c.misses)
}

func (c *counter) IncrementHit(key string) int {
	c.Lock()
	defer c.Unlock()

	c.hits[key]++
	return c.hits[key]
}

func (c *counter) IncrementMiss(key string) int {
	c.Lock()
	defer c.Unlock()

	c.misses[key]++
	return c.misses[key]
}
