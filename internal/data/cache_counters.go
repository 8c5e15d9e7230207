package data

// CacheCounters holds cache hits and misses keyed by search kind.
type CacheCounters struct {
	CounterHits   map[string]int `json:"counter_hits,omitempty"`
	CounterMisses map[string]int `json:"counter_misses,omitempty"`
}

// HitRatio returns the share of lookups for key served from the cache and
// the number of lookups, the ratio is zero when there were none.
func (c *CacheCounters) HitRatio(key string) (float64, int) {
	hit, miss := c.CounterHits[key], c.CounterMisses[key]
	if total := hit + miss; total > 0 {
		return float64(hit) / float64(total), total
	}
	return 0, 0
}
