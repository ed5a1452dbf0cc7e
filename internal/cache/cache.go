package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fixed bounds for the per-owner post list cache. Not tunable at
// runtime; tests construct smaller caches directly.
const (
	DefaultCapacity = 1000
	DefaultTTL      = 300 * time.Second
)

var (
	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "social_api_post_cache_hits_total",
		Help: "Post cache lookups served from memory.",
	})
	missesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "social_api_post_cache_misses_total",
		Help: "Post cache lookups that fell through to the store.",
	})
	evictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "social_api_post_cache_evictions_total",
		Help: "Entries evicted to respect the capacity bound.",
	})
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a bounded TTL cache keyed by owner id. A single mutex
// serializes Get, Put and Invalidate so concurrent requests never
// observe a partially written entry. Expiry is lazy: a read of an
// entry older than the TTL behaves exactly like a miss.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[uint]entry[V]

	hits   uint64
	misses uint64
}

func New[V any](capacity int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[uint]entry[V], capacity),
	}
}

func (c *Cache[V]) Get(key uint) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && time.Since(e.storedAt) < c.ttl {
		c.hits++
		hitsTotal.Inc()
		return e.value, true
	}
	if ok {
		// expired, drop it on observation
		delete(c.entries, key)
	}
	c.misses++
	missesTotal.Inc()
	var zero V
	return zero, false
}

func (c *Cache[V]) Put(key uint, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	c.entries[key] = entry[V]{value: value, storedAt: time.Now()}
}

// evictLocked drops expired entries first, then the oldest stored
// entry until one slot is free.
func (c *Cache[V]) evictLocked() {
	now := time.Now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
			evictionsTotal.Inc()
		}
	}
	for len(c.entries) >= c.capacity {
		var oldestKey uint
		var oldestAt time.Time
		first := true
		for k, e := range c.entries {
			if first || e.storedAt.Before(oldestAt) {
				oldestKey, oldestAt = k, e.storedAt
				first = false
			}
		}
		delete(c.entries, oldestKey)
		evictionsTotal.Inc()
	}
}

// Invalidate removes the entry for key; a no-op when absent.
func (c *Cache[V]) Invalidate(key uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Info is the monitoring snapshot exposed on /posts/stats.
type Info struct {
	Size    int    `json:"size"`
	Maxsize int    `json:"maxsize"`
	TTL     int    `json:"ttl"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

func (c *Cache[V]) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Info{
		Size:    len(c.entries),
		Maxsize: c.capacity,
		TTL:     int(c.ttl / time.Second),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
