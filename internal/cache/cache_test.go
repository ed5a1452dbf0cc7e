package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New[[]string](10, time.Minute)

	c.Put(1, []string{"hello"})
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"hello"}, got)

	// overwrite replaces the snapshot
	c.Put(1, []string{"hello", "world"})
	got, ok = c.Get(1)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestGetMissOnAbsentKey(t *testing.T) {
	c := New[[]string](10, time.Minute)
	_, ok := c.Get(42)
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	c := New[[]string](10, time.Minute)
	c.Put(1, []string{"a"})
	c.Invalidate(1)
	_, ok := c.Get(1)
	assert.False(t, ok)

	// invalidating an absent key is a no-op
	c.Invalidate(99)
	assert.Equal(t, 0, c.Len())
}

func TestExpiredEntryIsNeverReturned(t *testing.T) {
	c := New[[]string](10, 300*time.Second)
	c.Put(1, []string{"stale"})

	// backdate the entry to exactly the TTL boundary
	c.mu.Lock()
	e := c.entries[1]
	e.storedAt = time.Now().Add(-300 * time.Second)
	c.entries[1] = e
	c.mu.Unlock()

	_, ok := c.Get(1)
	assert.False(t, ok, "entry at age == TTL must be treated as absent")
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on observation")
}

func TestCapacityBound(t *testing.T) {
	c := New[int](1000, time.Minute)
	for i := uint(1); i <= 1001; i++ {
		c.Put(i, int(i))
	}
	assert.Equal(t, 1000, c.Len(), "inserting a 1001st owner must not exceed capacity")

	// the oldest insertion was evicted, the newest survives
	_, ok := c.Get(1)
	assert.False(t, ok)
	_, ok = c.Get(1001)
	assert.True(t, ok)
}

func TestEvictionPrefersExpiredEntries(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Put(1, 1)
	c.Put(2, 2)

	c.mu.Lock()
	e := c.entries[2]
	e.storedAt = time.Now().Add(-2 * time.Minute)
	c.entries[2] = e
	c.mu.Unlock()

	c.Put(3, 3)

	_, ok := c.Get(1)
	assert.True(t, ok, "live entry survives when an expired one can go instead")
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestInfoCounters(t *testing.T) {
	c := New[int](1000, 300*time.Second)

	c.Put(1, 10)
	_, _ = c.Get(1) // hit
	_, _ = c.Get(2) // miss

	info := c.Info()
	assert.Equal(t, 1, info.Size)
	assert.Equal(t, 1000, info.Maxsize)
	assert.Equal(t, 300, info.TTL)
	assert.Equal(t, uint64(1), info.Hits)
	assert.Equal(t, uint64(1), info.Misses)
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](100, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := uint(i % 150)
				switch (i + seed) % 3 {
				case 0:
					c.Put(key, i)
				case 1:
					c.Get(key)
				default:
					c.Invalidate(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Fatalf("capacity violated under concurrency: %d entries", c.Len())
	}
}

func BenchmarkGetHit(b *testing.B) {
	c := New[[]string](DefaultCapacity, DefaultTTL)
	for i := uint(0); i < 100; i++ {
		c.Put(i, []string{fmt.Sprintf("post-%d", i)})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(uint(i % 100))
	}
}
