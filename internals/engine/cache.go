package engine

// DefaultCacheBits sizes the position cache at 2^18 slots.
const DefaultCacheBits = 18

const emptyDepth = -1

// CacheEntry is one slot of the position cache. A Value may be exact or a
// fail-high bound depending on how its search ended; entries carry no tag
// telling the two apart.
type CacheEntry struct {
	Key   uint64
	Depth int8
	Value int32
}

// CacheStats counts cache traffic since the last Reset.
type CacheStats struct {
	Probes uint64
	Hits   uint64
	Stores uint64
}

// Cache is a direct-mapped table of search results. Each key owns exactly
// one slot (key & mask) and every Store overwrites that slot. It is not safe
// for concurrent use.
type Cache struct {
	entries []CacheEntry
	mask    uint64
	stats   CacheStats
}

// NewCache allocates a cache with 2^bits slots, all empty.
func NewCache(bits int) *Cache {
	if bits <= 0 {
		bits = DefaultCacheBits
	}
	size := 1 << uint(bits)
	c := &Cache{
		entries: make([]CacheEntry, size),
		mask:    uint64(size - 1),
	}
	c.Reset()
	return c
}

// Reset marks every slot empty and clears the counters.
func (c *Cache) Reset() {
	for i := range c.entries {
		c.entries[i] = CacheEntry{Depth: emptyDepth}
	}
	c.stats = CacheStats{}
}

// Size returns the number of slots.
func (c *Cache) Size() int {
	return len(c.entries)
}

// Probe returns the stored value for key if its slot holds that exact key
// searched to at least depth.
func (c *Cache) Probe(key uint64, depth int) (int32, bool) {
	c.stats.Probes++
	e := &c.entries[key&c.mask]
	if e.Key != key || int(e.Depth) < depth {
		return 0, false
	}
	c.stats.Hits++
	return e.Value, true
}

// Store unconditionally overwrites the slot for key.
func (c *Cache) Store(key uint64, depth int, value int32) {
	c.stats.Stores++
	c.entries[key&c.mask] = CacheEntry{Key: key, Depth: int8(depth), Value: value}
}

// Stats returns the traffic counters.
func (c *Cache) Stats() CacheStats {
	return c.stats
}
