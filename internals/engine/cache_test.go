package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheProbeStore(t *testing.T) {
	c := NewCache(4)
	require.Equal(t, 16, c.Size())

	const key = uint64(0xdeadbeef)
	_, ok := c.Probe(key, 0)
	assert.False(t, ok, "fresh cache must miss")

	c.Store(key, 5, 42)
	for depth := 0; depth <= 5; depth++ {
		v, ok := c.Probe(key, depth)
		require.True(t, ok, "depth %d", depth)
		assert.Equal(t, int32(42), v)
	}
	_, ok = c.Probe(key, 6)
	assert.False(t, ok, "deeper request must miss")
}

func TestCacheCollisionMisses(t *testing.T) {
	c := NewCache(4)
	key := uint64(3)
	other := key + uint64(c.Size())

	c.Store(key, 2, 7)
	_, ok := c.Probe(other, 0)
	assert.False(t, ok)

	// A shallower store for the colliding key evicts the deeper entry.
	c.Store(other, 0, -7)
	_, ok = c.Probe(key, 0)
	assert.False(t, ok)
	v, ok := c.Probe(other, 0)
	require.True(t, ok)
	assert.Equal(t, int32(-7), v)
}

func TestCacheZeroKeyStartsEmpty(t *testing.T) {
	c := NewCache(4)
	_, ok := c.Probe(0, 0)
	assert.False(t, ok)
}

func TestCacheReset(t *testing.T) {
	c := NewCache(4)
	c.Store(9, 3, 1)
	c.Probe(9, 3)

	stats := c.Stats()
	assert.Equal(t, CacheStats{Probes: 1, Hits: 1, Stores: 1}, stats)

	c.Reset()
	assert.Equal(t, CacheStats{}, c.Stats())
	_, ok := c.Probe(9, 0)
	assert.False(t, ok)
}
