package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamDeterminism(t *testing.T) {
	a := NewStream(12345)
	b := NewStream(12345)

	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Uint32(), b.Uint32(), "streams with equal seeds must match at draw %d", i)
	}
}

func TestStreamSeedsDiverge(t *testing.T) {
	a := NewStream(1)
	b := NewStream(2)

	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint32() == b.Uint32() {
			same++
		}
	}
	assert.Less(t, same, 5, "different seeds should produce different streams")
}

func TestFloat64Range(t *testing.T) {
	s := NewStream(777)
	for i := 0; i < 10000; i++ {
		v := s.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestIntN(t *testing.T) {
	s := NewStream(42)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := s.IntN(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
		seen[v] = true
	}
	assert.Len(t, seen, 7, "all buckets should be hit over 1000 draws")
}

func TestRange(t *testing.T) {
	s := NewStream(9)
	for i := 0; i < 1000; i++ {
		v := s.Range(0.7, 1.3)
		assert.GreaterOrEqual(t, v, 0.7)
		assert.Less(t, v, 1.3)
	}
}

func TestHashStringFNVVectors(t *testing.T) {
	// Known FNV-1a 32-bit vectors. These pin the seed wire contract.
	assert.Equal(t, uint32(0x811c9dc5), HashString(""))
	assert.Equal(t, uint32(0xe40c292c), HashString("a"))
	assert.Equal(t, uint32(0xbf9cf968), HashString("foobar"))
}

func TestHashStable(t *testing.T) {
	assert.Equal(t, Hash(1, 2, 3), Hash(1, 2, 3))
	assert.NotEqual(t, Hash(1, 2, 3), Hash(3, 2, 1), "hash must be order sensitive")
}

func TestTileSeedPositionSensitivity(t *testing.T) {
	base := TileSeed(100, 5, 5, 0)
	assert.NotEqual(t, base, TileSeed(100, 6, 5, 0))
	assert.NotEqual(t, base, TileSeed(100, 5, 6, 0))
	assert.NotEqual(t, base, TileSeed(100, 5, 5, 1))
	assert.NotEqual(t, base, TileSeed(101, 5, 5, 0))
	assert.Equal(t, base, TileSeed(100, 5, 5, 0))
}
