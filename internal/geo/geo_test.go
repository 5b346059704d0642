package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() Ring {
	return Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
}

func TestRingFromCoordinates(t *testing.T) {
	t.Run("valid open ring", func(t *testing.T) {
		ring, err := RingFromCoordinates([][]float64{{0, 0}, {1, 0}, {1, 1}})
		require.NoError(t, err)
		assert.Len(t, ring, 3)
	})

	t.Run("closing point dropped", func(t *testing.T) {
		ring, err := RingFromCoordinates([][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}})
		require.NoError(t, err)
		assert.Len(t, ring, 3)
	})

	t.Run("too few points", func(t *testing.T) {
		_, err := RingFromCoordinates([][]float64{{0, 0}, {1, 1}})
		assert.Error(t, err)
	})

	t.Run("malformed pair", func(t *testing.T) {
		_, err := RingFromCoordinates([][]float64{{0, 0}, {1}, {1, 1}})
		assert.Error(t, err)
	})
}

func TestRingWKT(t *testing.T) {
	ring := Ring{{77.58, 12.96}, {77.61, 12.96}, {77.61, 12.99}}
	assert.Equal(t,
		"POLYGON((77.58 12.96, 77.61 12.96, 77.61 12.99, 77.58 12.96))",
		ring.WKT(),
	)
}

func TestPointWKT(t *testing.T) {
	assert.Equal(t, "POINT(77.5946 12.9716)", Point{Lng: 77.5946, Lat: 12.9716}.WKT())
}

func TestRingContains(t *testing.T) {
	r := square()

	t.Run("inside", func(t *testing.T) {
		assert.True(t, r.Contains(Point{2, 2}))
	})

	t.Run("outside", func(t *testing.T) {
		assert.False(t, r.Contains(Point{5, 2}))
		assert.False(t, r.Contains(Point{-1, -1}))
	})

	t.Run("on boundary", func(t *testing.T) {
		assert.True(t, r.Contains(Point{0, 2}), "edge point")
		assert.True(t, r.Contains(Point{4, 4}), "vertex")
	})

	t.Run("concave ring", func(t *testing.T) {
		// A "U" shape: the notch between the arms is outside.
		u := Ring{{0, 0}, {6, 0}, {6, 4}, {4, 4}, {4, 2}, {2, 2}, {2, 4}, {0, 4}}
		assert.True(t, u.Contains(Point{1, 3}))
		assert.False(t, u.Contains(Point{3, 3}))
		assert.True(t, u.Contains(Point{3, 1}))
	})
}
