package geomutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromCenterSymmetric(t *testing.T) {
	bbox := FromCenter(48.0, 11.0, 2000)

	assert.InDelta(t, 11.0, bbox.CenterLon(), 1e-9)
	assert.InDelta(t, 48.0, bbox.CenterLat(), 1e-9)
	assert.True(t, bbox.MaxLon() > bbox.MinLon())
	assert.True(t, bbox.MaxLat() > bbox.MinLat())

	lonSpanM := (bbox.MaxLon() - bbox.MinLon()) * metersPerDegreeLat * math.Cos(48.0*math.Pi/180.0)
	latSpanM := (bbox.MaxLat() - bbox.MinLat()) * metersPerDegreeLat
	assert.InDelta(t, 2000, lonSpanM, 0.01)
	assert.InDelta(t, 2000, latSpanM, 0.01)
}

func TestBoundingBoxContains(t *testing.T) {
	bbox := FromCenter(48.0, 11.0, 1000)
	assert.True(t, bbox.Contains(48.0, 11.0))
	assert.False(t, bbox.Contains(90.0, 0.0))
}

func TestBoundingBoxExpand(t *testing.T) {
	bbox := FromCenter(48.0, 11.0, 1000)
	expanded := bbox.Expand(500)

	assert.True(t, expanded.MinLon() < bbox.MinLon())
	assert.True(t, expanded.MaxLon() > bbox.MaxLon())
	assert.True(t, expanded.MinLat() < bbox.MinLat())
	assert.True(t, expanded.MaxLat() > bbox.MaxLat())
}
