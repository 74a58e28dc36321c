package geomutil

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmartInterpolationResamplesStraightLine(t *testing.T) {
	line := []orb.Point{{0, 0}, {50, 0}, {100, 0}}
	out := SmartInterpolation(line)

	// a 100 m straight road resamples to ~5 m spacing
	assert.Greater(t, len(out), len(line))
	assert.Equal(t, line[0], out[0])
	assert.Equal(t, line[len(line)-1], out[len(out)-1])

	for i := 1; i < len(out); i++ {
		step := math.Hypot(out[i][0]-out[i-1][0], out[i][1]-out[i-1][1])
		assert.InDelta(t, 5.0, step, 1.0)
	}
}

func TestSmartInterpolationPreservesSharpRoad(t *testing.T) {
	// a right-angle turn deviates 90 degrees from straight, well over the
	// 30-degree threshold
	line := []orb.Point{{0, 0}, {50, 0}, {50, 50}}
	out := SmartInterpolation(line)
	assert.Equal(t, line, out)
}

func TestSmartInterpolationTwoPointsUntouched(t *testing.T) {
	line := []orb.Point{{0, 0}, {3, 0}}
	assert.Equal(t, line, SmartInterpolation(line))
}

func TestSplitLongLineSurfacesShortLineIsSinglePiece(t *testing.T) {
	line := []orb.Point{{0, 0}, {100, 0}}
	pieces := SplitLongLineSurfaces(line, 300)
	require.Len(t, pieces, 1)
	assert.Equal(t, line, pieces[0])
}

func TestSplitLongLineSurfacesCapsSegmentLength(t *testing.T) {
	// 600 m of road in 10 m steps must split into at least two pieces of
	// <= 300 m each, sharing their boundary point
	var line []orb.Point
	for x := 0.0; x <= 600; x += 10 {
		line = append(line, orb.Point{x, 0})
	}
	pieces := SplitLongLineSurfaces(line, 300)
	require.GreaterOrEqual(t, len(pieces), 2)

	for _, piece := range pieces {
		assert.LessOrEqual(t, polylineLength(piece), 300.0)
	}
	for i := 1; i < len(pieces); i++ {
		prev := pieces[i-1]
		assert.Equal(t, prev[len(prev)-1], pieces[i][0])
	}
}

func TestMaxInteriorAngleDegStraightIsZero(t *testing.T) {
	line := []orb.Point{{0, 0}, {1, 0}, {2, 0}}
	assert.InDelta(t, 0, maxInteriorAngleDeg(line), 1e-9)
}
