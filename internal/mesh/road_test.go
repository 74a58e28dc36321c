package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec2"
)

func TestBuildRoadRibbonsFlatWithoutSampler(t *testing.T) {
	entries := []RoadEntry{{Points: []vec2.T{{0, 0}, {10, 0}, {20, 0}}, Width: 2}}
	m := BuildRoadRibbons(entries, nil)

	require.Len(t, m.Vertices, 6)
	require.Len(t, m.Faces, 4)
	for _, v := range m.Vertices {
		assert.Equal(t, 0.0, v[2])
	}
}

func TestBuildRoadRibbonsDrapesOverSampledHeights(t *testing.T) {
	entries := []RoadEntry{{Points: []vec2.T{{0, 0}, {10, 0}}, Width: 2}}
	// a tilted plane: height grows with x
	m := BuildRoadRibbons(entries, func(x, y float64) float64 { return x })

	require.Len(t, m.Vertices, 4)
	// z is the negated sampled height, so the far pair sits lower
	assert.Equal(t, 0.0, m.Vertices[0][2])
	assert.Equal(t, -10.0, m.Vertices[2][2])
}

func TestBuildRoadRibbonsZOffsetStacksOnSampledHeight(t *testing.T) {
	entries := []RoadEntry{{Points: []vec2.T{{0, 0}, {10, 0}}, Width: 2, ZOffset: -0.01}}
	m := BuildRoadRibbons(entries, func(x, y float64) float64 { return 5 })

	require.Len(t, m.Vertices, 4)
	for _, v := range m.Vertices {
		assert.InDelta(t, -5.01, v[2], 1e-9)
	}
}

func TestBuildRoadRibbonsUVAccumulatesByDistance(t *testing.T) {
	entries := []RoadEntry{{Points: []vec2.T{{0, 0}, {10, 0}, {30, 0}}, Width: 2}}
	m := BuildRoadRibbons(entries, nil)

	require.Len(t, m.UVs, 6)
	assert.Equal(t, 0.0, m.UVs[0][1])
	assert.Equal(t, 1.0, m.UVs[2][1])
	assert.Equal(t, 3.0, m.UVs[4][1])
	// left edge carries u=0, right edge u=1
	assert.Equal(t, 0.0, m.UVs[0][0])
	assert.Equal(t, 1.0, m.UVs[1][0])
}

func TestBuildRoadRibbonsSkipsDegenerateEntries(t *testing.T) {
	entries := []RoadEntry{{Points: []vec2.T{{0, 0}}, Width: 2}}
	m := BuildRoadRibbons(entries, nil)
	assert.Empty(t, m.Vertices)
}
