package mesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// RoadEntry is a single ribbon to stamp into a road mesh: a polyline in
// map-pixel space, a width in meters, and an optional Z offset used to
// raise T-junction patches above the road they overlay.
type RoadEntry struct {
	Points  []vec2.T
	Width   float64
	ZOffset float64
}

// TextureTileSize is the ribbon length, in meters, after which the road
// texture's V coordinate repeats.
const TextureTileSize = 10.0

// HeightSampler reports the terrain height, in meters, under a ribbon
// vertex. A nil sampler means a flat surface at height zero.
type HeightSampler func(x, y float64) float64

// BuildRoadRibbons builds one textured quad-strip mesh per entry and
// merges them into a single mesh. Each vertex's z is the negated sampled
// terrain height plus the entry's ZOffset, so ribbons drape over the
// heightmap instead of floating on a plane.
func BuildRoadRibbons(entries []RoadEntry, sampleHeight HeightSampler) *Mesh {
	m := &Mesh{}

	for _, entry := range entries {
		if len(entry.Points) < 2 {
			continue
		}
		appendRibbon(m, entry, sampleHeight)
	}

	return m
}

func appendRibbon(m *Mesh, entry RoadEntry, sampleHeight HeightSampler) {
	points := entry.Points
	n := len(points)

	leftIdx := make([]int, n)
	rightIdx := make([]int, n)

	accumulated := 0.0
	for i := 0; i < n; i++ {
		x, y := points[i][0], points[i][1]

		var dx, dy float64
		switch {
		case i == 0:
			dx, dy = points[i+1][0]-points[i][0], points[i+1][1]-points[i][1]
		case i == n-1:
			dx, dy = points[i][0]-points[i-1][0], points[i][1]-points[i-1][1]
		default:
			dx1, dy1 := points[i][0]-points[i-1][0], points[i][1]-points[i-1][1]
			dx2, dy2 := points[i+1][0]-points[i][0], points[i+1][1]-points[i][1]
			dx, dy = (dx1+dx2)/2, (dy1+dy2)/2
		}
		length := math.Hypot(dx, dy)
		if length > 0 {
			dx /= length
			dy /= length
		}
		perpX, perpY := -dy, dx

		if i > 0 {
			segDist := math.Hypot(points[i][0]-points[i-1][0], points[i][1]-points[i-1][1])
			accumulated += segDist
		}
		v := accumulated / TextureTileSize

		leftX, leftY := x+perpX*entry.Width, y+perpY*entry.Width
		rightX, rightY := x-perpX*entry.Width, y-perpY*entry.Width
		leftZ, rightZ := entry.ZOffset, entry.ZOffset
		if sampleHeight != nil {
			leftZ -= sampleHeight(leftX, leftY)
			rightZ -= sampleHeight(rightX, rightY)
		}

		left := vec3.T{leftX, leftY, leftZ}
		right := vec3.T{rightX, rightY, rightZ}

		leftIdx[i] = m.AddVertex(left, vec2.T{0, v})
		rightIdx[i] = m.AddVertex(right, vec2.T{1, v})
	}

	for i := 0; i < n-1; i++ {
		m.AddFace(leftIdx[i], leftIdx[i+1], rightIdx[i])
		m.AddFace(rightIdx[i], leftIdx[i+1], rightIdx[i+1])
	}
}
