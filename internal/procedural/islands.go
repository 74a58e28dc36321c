// Package procedural generates randomized geometry used to scatter plant
// islands and other organic-looking detail across GRLE info-layer
// rasters.
package procedural

import (
	"image"
	"math"
	"math/rand"

	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/raster"
	"github.com/aquilax/go-perlin"
)

// possiblePlantValues are the R-channel fruit-type indices an island
// stamp cycles through.
var possiblePlantValues = []uint8{65, 97, 129, 161, 193, 225}

// RoundedPolygon returns a perlin-distorted, rounding-buffered polygon
// approximating a circle of the given radius centered at (cx, cy). The
// radial jitter comes from a Perlin noise field seeded off rng, so
// neighboring vertices deform coherently (an organic blob outline) rather
// than independently, and output stays deterministic for a seeded rng.
func RoundedPolygon(rng *rand.Rand, numVertices int, cx, cy, radius, roundingRadius float64) []raster.PixelPoint {
	const distortion = 0.3
	const noiseFrequency = 3.0
	angleOffset := math.Pi / float64(numVertices)
	noise := perlin.NewPerlin(2, 2, 2, rng.Int63())

	base := make([]raster.PixelPoint, numVertices)
	for i := 0; i < numVertices; i++ {
		t := float64(i) / float64(numVertices)
		angle := (2*math.Pi*float64(i))/float64(numVertices) + angleOffset
		angle += noise.Noise2D(t*noiseFrequency, 0.5) * 2 * distortion
		r := radius * (1 + noise.Noise2D(t*noiseFrequency, 7.5)*2*distortion)
		base[i] = raster.PixelPoint{X: cx + math.Cos(angle)*r, Y: cy + math.Sin(angle)*r}
	}

	// Approximate a rounded buffer of roundingRadius by pushing
	// every vertex outward along its radial direction from the centroid,
	// the same simplified offset technique used by
	// geomutil.bufferRing for margin application.
	if roundingRadius == 0 {
		return base
	}
	out := make([]raster.PixelPoint, numVertices)
	for i, p := range base {
		dx, dy := p.X-cx, p.Y-cy
		length := math.Hypot(dx, dy)
		if length == 0 {
			out[i] = p
			continue
		}
		out[i] = raster.PixelPoint{
			X: p.X + dx/length*roundingRadius,
			Y: p.Y + dy/length*roundingRadius,
		}
	}
	return out
}

// ScatterIslands stamps count randomly placed, randomly valued plant
// islands onto dst. dst is mutated in place.
func ScatterIslands(rng *rand.Rand, dst *image.Gray, count, minSize, maxSize, vertexCount int, roundingRadius float64) {
	bounds := dst.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	for i := 0; i < count; i++ {
		value := possiblePlantValues[rng.Intn(len(possiblePlantValues))]
		size := minSize
		if maxSize > minSize {
			size = minSize + rng.Intn(maxSize-minSize)
		}
		if size >= width || size >= height {
			continue
		}
		x := rng.Intn(width - size)
		y := rng.Intn(height - size)
		cx := float64(x) + float64(size)/2
		cy := float64(y) + float64(size)/2
		radius := float64(size) / 2

		points := RoundedPolygon(rng, vertexCount, cx, cy, radius, roundingRadius)
		raster.FillPolygonMask(dst, [][]raster.PixelPoint{points}, value)
	}
}

// DefaultIslandParams returns the standard island-scatter constants.
func DefaultIslandParams() (minSize, maxSize, vertexCount int, roundingRadius float64) {
	return mapctx.PlantsIslandMinimumSize, mapctx.PlantsIslandMaximumSize,
		mapctx.PlantsIslandVertexCount, float64(mapctx.PlantsIslandRoundingRadius)
}
