package background

import (
	"image"
	"image/color"

	"github.com/MeKo-Tech/mapgen/internal/raster"
)

// asAnySlice normalizes an InfoLayerStore value (any) back into a []any,
// tolerating the "not present" case.
func asAnySlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// ringsOf extracts the polygon ring list Texture stored for a field or
// farmyard entry ([][][2]float64, one outer ring plus any holes).
func ringsOf(v any) [][][2]float64 {
	rings, _ := v.([][][2]float64)
	return rings
}

// lineToPixelPoints converts a Texture-stored polyline ([][2]float64) into
// raster.PixelPoint form.
func lineToPixelPoints(v any) []raster.PixelPoint {
	pairs, _ := v.([][2]float64)
	out := make([]raster.PixelPoint, len(pairs))
	for i, p := range pairs {
		out[i] = raster.PixelPoint{X: p[0], Y: p[1]}
	}
	return out
}

// flattenUnderRing sets every DEM pixel inside a single polygon ring to
// the height sampled at the ring's centroid.
func flattenUnderRing(dem *image.Gray16, ring [][2]float64) {
	if len(ring) < 3 {
		return
	}
	pts := make([]raster.PixelPoint, len(ring))
	var cx, cy float64
	for i, p := range ring {
		pts[i] = raster.PixelPoint{X: p[0], Y: p[1]}
		cx += p[0]
		cy += p[1]
	}
	cx /= float64(len(ring))
	cy /= float64(len(ring))

	bounds := dem.Bounds()
	ix, iy := clampInt(int(cx), bounds.Min.X, bounds.Max.X-1), clampInt(int(cy), bounds.Min.Y, bounds.Max.Y-1)
	target := dem.Gray16At(ix, iy).Y

	mask := raster.NewEmptyMask(bounds)
	raster.FillPolygonMask(mask, [][]raster.PixelPoint{pts}, 255)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				dem.SetGray16(x, y, color.Gray16{Y: target})
			}
		}
	}
}

// levelAlongLine sets each DEM pixel within the road's footprint to the
// height sampled at its nearest centerline point, so the flattened strip
// follows the road's own slope rather than a single fixed height.
func levelAlongLine(dem *image.Gray16, pts []raster.PixelPoint) {
	if len(pts) < 2 {
		return
	}
	const halfWidth = 3.0
	bounds := dem.Bounds()
	mask := raster.NewEmptyMask(bounds)
	raster.StrokeLineMask(mask, pts, halfWidth*2, 255)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y == 0 {
				continue
			}
			nx, ny := nearestPointHeight(pts, float64(x), float64(y))
			dem.SetGray16(x, y, color.Gray16{Y: dem.Gray16At(nx, ny).Y})
		}
	}
}

func nearestPointHeight(pts []raster.PixelPoint, x, y float64) (int, int) {
	best := 0
	bestDist := -1.0
	for i, p := range pts {
		dx, dy := p.X-x, p.Y-y
		d := dx*dx + dy*dy
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return int(pts[best].X), int(pts[best].Y)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gray16ToFloatGrid converts a 16-bit heightmap into the row-major
// grid mesh.FromHeightGrid expects. Values stay in raw 16-bit units;
// the Z-axis meters conversion happens via TerrainOptions.ZScalingFactor
// afterward.
func gray16ToFloatGrid(img *image.Gray16) [][]float64 {
	bounds := img.Bounds()
	out := make([][]float64, bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := make([]float64, bounds.Dx())
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			row[x-bounds.Min.X] = float64(img.Gray16At(x, y).Y)
		}
		out[y-bounds.Min.Y] = row
	}
	return out
}
