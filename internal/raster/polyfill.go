package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// PixelPoint is a point already projected into the map's pixel space by
// internal/geomutil, ready for rasterization into a weight mask.
type PixelPoint struct{ X, Y float64 }

// FillPolygonMask rasterizes a closed polygon (exterior ring followed by
// any hole rings) into dst, setting covered pixels to value. Holes are
// rendered with the nonzero winding rule by drawing them in reverse point
// order, matching the way orb polygons encode interior rings.
func FillPolygonMask(dst *image.Gray, rings [][]PixelPoint, value uint8) {
	if len(rings) == 0 {
		return
	}
	bounds := dst.Bounds()
	ras := vector.NewRasterizer(bounds.Dx(), bounds.Dy())

	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		first := true
		for _, pt := range ring {
			x := float32(pt.X - float64(bounds.Min.X))
			y := float32(pt.Y - float64(bounds.Min.Y))
			if first {
				ras.MoveTo(x, y)
				first = false
			} else {
				ras.LineTo(x, y)
			}
		}
		ras.ClosePath()
	}

	mask := image.NewAlpha(bounds)
	ras.Draw(mask, mask.Bounds(), image.NewUniform(color.Alpha{A: 255}), image.Point{})

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.AlphaAt(x, y).A > 0 {
				dst.SetGray(x, y, color.Gray{Y: value})
			}
		}
	}
}

// StrokeLineMask rasterizes a polyline as a series of discs of the given
// pixel width into dst, setting covered pixels to value. Used for roads
// and waterway linestrings that carry a LayerSpec.Width instead of a
// filled polygon footprint.
func StrokeLineMask(dst *image.Gray, points []PixelPoint, width float64, value uint8) {
	if len(points) < 2 {
		return
	}
	radius := width / 2.0
	if radius < 0.5 {
		radius = 0.5
	}
	bounds := dst.Bounds()

	drawDisc := func(cx, cy float64) {
		minX := int(math.Floor(cx - radius))
		maxX := int(math.Ceil(cx + radius))
		minY := int(math.Floor(cy - radius))
		maxY := int(math.Ceil(cy + radius))
		if minX < bounds.Min.X {
			minX = bounds.Min.X
		}
		if minY < bounds.Min.Y {
			minY = bounds.Min.Y
		}
		if maxX >= bounds.Max.X {
			maxX = bounds.Max.X - 1
		}
		if maxY >= bounds.Max.Y {
			maxY = bounds.Max.Y - 1
		}
		r2 := radius * radius
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				dx := (float64(x) + 0.5) - cx
				dy := (float64(y) + 0.5) - cy
				if dx*dx+dy*dy <= r2 {
					dst.SetGray(x, y, color.Gray{Y: value})
				}
			}
		}
	}

	for i := 0; i < len(points)-1; i++ {
		x0, y0 := points[i].X, points[i].Y
		x1, y1 := points[i+1].X, points[i+1].Y
		dx, dy := x1-x0, y1-y0
		segLen := math.Hypot(dx, dy)
		if segLen == 0 {
			drawDisc(x0, y0)
			continue
		}
		steps := int(math.Ceil(segLen / 0.75))
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			drawDisc(x0+dx*t, y0+dy*t)
		}
	}
}
