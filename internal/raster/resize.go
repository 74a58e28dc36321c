package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ResizeGrayNearest resizes a mask with nearest-neighbor sampling, used
// where category values must not blend (weight-mask scaling, GRLE
// density-map upscaling).
func ResizeGrayNearest(src *image.Gray, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// ResizeGrayBilinear resizes a mask with bilinear sampling, for when a
// smooth edge is preferred over a hard category boundary.
func ResizeGrayBilinear(src *image.Gray, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// ResizeGray16Nearest resizes a 16-bit heightmap preserving exact sample
// values.
func ResizeGray16Nearest(src *image.Gray16, width, height int) *image.Gray16 {
	dst := image.NewGray16(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// ResizeGray16Bilinear resizes a 16-bit heightmap with bilinear sampling.
func ResizeGray16Bilinear(src *image.Gray16, width, height int) *image.Gray16 {
	dst := image.NewGray16(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// RotateCropGray rotates a grayscale image about its center by angleDeg
// degrees (counter-clockwise positive) and crops to the given output size
// centered on the source center.
func RotateCropGray(src *image.Gray, angleDeg float64, outW, outH int) *image.Gray {
	rotated := rotateGray(src, angleDeg)
	return cropCenterGray(rotated, outW, outH)
}

func rotateGray(src *image.Gray, angleDeg float64) *image.Gray {
	rad := -angleDeg * math.Pi / 180.0
	sin, cos := math.Sin(rad), math.Cos(rad)

	b := src.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2

	// Output canvas sized to fit the rotated source without clipping.
	corners := [][2]float64{{0, 0}, {float64(b.Dx()), 0}, {0, float64(b.Dy())}, {float64(b.Dx()), float64(b.Dy())}}
	minX, minY, maxX, maxY := 1e18, 1e18, -1e18, -1e18
	for _, c := range corners {
		dx, dy := c[0]-cx, c[1]-cy
		rx := dx*cos - dy*sin
		ry := dx*sin + dy*cos
		if rx < minX {
			minX = rx
		}
		if rx > maxX {
			maxX = rx
		}
		if ry < minY {
			minY = ry
		}
		if ry > maxY {
			maxY = ry
		}
	}
	outW := int(maxX - minX)
	outH := int(maxY - minY)
	dst := image.NewGray(image.Rect(0, 0, outW, outH))
	ocx, ocy := float64(outW)/2, float64(outH)/2

	invSin, invCos := sin, cos
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			dx, dy := float64(x)-ocx, float64(y)-ocy
			// Inverse rotate to sample source.
			sx := dx*invCos + dy*invSin + cx
			sy := -dx*invSin + dy*invCos + cy
			ix, iy := int(sx), int(sy)
			if (image.Point{X: ix, Y: iy}).In(b) {
				dst.SetGray(x, y, src.GrayAt(ix, iy))
			}
		}
	}
	return dst
}

// RotateCropGray16 is RotateCropGray's 16-bit counterpart, used to rotate
// and crop the DEM.
func RotateCropGray16(src *image.Gray16, angleDeg float64, outW, outH int) *image.Gray16 {
	rotated := rotateGray16(src, angleDeg)
	return cropCenterGray16(rotated, outW, outH)
}

func rotateGray16(src *image.Gray16, angleDeg float64) *image.Gray16 {
	rad := -angleDeg * math.Pi / 180.0
	sin, cos := math.Sin(rad), math.Cos(rad)

	b := src.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2

	corners := [][2]float64{{0, 0}, {float64(b.Dx()), 0}, {0, float64(b.Dy())}, {float64(b.Dx()), float64(b.Dy())}}
	minX, minY, maxX, maxY := 1e18, 1e18, -1e18, -1e18
	for _, c := range corners {
		dx, dy := c[0]-cx, c[1]-cy
		rx := dx*cos - dy*sin
		ry := dx*sin + dy*cos
		if rx < minX {
			minX = rx
		}
		if rx > maxX {
			maxX = rx
		}
		if ry < minY {
			minY = ry
		}
		if ry > maxY {
			maxY = ry
		}
	}
	outW := int(maxX - minX)
	outH := int(maxY - minY)
	dst := image.NewGray16(image.Rect(0, 0, outW, outH))
	ocx, ocy := float64(outW)/2, float64(outH)/2

	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			dx, dy := float64(x)-ocx, float64(y)-ocy
			sx := dx*cos + dy*sin + cx
			sy := -dx*sin + dy*cos + cy
			ix, iy := int(sx), int(sy)
			if (image.Point{X: ix, Y: iy}).In(b) {
				dst.SetGray16(x, y, src.Gray16At(ix, iy))
			}
		}
	}
	return dst
}

func cropCenterGray16(src *image.Gray16, outW, outH int) *image.Gray16 {
	b := src.Bounds()
	x0 := b.Min.X + (b.Dx()-outW)/2
	y0 := b.Min.Y + (b.Dy()-outH)/2
	dst := image.NewGray16(image.Rect(0, 0, outW, outH))
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			sx, sy := x0+x, y0+y
			if (image.Point{X: sx, Y: sy}).In(b) {
				dst.SetGray16(x, y, src.Gray16At(sx, sy))
			}
		}
	}
	return dst
}

func cropCenterGray(src *image.Gray, outW, outH int) *image.Gray {
	b := src.Bounds()
	x0 := b.Min.X + (b.Dx()-outW)/2
	y0 := b.Min.Y + (b.Dy()-outH)/2
	dst := image.NewGray(image.Rect(0, 0, outW, outH))
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			sx, sy := x0+x, y0+y
			if (image.Point{X: sx, Y: sy}).In(b) {
				dst.SetGray(x, y, src.GrayAt(sx, sy))
			}
		}
	}
	return dst
}
