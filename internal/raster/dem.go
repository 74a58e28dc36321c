package raster

import (
	"image"
	"image/color"
	"math"
)

// HeightScale computes the i3d heightScale value from the raw elevation
// range and a safety ceiling.
// The result is always at least minimumHeightScale and always an integer
// number of meters (ceil), so that no raw elevation sample is clipped
// once normalized to 16 bits.
func HeightScale(rawMaxM float64, ceilingM, minimumHeightScale int) int {
	scale := int(math.Ceil(rawMaxM + float64(ceilingM)))
	if scale < minimumHeightScale {
		scale = minimumHeightScale
	}
	if scale < 1 {
		scale = 1
	}
	return scale
}

// ZScalingFactor converts a raw 16-bit DEM pixel value into meters given a
// height scale.
func ZScalingFactor(heightScale int) float64 {
	return 65535.0 / float64(heightScale)
}

// NormalizeHeightmap maps a float64 meters-elevation grid (relative to the
// grid minimum) into a 16-bit grayscale heightmap using the given height
// scale.
func NormalizeHeightmap(elevations [][]float64, heightScale int) *image.Gray16 {
	if len(elevations) == 0 {
		return image.NewGray16(image.Rect(0, 0, 0, 0))
	}
	h := len(elevations)
	w := len(elevations[0])
	img := image.NewGray16(image.Rect(0, 0, w, h))
	factor := 65535.0 / float64(heightScale)
	for y := 0; y < h; y++ {
		for x := 0; x < w && x < len(elevations[y]); x++ {
			v := elevations[y][x] * factor
			if v < 0 {
				v = 0
			}
			if v > 65535 {
				v = 65535
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(v))})
		}
	}
	return img
}

// SampleMeters reads the elevation in meters at pixel (x, y) given the
// heightmap and its height scale.
func SampleMeters(img *image.Gray16, x, y, heightScale int) float64 {
	bounds := img.Bounds()
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if x >= bounds.Max.X {
		x = bounds.Max.X - 1
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	}
	if y >= bounds.Max.Y {
		y = bounds.Max.Y - 1
	}
	v := img.Gray16At(x, y).Y
	return float64(v) * float64(heightScale) / 65535.0
}

// BlurGray16 runs a separable box blur over a 16-bit heightmap, preserving
// resolution.
func BlurGray16(img *image.Gray16, radius int) *image.Gray16 {
	if radius < 1 {
		out := image.NewGray16(img.Bounds())
		copy(out.Pix, img.Pix)
		return out
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	at := func(x, y int) uint32 {
		return uint32(img.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y)
	}

	temp := make([][]uint32, height)
	for y := range temp {
		temp[y] = make([]uint32, width)
	}
	for y := 0; y < height; y++ {
		sum, count := uint32(0), 0
		for x := -radius; x <= radius; x++ {
			if x >= 0 && x < width {
				sum += at(x, y)
				count++
			}
		}
		temp[y][0] = sum / uint32(count)
		for x := 1; x < width; x++ {
			if left := x - radius - 1; left >= 0 {
				sum -= at(left, y)
				count--
			}
			if right := x + radius; right < width {
				sum += at(right, y)
				count++
			}
			temp[y][x] = sum / uint32(count)
		}
	}

	out := image.NewGray16(bounds)
	for x := 0; x < width; x++ {
		sum, count := uint32(0), 0
		for y := -radius; y <= radius; y++ {
			if y >= 0 && y < height {
				sum += temp[y][x]
				count++
			}
		}
		out.SetGray16(bounds.Min.X+x, bounds.Min.Y, color.Gray16{Y: uint16(sum / uint32(count))})
		for y := 1; y < height; y++ {
			if top := y - radius - 1; top >= 0 {
				sum -= temp[top][x]
				count--
			}
			if bottom := y + radius; bottom < height {
				sum += temp[bottom][x]
				count++
			}
			out.SetGray16(bounds.Min.X+x, bounds.Min.Y+y, color.Gray16{Y: uint16(sum / uint32(count))})
		}
	}
	return out
}
