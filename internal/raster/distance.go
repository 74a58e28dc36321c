package raster

import (
	"image"
	"image/color"
	"math"
)

// EuclideanDistanceTransform computes, for each non-zero ("inside") pixel of
// mask, its Euclidean distance to the nearest zero ("outside") pixel, using
// the Felzenszwalb & Huttenlocher separable squared-distance algorithm.
// Distances are clamped to maxDistance and normalized to 0-255.
func EuclideanDistanceTransform(mask *image.Gray, maxDistance float64) *image.Gray {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	infinity := maxDistance * maxDistance * 2.0

	isEdge := make([]bool, width*height)
	temp := make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y == 0 {
				continue
			}
			edge := false
			if x > 0 && mask.GrayAt(bounds.Min.X+x-1, bounds.Min.Y+y).Y == 0 {
				edge = true
			}
			if x < width-1 && mask.GrayAt(bounds.Min.X+x+1, bounds.Min.Y+y).Y == 0 {
				edge = true
			}
			if y > 0 && mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y-1).Y == 0 {
				edge = true
			}
			if y < height-1 && mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y+1).Y == 0 {
				edge = true
			}
			isEdge[y*width+x] = edge
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y == 0 {
				temp[idx] = infinity
			} else if isEdge[idx] {
				temp[idx] = 0
			} else {
				temp[idx] = infinity
			}
		}
	}

	rowBuf := make([]float64, width)
	for y := 0; y < height; y++ {
		copy(rowBuf, temp[y*width:y*width+width])
		distanceTransform1D(rowBuf, rowBuf)
		copy(temp[y*width:y*width+width], rowBuf)
	}

	colBuf := make([]float64, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			colBuf[y] = temp[y*width+x]
		}
		distanceTransform1D(colBuf, colBuf)
		for y := 0; y < height; y++ {
			temp[y*width+x] = colBuf[y]
		}
	}

	out := image.NewGray(bounds)
	maxDistSq := maxDistance * maxDistance
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y == 0 {
				out.SetGray(bounds.Min.X+x, bounds.Min.Y+y, color.Gray{Y: 0})
				continue
			}
			distSq := temp[idx]
			var v uint8
			switch {
			case distSq >= infinity/2, distSq >= maxDistSq:
				v = 255
			default:
				v = uint8(255.0 * math.Sqrt(distSq) / maxDistance)
			}
			out.SetGray(bounds.Min.X+x, bounds.Min.Y+y, color.Gray{Y: v})
		}
	}
	return out
}

// distanceTransform1D computes the 1D lower envelope of parabolas (the
// Felzenszwalb & Huttenlocher algorithm) over input in place into output.
func distanceTransform1D(input, output []float64) {
	n := len(input)
	v := make([]int, n)
	z := make([]float64, n+1)

	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		var s float64
		for {
			s = ((input[q] + float64(q*q)) - (input[v[k]] + float64(v[k]*v[k]))) /
				(2.0 * float64(q-v[k]))
			if s <= z[k] && k > 0 {
				k--
				continue
			}
			break
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dx := float64(q - v[k])
		output[q] = dx*dx + input[v[k]]
	}
}

// EdgeFalloffMask combines a distance transform with a power-curve falloff
// to produce an edge intensity mask: 0 at the boundary, 255 at distance >=
// radius. Used for water-edge blending in the Background component.
func EdgeFalloffMask(mask *image.Gray, radius, gamma float64) *image.Gray {
	dist := EuclideanDistanceTransform(mask, radius)
	bounds := dist.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			norm := float64(dist.GrayAt(x, y).Y) / 255.0
			v := math.Pow(norm, gamma)
			out.SetGray(x, y, color.Gray{Y: uint8(255.0 * v)})
		}
	}
	return out
}
