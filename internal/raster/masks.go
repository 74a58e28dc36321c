// Package raster provides mask algebra, blur, resize, and threshold helpers
// shared by every pipeline component that reads or writes weight masks,
// the heightmap, and the GRLE info-layer rasters.
package raster

import (
	"image"
	"image/color"

	"github.com/disintegration/gift"
)

// NewEmptyMask returns an all-zero grayscale mask of the given bounds.
func NewEmptyMask(bounds image.Rectangle) *image.Gray {
	return image.NewGray(bounds)
}

// MaxMask computes a pixel-wise max of two masks (set union). Masks must
// share bounds.
func MaxMask(a, b *image.Gray) *image.Gray {
	if a == nil || b == nil || a.Bounds() != b.Bounds() {
		return nil
	}
	bounds := a.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			av, bv := a.GrayAt(x, y).Y, b.GrayAt(x, y).Y
			if bv > av {
				av = bv
			}
			out.SetGray(x, y, color.Gray{Y: av})
		}
	}
	return out
}

// MinMask computes a pixel-wise min of two masks (set intersection). Masks
// must share bounds.
func MinMask(a, b *image.Gray) *image.Gray {
	if a == nil || b == nil || a.Bounds() != b.Bounds() {
		return nil
	}
	bounds := a.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			av, bv := a.GrayAt(x, y).Y, b.GrayAt(x, y).Y
			if bv < av {
				av = bv
			}
			out.SetGray(x, y, color.Gray{Y: av})
		}
	}
	return out
}

// SubtractMask zeroes out pixels in a that are set in b (relative
// complement), used to remove already-claimed pixels from a lower-priority
// layer's mask.
func SubtractMask(a, b *image.Gray) *image.Gray {
	if a == nil || b == nil || a.Bounds() != b.Bounds() {
		return nil
	}
	bounds := a.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if b.GrayAt(x, y).Y > 0 {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, a.GrayAt(x, y))
			}
		}
	}
	return out
}

// InvertMask inverts a grayscale mask (Y -> 255-Y).
func InvertMask(m *image.Gray) *image.Gray {
	if m == nil {
		return nil
	}
	bounds := m.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetGray(x, y, color.Gray{Y: 255 - m.GrayAt(x, y).Y})
		}
	}
	return out
}

// Dilate grows non-zero regions of a mask by radius pixels using a square
// structuring element. Used for water-edge widening (DEMSettings water
// polygon growth) ahead of the blur pass.
func Dilate(m *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return cloneGray(m)
	}
	bounds := m.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var maxV uint8
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if !(image.Point{X: nx, Y: ny}).In(bounds) {
						continue
					}
					if v := m.GrayAt(nx, ny).Y; v > maxV {
						maxV = v
					}
				}
			}
			out.SetGray(x, y, color.Gray{Y: maxV})
		}
	}
	return out
}

// Erode shrinks non-zero regions of a mask by radius pixels, the dual of
// Dilate. Used by GRLE's plant-mask cleanup pass.
func Erode(m *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return cloneGray(m)
	}
	bounds := m.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			minV := uint8(255)
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if !(image.Point{X: nx, Y: ny}).In(bounds) {
						minV = 0
						continue
					}
					if v := m.GrayAt(nx, ny).Y; v < minV {
						minV = v
					}
				}
			}
			out.SetGray(x, y, color.Gray{Y: minV})
		}
	}
	return out
}

func cloneGray(m *image.Gray) *image.Gray {
	out := image.NewGray(m.Bounds())
	copy(out.Pix, m.Pix)
	return out
}

// GaussianBlur applies a Gaussian blur to a mask; sigma controls radius.
func GaussianBlur(mask *image.Gray, sigma float32) *image.Gray {
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewGray(g.Bounds(mask.Bounds()))
	g.Draw(dst, mask)
	return dst
}

// ApplyThresholdWithAntialias sharpens a mask around threshold with a
// smootherstep transition zone of +/-20 gray levels.
func ApplyThresholdWithAntialias(mask *image.Gray, threshold uint8) *image.Gray {
	const transition = 20
	bounds := mask.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			val := int(mask.GrayAt(x, y).Y)
			lower, upper := int(threshold)-transition, int(threshold)+transition
			var outVal uint8
			switch {
			case val <= lower:
				outVal = 0
			case val >= upper:
				outVal = 255
			default:
				t := float32(val-lower) / float32(2*transition)
				smooth := t * t * (3.0 - 2.0*t)
				outVal = uint8(smooth * 255.0)
			}
			out.SetGray(x, y, color.Gray{Y: outVal})
		}
	}
	return out
}

// FillValue sets every pixel covered by mask (Y > 0) in dst to v. Used by
// GRLE farmland/plant compositing where a binary coverage mask selects
// pixels to stamp with a fixed index or category value.
func FillValue(dst *image.Gray, mask *image.Gray, v uint8) {
	bounds := dst.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				dst.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
}

// ZeroBorder clears the outermost ring of pixels of an image in place,
// matching GRLE's remove_edge_pixel_values step.
func ZeroBorder(img *image.Gray) {
	bounds := img.Bounds()
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		img.SetGray(x, bounds.Min.Y, color.Gray{Y: 0})
		img.SetGray(x, bounds.Max.Y-1, color.Gray{Y: 0})
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		img.SetGray(bounds.Min.X, y, color.Gray{Y: 0})
		img.SetGray(bounds.Max.X-1, y, color.Gray{Y: 0})
	}
}

// NonEmptyPixels reports coordinates of every pixel with a non-zero value,
// sampled on a stride, used by I3D's forest-tree scatter.
func NonEmptyPixels(img *image.Gray, step int) [][2]int {
	if step < 1 {
		step = 1
	}
	bounds := img.Bounds()
	var out [][2]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			if img.GrayAt(x, y).Y > 0 {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}
