package raster

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillPolygonMaskFillsSquare(t *testing.T) {
	dst := NewEmptyMask(image.Rect(0, 0, 20, 20))
	square := []PixelPoint{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 15}, {X: 5, Y: 15}}

	FillPolygonMask(dst, [][]PixelPoint{square}, 200)

	assert.Equal(t, uint8(200), dst.GrayAt(10, 10).Y)
	assert.Equal(t, uint8(0), dst.GrayAt(1, 1).Y)
}

func TestFillPolygonMaskDegenerateRingIgnored(t *testing.T) {
	dst := NewEmptyMask(image.Rect(0, 0, 10, 10))
	FillPolygonMask(dst, [][]PixelPoint{{{X: 1, Y: 1}, {X: 2, Y: 2}}}, 100)

	for _, v := range dst.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestFillPolygonMaskEmptyRingsNoop(t *testing.T) {
	dst := NewEmptyMask(image.Rect(0, 0, 5, 5))
	FillPolygonMask(dst, nil, 255)
	for _, v := range dst.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestStrokeLineMaskDrawsAlongSegment(t *testing.T) {
	dst := NewEmptyMask(image.Rect(0, 0, 20, 20))
	StrokeLineMask(dst, []PixelPoint{{X: 2, Y: 10}, {X: 18, Y: 10}}, 3, 255)

	assert.Equal(t, uint8(255), dst.GrayAt(10, 10).Y)
	assert.Equal(t, uint8(0), dst.GrayAt(10, 0).Y)
}

func TestStrokeLineMaskTooFewPointsNoop(t *testing.T) {
	dst := NewEmptyMask(image.Rect(0, 0, 10, 10))
	StrokeLineMask(dst, []PixelPoint{{X: 1, Y: 1}}, 2, 255)
	for _, v := range dst.Pix {
		assert.Equal(t, uint8(0), v)
	}
}
