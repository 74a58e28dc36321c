package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// LoadGrayPNG reads an 8-bit grayscale PNG mask from disk, converting if
// the file was encoded with a different color model.
func LoadGrayPNG(path string) (*image.Gray, error) {
	img, err := decodePNG(path)
	if err != nil {
		return nil, err
	}
	if g, ok := img.(*image.Gray); ok {
		return g, nil
	}
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out, nil
}

// LoadGray16PNG reads a 16-bit grayscale PNG heightmap from disk.
func LoadGray16PNG(path string) (*image.Gray16, error) {
	img, err := decodePNG(path)
	if err != nil {
		return nil, err
	}
	if g, ok := img.(*image.Gray16); ok {
		return g, nil
	}
	bounds := img.Bounds()
	out := image.NewGray16(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}
