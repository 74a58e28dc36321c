package provider

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/MeKo-Tech/mapgen/internal/geomutil"
)

// FileSatellite implements mapctx.SatelliteFetcher by returning the same
// local image file for every request, ignoring bbox/zoom. It exists so
// `generate --satellite` can be exercised without a live tile provider;
// real satellite HTTP clients are out of scope for this module (spec
// Non-goals).
type FileSatellite struct {
	Path string
}

func (f *FileSatellite) Fetch(ctx context.Context, bbox geomutil.BoundingBox, zoom int) (any, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("opening satellite file %s: %w", f.Path, err)
	}
	defer file.Close()

	var img image.Image
	if strings.HasSuffix(strings.ToLower(f.Path), ".jpg") || strings.HasSuffix(strings.ToLower(f.Path), ".jpeg") {
		img, err = jpeg.Decode(file)
	} else {
		img, err = png.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding satellite file %s: %w", f.Path, err)
	}
	return img, nil
}
