// Package provider holds the small, locally-backed implementations of
// mapctx.OSMFetcher, mapctx.DTMFetcher, and mapctx.SatelliteFetcher that
// internal/cliapp wires up by default. Real DTM/satellite HTTP provider
// clients live outside this module; these implementations exist so
// `generate` produces a complete map package without requiring an
// external service.
package provider

import (
	"context"
	"fmt"

	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/raster"
)

// FlatDTM implements mapctx.DTMFetcher by returning a constant elevation
// grid, for offline runs and CI where no terrain provider is configured.
type FlatDTM struct {
	ElevationM float64
	CellSizeM  float64
	Cells      int
}

func (f *FlatDTM) Fetch(ctx context.Context, bbox geomutil.BoundingBox) ([][]float64, float64, error) {
	n := f.Cells
	if n < 1 {
		n = 64
	}
	cellSize := f.CellSizeM
	if cellSize <= 0 {
		cellSize = 1
	}
	grid := make([][]float64, n)
	for y := range grid {
		row := make([]float64, n)
		for x := range row {
			row[x] = f.ElevationM
		}
		grid[y] = row
	}
	return grid, cellSize, nil
}

// FileDTM implements mapctx.DTMFetcher by reading a 16-bit grayscale PNG
// heightmap from disk and scaling pixel values to meters, for runs driven
// by a pre-fetched DTM export rather than a live provider.
type FileDTM struct {
	Path      string
	CellSizeM float64
	ScaleM    float64
}

func (f *FileDTM) Fetch(ctx context.Context, bbox geomutil.BoundingBox) ([][]float64, float64, error) {
	img, err := raster.LoadGray16PNG(f.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("loading DTM file %s: %w", f.Path, err)
	}
	scale := f.ScaleM
	if scale <= 0 {
		scale = 1.0 / 65535.0
	}
	bounds := img.Bounds()
	grid := make([][]float64, bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		row := make([]float64, bounds.Dx())
		for x := 0; x < bounds.Dx(); x++ {
			row[x] = float64(img.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y) * scale
		}
		grid[y] = row
	}
	cellSize := f.CellSizeM
	if cellSize <= 0 {
		cellSize = 1
	}
	return grid, cellSize, nil
}
