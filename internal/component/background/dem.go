package background

import (
	"context"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/raster"
)

// demResult carries the DEM sub-pipeline's output forward into the rest
// of the Background component.
type demResult struct {
	notResized  *image.Gray16
	rotated     *image.Gray16
	heightScale int
}

// buildDEM runs the DEM sub-pipeline in a fixed order:
// fetch -> value multiplier -> ground-level adjust -> plateau offset ->
// height scale -> normalize -> resize to resolution -> blur -> validate ->
// rotate+crop.
func buildDEM(ctx context.Context, mc *mapctx.MapContext) (*demResult, error) {
	if mc.DTMFetcher == nil {
		return nil, &mapctx.InvalidInputError{Field: "DTMFetcher", Msg: "not configured"}
	}

	notResizedSizeM := mc.SizeM + 2*mapctx.BackgroundDistance
	bbox := geomutil.FromCenter(mc.CenterLat, mc.CenterLon, float64(notResizedSizeM))

	elevations, _, err := mc.DTMFetcher.Fetch(ctx, bbox)
	if err != nil {
		return nil, &mapctx.ExternalFetchError{Source: "dtm", Err: err}
	}
	if len(elevations) == 0 {
		return nil, &mapctx.InternalInvariantError{Msg: "DTM fetch returned an empty grid"}
	}

	// DEMSettings.Multiplier scales the raw elevation *values*;
	// GameProfile.DEMMultiplier scales the output *resolution*. The two
	// settings are unrelated and must not be conflated.
	if mc.DEM.Multiplier > 1 {
		scale := float64(mc.DEM.Multiplier)
		for y := range elevations {
			for x := range elevations[y] {
				elevations[y][x] *= scale
			}
		}
	}

	rawMax := 0.0
	rawMin := math.MaxFloat64
	for _, row := range elevations {
		for _, v := range row {
			if v > rawMax {
				rawMax = v
			}
			if v < rawMin {
				rawMin = v
			}
		}
	}
	if mc.DEM.AdjustTerrainToGroundLevel {
		for y := range elevations {
			for x := range elevations[y] {
				elevations[y][x] -= rawMin
			}
		}
		rawMax -= rawMin
	}
	if mc.DEM.Plateau != 0 {
		offset := float64(mc.DEM.Plateau)
		for y := range elevations {
			for x := range elevations[y] {
				elevations[y][x] += offset
			}
		}
		rawMax += offset
	}

	heightScale := raster.HeightScale(rawMax, mc.DEM.Ceiling, mc.DEM.MinimumHeightScale)

	notResized := raster.NormalizeHeightmap(elevations, heightScale)

	// Resize to the DEM output resolution (not_resized_size/2)*dem_multiplier.
	outputSize := notResizedSizeM / 2 * mc.Game.DEMMultiplier
	notResized = raster.ResizeGray16Bilinear(notResized, outputSize, outputSize)

	blurred := raster.BlurGray16(notResized, mc.DEM.BlurRadius)

	if blurred.Bounds().Dx() == 0 || blurred.Bounds().Dy() == 0 {
		return nil, &mapctx.InternalInvariantError{Msg: "DEM heightmap has zero size after normalization"}
	}

	playableSize := mc.SizeM*mc.Game.DEMMultiplier + 1
	rotated := raster.RotateCropGray16(blurred, -float64(mc.RotationDeg), playableSize, playableSize)

	return &demResult{notResized: blurred, rotated: rotated, heightScale: heightScale}, nil
}

func writeGray16PNG(path string, img *image.Gray16) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &mapctx.FormatWriteError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &mapctx.FormatWriteError{Path: path, Err: err}
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return &mapctx.FormatWriteError{Path: path, Err: err}
	}
	return nil
}
