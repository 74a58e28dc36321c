// Package satellite implements the optional Satellite pipeline component:
// it downloads two basemap images, an overview at twice the map's side
// length and a background image sized to match the Background
// component's not-resized DEM footprint.
package satellite

import (
	"context"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
)

// Component implements pipeline.Component for satellite basemap download.
type Component struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{logger: logger}
}

func (c *Component) Name() string { return "satellite" }

func (c *Component) Preprocess(mc *mapctx.MapContext) error {
	return nil
}

// Process downloads the overview and background images. Skips entirely when
// SatelliteSettings.DownloadImages is false, and when the two requested
// footprints happen to match in size, copies the first download instead
// of fetching twice.
func (c *Component) Process(ctx context.Context, mc *mapctx.MapContext) error {
	if !mc.Satellite.DownloadImages {
		return nil
	}
	if mc.SatelliteFetcher == nil {
		return &mapctx.InvalidInputError{Field: "SatelliteFetcher", Msg: "not configured"}
	}

	outDir := filepath.Join(mc.OutputDir, "satellite")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &mapctx.FormatWriteError{Path: outDir, Err: err}
	}

	overviewSizeM := mc.SizeM * 2
	backgroundSizeM := mc.SizeM + 2*mapctx.BackgroundDistance

	overviewBBox := geomutil.FromCenter(mc.CenterLat, mc.CenterLon, float64(overviewSizeM))
	backgroundBBox := geomutil.FromCenter(mc.CenterLat, mc.CenterLon, float64(backgroundSizeM))

	overviewPath := filepath.Join(outDir, "overview.png")
	backgroundPath := filepath.Join(outDir, "background.png")

	overviewImg, err := c.fetch(ctx, mc, overviewBBox)
	if err != nil {
		return err
	}
	if err := writePNG(overviewPath, overviewImg); err != nil {
		return err
	}
	mc.Assets.Overview = overviewPath

	if overviewSizeM == backgroundSizeM {
		if err := writePNG(backgroundPath, overviewImg); err != nil {
			return err
		}
	} else {
		backgroundImg, err := c.fetch(ctx, mc, backgroundBBox)
		if err != nil {
			return err
		}
		if err := writePNG(backgroundPath, backgroundImg); err != nil {
			return err
		}
	}
	mc.Assets.Satellite = backgroundPath

	return nil
}

func (c *Component) Previews(mc *mapctx.MapContext) []string {
	var out []string
	if mc.Assets.Overview != "" {
		out = append(out, mc.Assets.Overview)
	}
	if mc.Assets.Satellite != "" {
		out = append(out, mc.Assets.Satellite)
	}
	return out
}

func (c *Component) fetch(ctx context.Context, mc *mapctx.MapContext, bbox geomutil.BoundingBox) (image.Image, error) {
	raw, err := mc.SatelliteFetcher.Fetch(ctx, bbox, mc.Satellite.ZoomLevel)
	if err != nil {
		return nil, &mapctx.ExternalFetchError{Source: "satellite", Err: err}
	}
	img, ok := raw.(image.Image)
	if !ok {
		return nil, &mapctx.InternalInvariantError{Msg: "satellite fetcher returned a non-image result"}
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
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
