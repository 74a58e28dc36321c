// Package config implements the Config pipeline component: it sets the
// map size on the top-level map.xml descriptor, adjusts fog heights
// against the generated DEM, places the overview image, and patches any
// other game-profile-declared fragments not owned by another component.
package config

import (
	"context"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/raster"
	"github.com/MeKo-Tech/mapgen/internal/xmlutil"
	"golang.org/x/image/draw"
)

// overviewImageSize is the fixed output resolution for the placed
// overview image regardless of map size.
const overviewImageSize = 4096

// Component implements pipeline.Component for map.xml descriptor
// patching.
type Component struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{logger: logger}
}

func (c *Component) Name() string { return "config" }

func (c *Component) Preprocess(mc *mapctx.MapContext) error { return nil }

// Process patches map.xml's map-level attributes, adjusts fog heights,
// and places the overview image.
func (c *Component) Process(ctx context.Context, mc *mapctx.MapContext) error {
	if err := c.setMapSize(mc); err != nil {
		return err
	}
	if mc.Game.FogProcessing {
		if err := c.adjustFog(mc); err != nil {
			return err
		}
	}
	if err := c.setOverview(mc); err != nil {
		return err
	}
	return nil
}

// setMapSize patches map.xml's root width/height attributes to the map's
// output size: Texture.OutputSizeM when it is set, otherwise the side
// length.
func (c *Component) setMapSize(mc *mapctx.MapContext) error {
	path := mc.Game.MapXMLPath(mc.OutputDir)
	root, err := xmlutil.Parse(path)
	if err != nil {
		return &mapctx.InternalInvariantError{Msg: "loading " + path + ": " + err.Error()}
	}

	root.Set("title", mc.Game.Code+" generated map")
	outputSize := mc.SizeM
	if mc.Texture.OutputSizeM > 0 {
		outputSize = mc.Texture.OutputSizeM
	}
	root.Set("width", strconv.Itoa(outputSize))
	root.Set("height", strconv.Itoa(outputSize))

	if spawn := root.Find("spawnPoints"); spawn != nil {
		if point := spawn.Find("spawnPoint"); point != nil {
			point.Set("posX", "0")
			point.Set("posZ", "0")
		}
	}

	if props := root.Find("property"); props != nil {
		props.SetAll(map[string]string{
			"basePrice":  strconv.Itoa(mc.GRLE.BasePrice),
			"priceScale": strconv.Itoa(mc.GRLE.PriceScale),
		})
	}

	if err := root.Write(path); err != nil {
		return &mapctx.FormatWriteError{Path: path, Err: err}
	}
	return nil
}

// adjustFog reads the DEM's min/max pixel values, converts them to
// meters via the height scale, and patches every season's
// fog/heightFog/maxHeight element in environment.xml.
func (c *Component) adjustFog(mc *mapctx.MapContext) error {
	envPath := mc.Game.EnvironmentXMLPath(mc.OutputDir)
	if envPath == "" || mc.Assets.DEM == "" {
		return nil
	}

	dem, err := raster.LoadGray16PNG(mc.Assets.DEM)
	if err != nil {
		c.logger.Warn("DEM not readable, skipping fog adjustment", "error", err)
		return nil
	}
	heightScale := mc.Shared.HeightScaleValue
	if heightScale <= 0 {
		return nil
	}

	minPixel, maxPixel := uint16(65535), uint16(0)
	bounds := dem.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := dem.Gray16At(x, y).Y
			if v < minPixel {
				minPixel = v
			}
			if v > maxPixel {
				maxPixel = v
			}
		}
	}
	minHeight := int(float64(minPixel) * heightScale / 65535.0)
	maxHeight := int(float64(maxPixel) * heightScale / 65535.0)

	root, err := xmlutil.Parse(envPath)
	if err != nil {
		c.logger.Warn("environment XML not found, skipping fog adjustment", "path", envPath)
		return nil
	}

	if lat := root.Find("latitude"); lat != nil {
		lat.Content = strconv.FormatFloat(mc.CenterLat, 'f', 1, 64)
	}

	for _, season := range root.FindAll("season") {
		maxHeightEl := season.Find("fog/heightFog/maxHeight")
		if maxHeightEl == nil {
			continue
		}
		maxHeightEl.SetAll(map[string]string{
			"min": strconv.Itoa(minHeight),
			"max": strconv.Itoa(maxHeight),
		})
	}

	if err := root.Write(envPath); err != nil {
		return &mapctx.FormatWriteError{Path: envPath, Err: err}
	}
	return nil
}

// setOverview resizes the satellite component's overview image to the
// fixed overview resolution and places it at the game profile's overview
// path. No DDS encoder is available in this stack, so the resized image
// is written as a PNG alongside the expected path instead.
func (c *Component) setOverview(mc *mapctx.MapContext) error {
	overviewPath := mc.Game.OverviewPath(mc.OutputDir)
	if overviewPath == "" || mc.Assets.Overview == "" {
		return nil
	}

	src, err := loadPNG(mc.Assets.Overview)
	if err != nil {
		c.logger.Warn("satellite overview image not found, skipping overview placement", "error", err)
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, overviewImageSize, overviewImageSize))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	outPath := strings.TrimSuffix(overviewPath, filepath.Ext(overviewPath)) + ".png"
	if err := writePNG(outPath, dst); err != nil {
		return err
	}
	mc.Assets.Overview = outPath
	return nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func writePNG(path string, img image.Image) error {
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

func (c *Component) Previews(mc *mapctx.MapContext) []string { return nil }
