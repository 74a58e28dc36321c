// Package grle implements the GRLE pipeline component: it allocates the
// fixed-shape farmland and plant-density rasters a title's GRLE schema
// declares, and patches farmlands.xml to match.
package grle

import (
	"context"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/procedural"
	"github.com/MeKo-Tech/mapgen/internal/raster"
	"github.com/MeKo-Tech/mapgen/internal/xmlutil"
	"github.com/paulmach/orb"
)

// baseGrassValues maps a GRLESettings.BaseGrass name to the fixed pixel
// value the fruit density map's grass channel expects.
var baseGrassValues = map[string]uint8{
	"smallDenseMix": 33,
	"meadow":        131,
}

const defaultGrassValue = 131

// Component implements pipeline.Component for farmland/plant raster
// generation.
type Component struct {
	logger *slog.Logger
	schema game.GRLESchema
}

func New(logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{logger: logger}
}

func (c *Component) Name() string { return "grle" }

// Preprocess loads the GRLE schema; a title with no GRLE support (no
// GRLESchemaFile) leaves the schema empty and Process becomes a no-op.
func (c *Component) Preprocess(mc *mapctx.MapContext) error {
	if mc.Game.GRLESchemaFile == "" {
		return nil
	}
	schema, err := game.LoadGRLESchema(mc.Game.GRLESchemaFile)
	if err != nil {
		return &mapctx.InvalidInputError{Field: "grle_schema", Msg: err.Error()}
	}
	c.schema = schema
	return nil
}

func (c *Component) Process(ctx context.Context, mc *mapctx.MapContext) error {
	if len(c.schema) == 0 {
		return nil
	}

	weightsDir := mc.Game.WeightsDirPath(mc.OutputDir)

	farmlandIDs, err := c.addFarmlands(mc, weightsDir)
	if err != nil {
		if !isRecoverable(err) {
			return err
		}
		c.logger.Warn("farmlands generation degraded", "error", err)
	}

	if mc.Game.PlantsProcessing && mc.GRLE.AddGrass {
		if err := c.addPlants(mc, weightsDir, farmlandIDs); err != nil {
			return err
		}
	}

	return nil
}

func (c *Component) Previews(mc *mapctx.MapContext) []string {
	var out []string
	if mc.Assets.Farmlands != "" {
		out = append(out, mc.Assets.Farmlands)
	}
	if mc.Assets.Plants != "" {
		out = append(out, mc.Assets.Plants)
	}
	return out
}

// addFarmlands unions fields and farmyards into a single ID-numbered
// raster, writes it to the GRLE farmlands PNG, and mutates farmlands.xml.
func (c *Component) addFarmlands(mc *mapctx.MapContext, weightsDir string) (int, error) {
	// The farmlands raster is half the map's pixel resolution regardless of
	// GameProfile.DEMMultiplier.
	size := mc.SizeM / 2
	farmlandRaster := image.NewGray(image.Rect(0, 0, size, size))

	fitOpts := geomutil.FitOptions{
		MarginPx:   float64(mc.GRLE.FarmlandMargin),
		CanvasSize: float64(size),
	}

	var polygons [][][2]float64
	fieldsRaw, _ := mc.InfoLayers.GetTexture(mapctx.ParamFields)
	polygons = append(polygons, outerRingsOf(fieldsRaw)...)
	if mc.GRLE.AddFarmyards {
		farmyardsRaw, _ := mc.InfoLayers.GetTexture(mapctx.ParamFarmyards)
		polygons = append(polygons, outerRingsOf(farmyardsRaw)...)
	}

	var limitErr error
	nextID := 1
	for _, ring := range polygons {
		if nextID > mapctx.FarmlandIDLimit {
			limitErr = &mapctx.SchemaLimitReachedError{Schema: "farmlands", Limit: mapctx.FarmlandIDLimit}
			break
		}
		halved := halveRing(ring)
		fitted, err := geomutil.FitPolygonIntoBounds(halved, fitOpts)
		if err != nil {
			continue
		}
		pts := ringToPixelPoints(fitted)
		raster.FillPolygonMask(farmlandRaster, [][]raster.PixelPoint{pts}, uint8(nextID))
		nextID++
	}
	farmlandCount := nextID - 1

	if mc.GRLE.FillEmptyFarmlands {
		fillEmpty(farmlandRaster)
	}

	path := mc.Game.FarmlandsPNGPath(mc.OutputDir)
	if err := writeGrayPNG(path, farmlandRaster); err != nil {
		return farmlandCount, err
	}
	mc.Assets.Farmlands = path

	if mc.Game.FarmlandsXMLPath(mc.OutputDir) != "" {
		if err := c.patchFarmlandsXML(mc, farmlandCount); err != nil {
			return farmlandCount, err
		}
	}

	return farmlandCount, limitErr
}

// patchFarmlandsXML sets the root pricePerHa and appends one <farmland>
// child per allocated ID.
func (c *Component) patchFarmlandsXML(mc *mapctx.MapContext, farmlandCount int) error {
	path := mc.Game.FarmlandsXMLPath(mc.OutputDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &mapctx.FormatWriteError{Path: path, Err: err}
	}
	root, err := xmlutil.Parse(path)
	if err != nil {
		root = &xmlutil.Node{XMLName: xml.Name{Local: "farmlands"}}
	}
	root.Set("pricePerHa", strconv.Itoa(mc.GRLE.BasePrice))

	for id := 1; id <= farmlandCount; id++ {
		root.CreateChild("farmland", map[string]string{
			"id":         strconv.Itoa(id),
			"priceScale": "1",
			"npcName":    "FORESTER",
		})
	}

	if err := root.Write(path); err != nil {
		return &mapctx.FormatWriteError{Path: path, Err: err}
	}
	return nil
}

// addPlants builds the grass/forest mask and composites it into channel 0
// of the fruit density map.
func (c *Component) addPlants(mc *mapctx.MapContext, weightsDir string, farmlandCount int) error {
	entry, ok := findFruitDensityEntry(c.schema)
	if !ok {
		return nil
	}
	size := int(float64(mc.SizeM) * entry.WidthMultiplier)
	if size <= 0 {
		size = mc.SizeM
	}

	grass := image.NewGray(image.Rect(0, 0, size, size))
	painted := false
	for _, name := range mc.GRLE.BaseGrass {
		v, ok := baseGrassValues[name]
		if !ok {
			v = defaultGrassValue
		}
		mask, err := raster.LoadGrayPNG(filepath.Join(weightsDir, name+"_weight.png"))
		if err != nil {
			continue
		}
		if mask.Bounds().Dx() != size {
			mask = raster.ResizeGrayNearest(mask, size, size)
		}
		paintMasked(grass, mask, v)
		painted = true
	}
	if forestPath, ok := mc.InfoLayers.GetBackground("forest_mask_path"); ok {
		if path, ok := forestPath.(string); ok && path != "" {
			if mask, err := raster.LoadGrayPNG(path); err == nil {
				if mask.Bounds().Dx() != size {
					mask = raster.ResizeGrayNearest(mask, size, size)
				}
				paintMasked(grass, mask, defaultGrassValue)
				painted = true
			}
		}
	}
	if !painted {
		fillAll(grass, defaultGrassValue)
	}

	if mc.GRLE.RandomPlants {
		rng := rand.New(rand.NewSource(int64(mc.SizeM)<<32 | int64(mc.RotationDeg)))
		minSize, maxSize, vertexCount, roundingRadius := procedural.DefaultIslandParams()
		islandCount := size * mapctx.PlantsIslandPercent / 10000
		procedural.ScatterIslands(rng, grass, islandCount, minSize, maxSize, vertexCount, roundingRadius)
	}

	grass = raster.Erode(grass, 1)
	raster.ZeroBorder(grass)

	// The density map is a 3-channel image; the plant id lives in channel
	// 0 and the other channels stay zero.
	path := filepath.Join(weightsDir, "densityMap_fruits.png")
	if err := writeDensityPNG(path, grass); err != nil {
		return err
	}
	mc.Assets.Plants = path
	return nil
}

// writeDensityPNG expands a single-channel plant-id raster into the RGB
// layout the fruit density map uses, ids in channel 0.
func writeDensityPNG(path string, ids *image.Gray) error {
	bounds := ids.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetNRGBA(x, y, color.NRGBA{R: ids.GrayAt(x, y).Y, A: 255})
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &mapctx.MaskWriteError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &mapctx.MaskWriteError{Path: path, Err: err}
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return &mapctx.MaskWriteError{Path: path, Err: err}
	}
	return nil
}

func findFruitDensityEntry(schema game.GRLESchema) (game.InfoLayerEntry, bool) {
	for _, e := range schema {
		if e.Name == "fruits" || e.Name == "densityMap_fruits" {
			return e, true
		}
	}
	return game.InfoLayerEntry{}, false
}

func outerRingsOf(v any) [][][2]float64 {
	items, _ := v.([]any)
	var out [][][2]float64
	for _, item := range items {
		rings, _ := item.([][][2]float64)
		if len(rings) > 0 {
			out = append(out, rings[0])
		}
	}
	return out
}

// halveRing converts a field/farmyard ring recorded at full map resolution
// into the farmlands raster's half-resolution pixel space.
func halveRing(ring [][2]float64) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		out[i] = orb.Point{p[0] / 2, p[1] / 2}
	}
	return out
}

func ringToPixelPoints(ring orb.Ring) []raster.PixelPoint {
	out := make([]raster.PixelPoint, len(ring))
	for i, p := range ring {
		out[i] = raster.PixelPoint{X: p[0], Y: p[1]}
	}
	return out
}

func fillEmpty(img *image.Gray) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.GrayAt(x, y).Y == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
}

// paintMasked sets each pixel of img to v wherever mask is non-zero,
// leaving pixels outside the mask untouched.
func paintMasked(img *image.Gray, mask *image.Gray, v uint8) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y != 0 {
				img.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
}

func fillAll(img *image.Gray, v uint8) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

func writeGrayPNG(path string, img *image.Gray) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &mapctx.MaskWriteError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &mapctx.MaskWriteError{Path: path, Err: err}
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return &mapctx.MaskWriteError{Path: path, Err: err}
	}
	return nil
}

func isRecoverable(err error) bool {
	var limitErr *mapctx.SchemaLimitReachedError
	return errors.As(err, &limitErr)
}
