// Package texture implements the Texture pipeline component: it fetches
// OSM features for every declared layer, rasterizes them into per-layer
// weight masks, and records field/farmyard/road/water geometry into the
// shared InfoLayerStore for GRLE/I3D/Road to consume.
package texture

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/osm"
	"github.com/MeKo-Tech/mapgen/internal/raster"
	"github.com/paulmach/orb"
)

// rotationMargin is the factor rotated_size grows over size_m so every
// layer still has full corner coverage after it's rotated back and
// center-cropped.
const rotationMargin = 1.5

// Component implements pipeline.Component for texture weight-mask
// generation.
type Component struct {
	logger *slog.Logger
	schema game.TextureSchema
}

// New returns a Texture component, logging to logger (or slog.Default
// when nil).
func New(logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{logger: logger}
}

func (c *Component) Name() string { return "texture" }

// Preprocess loads the target game's texture schema.
func (c *Component) Preprocess(mc *mapctx.MapContext) error {
	if mc.Game.TextureSchemaFile == "" {
		return &mapctx.InternalInvariantError{Msg: "game profile has no texture schema file"}
	}
	schema, err := game.LoadTextureSchema(mc.Game.TextureSchemaFile)
	if err != nil {
		return &mapctx.InvalidInputError{Field: "texture_schema", Msg: err.Error()}
	}
	c.schema = schema

	weightsDir := mc.Game.WeightsDirPath(mc.OutputDir)
	if err := os.MkdirAll(weightsDir, 0o755); err != nil {
		return fmt.Errorf("creating weights directory: %w", err)
	}
	return nil
}

// layerMask carries one schema layer alongside the weight mask drawn for
// it, already rotated back to size_m and border-erased, but before
// merge_into/dissolve/copy_procedural run.
type layerMask struct {
	layer game.LayerSpec
	mask  *image.Gray
}

// Process fetches and rasterizes every layer in priority order, then runs
// the rotate/merge/border/dissolve/procedural post-passes.
func (c *Component) Process(ctx context.Context, mc *mapctx.MapContext) error {
	if mc.OSMFetcher == nil {
		return &mapctx.InvalidInputError{Field: "OSMFetcher", Msg: "not configured"}
	}

	weightsDir := mc.Game.WeightsDirPath(mc.OutputDir)

	rotatedSize := int(math.Ceil(float64(mc.SizeM) * rotationMargin))
	border := float64(rotatedSize-mc.SizeM) / 2
	drawProj := geomutil.NewProjector(mc.CenterLat, mc.CenterLon, float64(rotatedSize), rotatedSize)
	bbox := geomutil.FromCenter(mc.CenterLat, mc.CenterLon, float64(rotatedSize))

	// fitOpts carries a geometry recorded on the rotated drawing canvas
	// back into the final size_m-centered pixel space the raster rotation
	// crop produces, so InfoLayerStore geometry and the weight-mask pixels
	// agree on the same coordinate frame after rotate_textures runs.
	fitOpts := geomutil.FitOptions{
		AngleDeg:   -float64(mc.RotationDeg),
		Center:     orb.Point{float64(rotatedSize) / 2, float64(rotatedSize) / 2},
		XShift:     -border,
		YShift:     -border,
		CanvasSize: float64(mc.SizeM),
	}

	used := raster.NewEmptyMask(image.Rect(0, 0, mc.SizeM, mc.SizeM))
	mc.Assets.WeightMasks = map[string]string{}

	var fields, farmyards, roadsPolylines, waterPolylines []any
	var layers []layerMask

	for _, layer := range layersByPriority(c.schema) {
		if layer.Invisible {
			continue
		}

		tags := layer.Tags
		if mc.Texture.UsePreciseTags && layer.PreciseTags != nil {
			tags = layer.PreciseTags
		}
		if len(tags) == 0 {
			// A tag-less layer has nothing to fetch; it is filled below
			// from the complement of every other layer's cumulative mask
			// once the whole pass has run.
			layers = append(layers, layerMask{layer: layer})
			continue
		}

		raw, err := mc.OSMFetcher.Fetch(ctx, bbox, tags)
		if err != nil {
			c.logger.Warn("osm fetch failed", "layer", layer.Name, "error", err)
			return &mapctx.ExternalFetchError{Source: "osm", Err: err}
		}
		features, _ := raw.([]osm.Feature)

		mask := raster.NewEmptyMask(image.Rect(0, 0, rotatedSize, rotatedSize))
		var widthPx float64
		if layer.Width != nil {
			widthPx = float64(*layer.Width) * drawProj.PixelsPerMeter
		}

		for _, f := range features {
			switch geom := f.Geometry.(type) {
			case orb.Polygon:
				rings := projectPolygon(drawProj, geom)
				raster.FillPolygonMask(mask, rings, 255)
				if fitted, ok := fitRing(rings[0], fitOpts); ok {
					if layer.InfoLayer == mapctx.ParamFields {
						fields = append(fields, [][][2]float64{pixelPointsToFloatPairs(fitted)})
					}
					if layer.InfoLayer == mapctx.ParamFarmyards {
						farmyards = append(farmyards, [][][2]float64{pixelPointsToFloatPairs(fitted)})
					}
				}
			case orb.LineString:
				pts := projectLine(drawProj, geom)
				raster.StrokeLineMask(mask, pts, widthPx, 255)
				fitted, ok := fitLine(pts, fitOpts)
				if ok {
					if layer.RoadTexture != "" || layer.Name == "roads" {
						roadsPolylines = append(roadsPolylines, map[string]any{
							"points": pixelPointsToFloatPairs(fitted),
							"width":  valueOrDefault(layer.Width, 4),
						})
					}
					if layer.AreaWater {
						waterPolylines = append(waterPolylines, pixelPointsToFloatPairs(fitted))
					}
				}
			}
		}

		mask = raster.RotateCropGray(mask, -float64(mc.RotationDeg), mc.SizeM, mc.SizeM)
		mask = applyBorder(mask, layer.Border)

		if !layer.External {
			mask = raster.SubtractMask(mask, used)
			used = raster.MaxMask(used, mask)
		}

		if layer.InfoLayer == mapctx.ParamForest {
			mc.InfoLayers.SetBackground("forest_mask_path", layer.Path(weightsDir))
		}

		layers = append(layers, layerMask{layer: layer, mask: mask})
	}

	fillBaseLayers(layers, used)
	applyMergeInto(layers)
	scaleTextures(layers, mc.Texture.OutputSizeM, mc.SizeM)

	if err := c.writeLayers(weightsDir, layers, mc); err != nil {
		return err
	}
	if err := c.copyProcedural(weightsDir, layers); err != nil {
		return err
	}

	mc.InfoLayers.SetTexture(mapctx.ParamFields, fields)
	mc.InfoLayers.SetTexture(mapctx.ParamFarmyards, farmyards)
	mc.InfoLayers.SetTexture(mapctx.ParamRoadsPolylines, roadsPolylines)
	mc.InfoLayers.SetTexture(mapctx.ParamWaterPolylines, waterPolylines)
	if err := mc.InfoLayers.Save(mc.OutputDir); err != nil {
		return err
	}

	return nil
}

func (c *Component) Previews(mc *mapctx.MapContext) []string {
	var out []string
	for _, p := range mc.Assets.WeightMasks {
		out = append(out, p)
	}
	return out
}

// fillBaseLayers fills every tag-less priority-0 layer with the
// complement of the cumulative "used" mask.
func fillBaseLayers(layers []layerMask, used *image.Gray) {
	complement := raster.InvertMask(used)
	for i := range layers {
		if layers[i].layer.Priority != nil && *layers[i].layer.Priority == 0 && layers[i].mask == nil {
			layers[i].mask = complement
		}
	}
}

// applyMergeInto OR-composites every layer declaring MergeInto onto its
// named target and clears the source mask.
func applyMergeInto(layers []layerMask) {
	byName := make(map[string]int, len(layers))
	for i, l := range layers {
		byName[l.layer.Name] = i
	}
	for i, l := range layers {
		if l.layer.MergeInto == "" || l.mask == nil {
			continue
		}
		targetIdx, ok := byName[l.layer.MergeInto]
		if !ok || layers[targetIdx].mask == nil {
			continue
		}
		layers[targetIdx].mask = raster.MaxMask(layers[targetIdx].mask, l.mask)
		layers[i].mask = raster.NewEmptyMask(l.mask.Bounds())
	}
}

// scaleTextures resizes every finished layer mask to outputSizeM with
// nearest-neighbor sampling when the output size differs from size_m.
func scaleTextures(layers []layerMask, outputSizeM, sizeM int) {
	if outputSizeM <= 0 || outputSizeM == sizeM {
		return
	}
	for i := range layers {
		if layers[i].mask == nil {
			continue
		}
		layers[i].mask = raster.ResizeGrayNearest(layers[i].mask, outputSizeM, outputSizeM)
	}
}

// applyBorder erases borderPx rows/columns around the mask's edge,
// leaving those pixels at zero so the base-layer fill later absorbs them.
func applyBorder(mask *image.Gray, borderPx *int) *image.Gray {
	if borderPx == nil || *borderPx <= 0 {
		return mask
	}
	b := mask.Bounds()
	border := *borderPx
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if x-b.Min.X < border || b.Max.X-1-x < border || y-b.Min.Y < border || b.Max.Y-1-y < border {
				mask.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return mask
}

func (c *Component) writeLayers(weightsDir string, layers []layerMask, mc *mapctx.MapContext) error {
	for _, lm := range layers {
		if lm.mask == nil {
			continue
		}
		if lm.layer.Count > 1 && mc.Texture.Dissolve && mc.Game.Dissolve {
			if err := c.writeDissolved(weightsDir, lm, mc); err != nil {
				return err
			}
			continue
		}
		if err := c.writeMask(lm.layer.Path(weightsDir), lm.mask); err != nil {
			return err
		}
		mc.Assets.WeightMasks[lm.layer.Name] = lm.layer.Path(weightsDir)
	}
	return nil
}

// writeDissolved splits a layer's mask pixels uniformly at random across
// Count variants, preserving the pre-dissolve mask as a "_preview.png"
// sibling.
func (c *Component) writeDissolved(weightsDir string, lm layerMask, mc *mapctx.MapContext) error {
	previewPath := dissolvePreviewPath(lm.layer.Path(weightsDir))
	if err := c.writeMask(previewPath, lm.mask); err != nil {
		return err
	}

	count := lm.layer.Count
	variants := make([]*image.Gray, count)
	b := lm.mask.Bounds()
	for i := range variants {
		variants[i] = raster.NewEmptyMask(b)
	}

	rng := rand.New(rand.NewSource(int64(mc.SizeM)<<16 | int64(mc.RotationDeg)))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if lm.mask.GrayAt(x, y).Y == 0 {
				continue
			}
			variants[rng.Intn(count)].SetGray(x, y, lm.mask.GrayAt(x, y))
		}
	}

	for n, variant := range variants {
		if err := c.writeMask(lm.layer.PathN(weightsDir, n+1), variant); err != nil {
			return err
		}
	}
	mc.Assets.WeightMasks[lm.layer.Name] = previewPath
	return nil
}

// copyProcedural duplicates or OR-merges masks named by LayerSpec.
// Procedural into masks/{name}.png for procedural-generation consumers.
func (c *Component) copyProcedural(weightsDir string, layers []layerMask) error {
	var merged map[string]*image.Gray
	for _, lm := range layers {
		if lm.mask == nil || len(lm.layer.Procedural) == 0 {
			continue
		}
		if merged == nil {
			merged = map[string]*image.Gray{}
		}
		for _, target := range lm.layer.Procedural {
			if existing, ok := merged[target]; ok {
				merged[target] = raster.MaxMask(existing, lm.mask)
			} else {
				merged[target] = lm.mask
			}
		}
	}
	if merged == nil {
		return nil
	}
	masksDir := filepath.Join(weightsDir, "..", "masks")
	if err := os.MkdirAll(masksDir, 0o755); err != nil {
		return fmt.Errorf("creating procedural masks directory: %w", err)
	}
	for name, mask := range merged {
		if err := c.writeMask(filepath.Join(masksDir, name+".png"), mask); err != nil {
			return err
		}
	}
	return nil
}

func (c *Component) writeMask(path string, mask *image.Gray) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &mapctx.MaskWriteError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &mapctx.MaskWriteError{Path: path, Err: err}
	}
	defer f.Close()
	if err := png.Encode(f, mask); err != nil {
		return &mapctx.MaskWriteError{Path: path, Err: err}
	}
	return nil
}

func dissolvePreviewPath(weightPath string) string {
	ext := filepath.Ext(weightPath)
	return weightPath[:len(weightPath)-len(ext)] + "_preview" + ext
}

// layersByPriority sorts layers so every layer with a non-nil Priority is
// drawn first (ascending by priority value), and every layer with a nil
// Priority is drawn last, in declared schema order.
func layersByPriority(schema game.TextureSchema) []game.LayerSpec {
	out := make([]game.LayerSpec, len(schema))
	copy(out, schema)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Priority, out[j].Priority
		if pi == nil && pj == nil {
			return false
		}
		if pi == nil {
			return false
		}
		if pj == nil {
			return true
		}
		return *pi < *pj
	})
	return out
}

func projectPolygon(proj geomutil.Projector, poly orb.Polygon) [][]raster.PixelPoint {
	rings := make([][]raster.PixelPoint, len(poly))
	for i, ring := range poly {
		rings[i] = projectRing(proj, ring)
	}
	return rings
}

func projectRing(proj geomutil.Projector, ring orb.Ring) []raster.PixelPoint {
	pts := make([]raster.PixelPoint, len(ring))
	for i, p := range ring {
		x, y := proj.ToPixel(p[1], p[0])
		pts[i] = raster.PixelPoint{X: x, Y: y}
	}
	return pts
}

func projectLine(proj geomutil.Projector, ls orb.LineString) []raster.PixelPoint {
	pts := make([]raster.PixelPoint, len(ls))
	for i, p := range ls {
		x, y := proj.ToPixel(p[1], p[0])
		pts[i] = raster.PixelPoint{X: x, Y: y}
	}
	return pts
}

// fitRing rotates/translates/clips a ring (in rotated-canvas pixel space)
// into the final size_m-centered pixel frame.
func fitRing(ring []raster.PixelPoint, opts geomutil.FitOptions) ([]raster.PixelPoint, bool) {
	if len(ring) < 3 {
		return nil, false
	}
	fitted, err := geomutil.FitPolygonIntoBounds(pixelPointsToRing(ring), opts)
	if err != nil || len(fitted) < 3 {
		return nil, false
	}
	return ringToPixelPoints(fitted), true
}

// fitLine rotates/translates/clips a linestring (in rotated-canvas pixel
// space) into the final size_m-centered pixel frame.
func fitLine(pts []raster.PixelPoint, opts geomutil.FitOptions) ([]raster.PixelPoint, bool) {
	if len(pts) < 2 {
		return nil, false
	}
	fitted, err := geomutil.FitLineStringIntoBounds(pixelPointsToLineString(pts), opts)
	if err != nil || len(fitted) < 2 {
		return nil, false
	}
	return lineStringToPixelPoints(fitted), true
}

func pixelPointsToRing(pts []raster.PixelPoint) orb.Ring {
	out := make(orb.Ring, len(pts))
	for i, p := range pts {
		out[i] = orb.Point{p.X, p.Y}
	}
	return out
}

func pixelPointsToLineString(pts []raster.PixelPoint) orb.LineString {
	out := make(orb.LineString, len(pts))
	for i, p := range pts {
		out[i] = orb.Point{p.X, p.Y}
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

func lineStringToPixelPoints(ls orb.LineString) []raster.PixelPoint {
	out := make([]raster.PixelPoint, len(ls))
	for i, p := range ls {
		out[i] = raster.PixelPoint{X: p[0], Y: p[1]}
	}
	return out
}

func pixelPointsToFloatPairs(pts []raster.PixelPoint) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func valueOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
