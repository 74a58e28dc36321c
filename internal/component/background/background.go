// Package background implements the Background+DEM pipeline component:
// the DEM sub-pipeline (fetch, normalize, blur, rotate-crop) plus
// water-polygon subtraction, foundation/road flattening, and the
// background terrain and water mesh exports.
package background

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"

	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/mesh"
	"github.com/MeKo-Tech/mapgen/internal/osm"
	"github.com/MeKo-Tech/mapgen/internal/raster"
	"github.com/paulmach/orb"
	"github.com/ungerik/go3d/float64/vec2"
)

// Component implements pipeline.Component for DEM generation and
// background terrain/water mesh export.
type Component struct {
	logger *slog.Logger
	schema game.TextureSchema
}

func New(logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{logger: logger}
}

func (c *Component) Name() string { return "background" }

// Preprocess loads the texture schema so Process can run its own
// background-layers-only Texture pass for water_resources.png.
func (c *Component) Preprocess(mc *mapctx.MapContext) error {
	if mc.Game.TextureSchemaFile == "" {
		return nil
	}
	schema, err := game.LoadTextureSchema(mc.Game.TextureSchemaFile)
	if err != nil {
		return &mapctx.InvalidInputError{Field: "texture_schema", Msg: err.Error()}
	}
	c.schema = schema
	return nil
}

// Process runs the DEM sub-pipeline, then flattens water/foundations/roads
// into the DEM and exports the background terrain and water meshes.
func (c *Component) Process(ctx context.Context, mc *mapctx.MapContext) error {
	dem, err := buildDEM(ctx, mc)
	if err != nil {
		return err
	}

	mc.Shared.HeightScaleValue = float64(dem.heightScale)
	mc.Shared.ChangeHeightScale = true
	mc.Shared.MeshZScalingFactor = raster.ZScalingFactor(dem.heightScale)
	mc.InfoLayers.SetBackground("height_scale", dem.heightScale)

	flattened, err := c.applyWater(ctx, mc, dem)
	if err != nil {
		return err
	}
	c.flattenFoundations(mc, flattened)
	c.flattenRoads(mc, flattened)

	demPath := mc.Game.DEMPath(mc.OutputDir)
	if err := writeGray16PNG(demPath, flattened); err != nil {
		return err
	}
	mc.Assets.DEM = demPath

	if mc.Game.AdditionalDEMName != "" {
		notResizedPath := filepath.Join(filepath.Dir(demPath), mc.Game.AdditionalDEMName)
		if err := writeGray16PNG(notResizedPath, dem.notResized); err != nil {
			return err
		}
		mc.Assets.NotResizedDEM = notResizedPath
	}

	dem.rotated = flattened

	if mc.Background.GenerateBackground {
		if err := c.exportBackgroundMesh(mc, dem); err != nil {
			return err
		}
	}
	if mc.Background.GenerateWater {
		if err := c.exportWaterMesh(mc, dem); err != nil {
			return err
		}
	}

	return nil
}

func (c *Component) Previews(mc *mapctx.MapContext) []string {
	var out []string
	if mc.Assets.DEM != "" {
		out = append(out, mc.Assets.DEM)
	}
	if mc.Assets.Background != "" {
		out = append(out, mc.Assets.Background)
	}
	return out
}

// applyWater subtracts the water_resources footprint from the DEM down to
// DEMSettings.WaterDepth, softening the shoreline with a dilation-minus-
// erosion edge blur and optionally flattening the masked region to its
// mean elevation first. Falls back to
// a simpler water_polylines-stroke mask when no texture schema/fetcher is
// available to run the background-layers Texture pass.
func (c *Component) applyWater(ctx context.Context, mc *mapctx.MapContext, dem *demResult) (*image.Gray16, error) {
	if mc.DEM.WaterDepth == 0 {
		return dem.rotated, nil
	}

	mask, err := c.waterResourcesMask(ctx, mc, dem.rotated.Bounds())
	if err != nil {
		return nil, err
	}
	if mask == nil {
		mask = c.waterPolylinesMask(mc, dem.rotated.Bounds())
	}
	if mask == nil {
		return dem.rotated, nil
	}

	bounds := dem.rotated.Bounds()
	out := image.NewGray16(bounds)
	copy(out.Pix, dem.rotated.Pix)

	depth := uint16(0)
	if dem.heightScale > 0 {
		depth = uint16(clampFloat(float64(mc.DEM.WaterDepth)*65535.0/float64(dem.heightScale), 0, 65535))
	}

	if mc.Background.FlattenWater {
		flattenMaskedToMean(out, mask)
	}

	edge := raster.SubtractMask(raster.Dilate(mask, 2), raster.Erode(mask, 1))
	if mc.Background.WaterBlurriness > 0 {
		edge = raster.GaussianBlur(edge, float32(mc.Background.WaterBlurriness)/10.0)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			inside := mask.GrayAt(x, y).Y == 255
			weight := edge.GrayAt(x, y).Y
			if !inside && weight == 0 {
				continue
			}
			cur := out.Gray16At(x, y).Y
			var drop uint16
			if inside {
				drop = depth
			} else {
				drop = uint16(float64(depth) * float64(weight) / 255.0)
			}
			if drop > cur {
				drop = cur
			}
			out.SetGray16(x, y, color.Gray16{Y: cur - drop})
		}
	}
	return out, nil
}

// waterResourcesMask runs a second, size-scaled Texture pass restricted to
// layers flagged Background, compositing their OSM-fetched polygons into a
// single grayscale mask.
func (c *Component) waterResourcesMask(ctx context.Context, mc *mapctx.MapContext, bounds image.Rectangle) (*image.Gray, error) {
	if len(c.schema) == 0 || mc.OSMFetcher == nil {
		return nil, nil
	}
	size := bounds.Dx()
	proj := geomutil.NewProjector(mc.CenterLat, mc.CenterLon, float64(size), size)
	bbox := mc.BoundingBox()
	center := orb.Point{float64(size) / 2, float64(size) / 2}
	fitOpts := geomutil.FitOptions{AngleDeg: -float64(mc.RotationDeg), Center: center, CanvasSize: float64(size)}

	mask := raster.NewEmptyMask(bounds)
	drew := false
	for _, layer := range c.schema {
		if !layer.Background || len(layer.Tags) == 0 {
			continue
		}
		raw, err := mc.OSMFetcher.Fetch(ctx, bbox, layer.Tags)
		if err != nil {
			return nil, &mapctx.ExternalFetchError{Source: "osm", Err: err}
		}
		features, _ := raw.([]osm.Feature)
		for _, f := range features {
			poly, ok := f.Geometry.(orb.Polygon)
			if !ok || len(poly) == 0 {
				continue
			}
			ring := projectRing(proj, poly[0])
			fitted, err := geomutil.FitPolygonIntoBounds(ring, fitOpts)
			if err != nil || len(fitted) < 3 {
				continue
			}
			raster.FillPolygonMask(mask, [][]raster.PixelPoint{ringToPixelPoints(fitted)}, 255)
			drew = true
		}
	}
	if !drew {
		return nil, nil
	}
	return mask, nil
}

// waterPolylinesMask dilates the recorded water_polylines geometry into a
// mask, the fallback water footprint used when no texture schema is
// available to run waterResourcesMask.
func (c *Component) waterPolylinesMask(mc *mapctx.MapContext, bounds image.Rectangle) *image.Gray {
	waterRaw, ok := mc.InfoLayers.GetTexture(mapctx.ParamWaterPolylines)
	waterLines, _ := waterRaw.([]any)
	if !ok || len(waterLines) == 0 {
		return nil
	}
	mask := raster.NewEmptyMask(bounds)
	for _, line := range waterLines {
		pts := lineToPixelPoints(line)
		raster.StrokeLineMask(mask, pts, float64(mapctx.WaterAddWidth*2), 255)
	}
	return raster.Dilate(mask, mapctx.WaterAddWidth)
}

func flattenMaskedToMean(img *image.Gray16, mask *image.Gray) {
	bounds := img.Bounds()
	var sum, count int64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y == 255 {
				sum += int64(img.Gray16At(x, y).Y)
				count++
			}
		}
	}
	if count == 0 {
		return
	}
	mean := uint16(sum / count)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y == 255 {
				img.SetGray16(x, y, color.Gray16{Y: mean})
			}
		}
	}
}

func projectRing(proj geomutil.Projector, ring orb.Ring) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		x, y := proj.ToPixel(p[1], p[0])
		out[i] = orb.Point{x, y}
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

// flattenFoundations zeroes DEM height variance under field/farmyard
// footprints so buildings placed on them sit on a flat pad.
func (c *Component) flattenFoundations(mc *mapctx.MapContext, dem *image.Gray16) {
	if !mc.DEM.AddFoundations {
		return
	}
	for _, name := range []string{mapctx.ParamFields, mapctx.ParamFarmyards} {
		raw, _ := mc.InfoLayers.GetTexture(name)
		for _, f := range asAnySlice(raw) {
			for _, ring := range ringsOf(f) {
				flattenUnderRing(dem, ring)
			}
		}
	}
}

// flattenRoads levels the DEM along road centerlines so road ribbon
// meshes don't float above or sink below the surrounding terrain.
func (c *Component) flattenRoads(mc *mapctx.MapContext, dem *image.Gray16) {
	roadsRaw, _ := mc.InfoLayers.GetTexture(mapctx.ParamRoadsPolylines)
	for _, r := range asAnySlice(roadsRaw) {
		entry, ok := r.(map[string]any)
		if !ok {
			continue
		}
		pts := lineToPixelPoints(entry["points"])
		levelAlongLine(dem, pts)
	}
}

func (c *Component) exportBackgroundMesh(mc *mapctx.MapContext, dem *demResult) error {
	heights := gray16ToFloatGrid(dem.rotated)
	removeSize := 0
	if mc.Background.RemoveCenter {
		removeSize = mc.SizeM
	}
	m := mesh.FromHeightGrid(heights, mesh.TerrainOptions{
		IncludeZeros:     true,
		ZScalingFactor:   mc.Shared.MeshZScalingFactor,
		ResizeFactor:     mapctx.ResizeFactor,
		RemoveCenterSize: removeSize,
		OutputSize:       mc.SizeM,
	})

	outDir := filepath.Join(mc.OutputDir, "background")
	objPath := filepath.Join(outDir, "background.obj")
	mtlPath := filepath.Join(outDir, "background.mtl")
	if err := mesh.WriteMTL(mtlPath, mesh.DefaultMaterial("backgroundMaterial", "")); err != nil {
		return &mapctx.FormatWriteError{Path: mtlPath, Err: err}
	}
	if err := mesh.WriteOBJ(objPath, m, filepath.Base(mtlPath), "backgroundMaterial"); err != nil {
		return &mapctx.FormatWriteError{Path: objPath, Err: err}
	}
	mc.Assets.Background = objPath

	if mc.Game.MeshProcessing {
		texture := ""
		if mc.Assets.Satellite != "" {
			texture = mc.Assets.Satellite
		}
		i3dPath := filepath.Join(mc.OutputDir, "assets", "background", "background_terrain.i3d")
		m.PrepareForI3D()
		if err := mesh.WriteI3D(i3dPath, m, mesh.I3DOptions{Name: "background_terrain", TextureFile: texture}); err != nil {
			return &mapctx.FormatWriteError{Path: i3dPath, Err: err}
		}
	}
	return nil
}

// exportWaterMesh writes two water-surface meshes: an "elevated" one cut
// from the DEM where the water subtraction left hollows, and a
// "line-based" one extruded flat from the recorded water polylines, plus
// an ocean-shader I3D wrapping the line-based mesh.
func (c *Component) exportWaterMesh(mc *mapctx.MapContext, dem *demResult) error {
	outDir := filepath.Join(mc.OutputDir, "water")
	mtlPath := filepath.Join(outDir, "water.mtl")
	if err := mesh.WriteMTL(mtlPath, mesh.DefaultMaterial("waterMaterial", "")); err != nil {
		return &mapctx.FormatWriteError{Path: mtlPath, Err: err}
	}

	heights := gray16ToFloatGrid(dem.rotated)
	elevated := mesh.FromHeightGrid(heights, mesh.TerrainOptions{
		IncludeZeros:   false,
		ZScalingFactor: mc.Shared.MeshZScalingFactor,
		ResizeFactor:   mapctx.ResizeFactor,
		OutputSize:     mc.SizeM,
	})
	elevatedPath := filepath.Join(outDir, "elevated_water.obj")
	if err := mesh.WriteOBJ(elevatedPath, elevated, filepath.Base(mtlPath), "waterMaterial"); err != nil {
		return &mapctx.FormatWriteError{Path: elevatedPath, Err: err}
	}
	mc.Assets.Water = elevatedPath

	lineBased := c.lineBasedWaterMesh(mc)
	if lineBased == nil {
		return nil
	}
	lineBasedPath := filepath.Join(outDir, "line_based_water.obj")
	if err := mesh.WriteOBJ(lineBasedPath, lineBased, filepath.Base(mtlPath), "waterMaterial"); err != nil {
		return &mapctx.FormatWriteError{Path: lineBasedPath, Err: err}
	}

	if mc.Game.MeshProcessing {
		i3dPath := filepath.Join(mc.OutputDir, "assets", "water", "water_resources.i3d")
		lineBased.PrepareForI3D()
		if err := mesh.WriteI3D(i3dPath, lineBased, mesh.I3DOptions{Name: "water_resources", OceanShader: true}); err != nil {
			return &mapctx.FormatWriteError{Path: i3dPath, Err: err}
		}
	}
	return nil
}

// lineBasedWaterMesh extrudes every recorded water polyline into a flat
// ribbon at the common water surface height and inverts the faces so the
// normals face up from below. Returns nil when no water polylines exist.
func (c *Component) lineBasedWaterMesh(mc *mapctx.MapContext) *mesh.Mesh {
	waterRaw, _ := mc.InfoLayers.GetTexture(mapctx.ParamWaterPolylines)
	lines := asAnySlice(waterRaw)
	if len(lines) == 0 {
		return nil
	}
	half := float64(mc.SizeM) / 2
	var entries []mesh.RoadEntry
	for _, line := range lines {
		pts := lineToPixelPoints(line)
		if len(pts) < 2 {
			continue
		}
		points := make([]vec2.T, len(pts))
		for i, p := range pts {
			points[i] = vec2.T{p.X - half, p.Y - half}
		}
		entries = append(entries, mesh.RoadEntry{Points: points, Width: mapctx.WaterAddWidth * 2})
	}
	if len(entries) == 0 {
		return nil
	}
	// a nil sampler keeps the water surface flat at the common z
	m := mesh.BuildRoadRibbons(entries, nil)
	m.InvertFaces()
	return m
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
