// Package i3d implements the I3D pipeline component: it patches the
// map's scene graph (height scale, shadow/displacement parameters),
// writes one TransformGroup per field polygon, scatters forest reference
// nodes, and emits road-centerline splines.
package i3d

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/raster"
	"github.com/MeKo-Tech/mapgen/internal/xmlutil"
	"github.com/paulmach/orb"
)

// Node-id ranges for generated scene-graph elements.
const (
	fieldNodeIDStart  = 2000
	forestNodeIDStart = 10000
	splineNodeIDStart = 5000
)

// Component implements pipeline.Component for scene-graph patching,
// field/forest/spline generation. A no-op on titles with I3DProcessing
// disabled (FS22).
type Component struct {
	logger *slog.Logger
	trees  game.TreeSchema
}

func New(logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{logger: logger}
}

func (c *Component) Name() string { return "i3d" }

func (c *Component) Preprocess(mc *mapctx.MapContext) error {
	if !mc.Game.I3DProcessing || mc.Game.TreeSchemaFile == "" {
		return nil
	}
	trees, err := game.LoadTreeSchema(mc.Game.TreeSchemaFile)
	if err != nil {
		return &mapctx.InvalidInputError{Field: "tree_schema", Msg: err.Error()}
	}
	c.trees = trees
	return nil
}

func (c *Component) Process(ctx context.Context, mc *mapctx.MapContext) error {
	if !mc.Game.I3DProcessing {
		return nil
	}

	path := mc.Game.I3DPath(mc.OutputDir)
	root, err := xmlutil.Parse(path)
	if err != nil {
		return &mapctx.InternalInvariantError{Msg: fmt.Sprintf("loading %s: %v", path, err)}
	}

	c.updateHeightScale(mc, root)
	c.updateParameters(mc, root)
	c.addFields(mc, root)
	if mc.I3D.AddTrees {
		c.addForests(mc, root)
	}

	if err := root.Write(path); err != nil {
		return &mapctx.FormatWriteError{Path: path, Err: err}
	}

	if err := c.addSplines(mc); err != nil {
		return err
	}

	return nil
}

func (c *Component) Previews(mc *mapctx.MapContext) []string { return nil }

// updateHeightScale patches Scene/TerrainTransformGroup/heightScale.
func (c *Component) updateHeightScale(mc *mapctx.MapContext, root *xmlutil.Node) {
	if !mc.Shared.ChangeHeightScale {
		return
	}
	terrain := root.Find("Scene/TerrainTransformGroup")
	if terrain == nil {
		return
	}
	terrain.Set("heightScale", strconv.FormatFloat(mc.Shared.HeightScaleValue, 'f', -1, 64))
}

// updateParameters patches the sun shadow-split bounding box and the
// DisplacementLayer size.
func (c *Component) updateParameters(mc *mapctx.MapContext, root *xmlutil.Node) {
	half := float64(mc.SizeM) / 2
	for _, light := range root.FindAll("Light") {
		if _, ok := light.Get("castShadowMap"); !ok {
			continue
		}
		light.Set("shadowSplitBBox0", fmt.Sprintf("%.1f -128.0 %.1f %.1f 148.0 %.1f", -half, -half, half, half))
	}
	for _, disp := range root.FindAll("DisplacementLayer") {
		disp.Set("size", strconv.Itoa(mc.SizeM*8))
	}
}

// addFields writes one TransformGroup per field polygon under
// gameplay/fields.
func (c *Component) addFields(mc *mapctx.MapContext, root *xmlutil.Node) {
	fieldsRaw, _ := mc.InfoLayers.GetTexture(mapctx.ParamFields)
	items, _ := fieldsRaw.([]any)
	if len(items) == 0 {
		return
	}

	gameplay := root.Find("Scene/gameplay")
	if gameplay == nil {
		scene := root.Find("Scene")
		if scene == nil {
			return
		}
		gameplay = scene.CreateChild("gameplay", nil)
	}
	fields := gameplay.CreateChild("fields", nil)

	nodeID := fieldNodeIDStart
	for i, item := range items {
		rings, _ := item.([][][2]float64)
		if len(rings) == 0 {
			continue
		}
		outer := rings[0]
		id := i + 1
		centroid := centroidOf(outer)

		tg := fields.CreateChild("TransformGroup", map[string]string{
			"name":        fmt.Sprintf("field%d", id),
			"nodeId":      strconv.Itoa(nodeID),
			"translation": fmt.Sprintf("%.3f 0 %.3f", centroid[0], centroid[1]),
		})
		nodeID++

		points := tg.CreateChild("polygonPoints", nil)
		for j, p := range outer {
			points.CreateChild(fmt.Sprintf("point%d", j), map[string]string{
				"x": strconv.FormatFloat(p[0]-centroid[0], 'f', 3, 64),
				"z": strconv.FormatFloat(p[1]-centroid[1], 'f', 3, 64),
			})
		}

		nameIndicator := tg.CreateChild("nameIndicator", nil)
		nameIndicator.CreateChild("Note", nil).Content = fmt.Sprintf("field%d\n0.00 ha", id)
		tg.CreateChild("teleportIndicator", nil)

		// Six fixed attributes regardless of field id.
		root.CreateChild("UserAttribute", map[string]string{
			"angle":                  "0",
			"missionAllowed":         "true",
			"missionOnlyGrass":       "false",
			"nameIndicatorIndex":     "1",
			"polygonIndex":           "0",
			"teleportIndicatorIndex": "2",
		})
	}
}

// addForests scatters one ReferenceNode per non-empty forest-mask pixel
// sampled at I3DSettings.ForestDensity stride.
func (c *Component) addForests(mc *mapctx.MapContext, root *xmlutil.Node) {
	if len(c.trees) == 0 {
		return
	}
	forestMaskRaw, ok := mc.InfoLayers.GetBackground("forest_mask_path")
	maskFile, _ := forestMaskRaw.(string)
	if !ok || maskFile == "" {
		return
	}
	mask, err := raster.LoadGrayPNG(maskFile)
	if err != nil {
		return
	}

	scene := root.Find("Scene")
	if scene == nil {
		return
	}
	forests := scene.CreateChild("forests", nil)

	stride := mc.I3D.ForestDensity
	if stride < 1 {
		stride = 1
	}
	shift := float64(mc.I3D.TreesRelativeShift) / 100.0 * float64(stride)
	half := float64(mc.SizeM) / 2
	rng := rand.New(rand.NewSource(int64(mc.SizeM) ^ int64(mc.RotationDeg)<<16))

	nodeID := forestNodeIDStart
	for i, pt := range raster.NonEmptyPixels(mask, stride) {
		tree := c.trees[i%len(c.trees)]
		x := float64(pt[0]) - half + (rng.Float64()*2-1)*shift
		z := float64(pt[1]) - half + (rng.Float64()*2-1)*shift
		angle := (rng.Float64()*2 - 1) * 180.0
		forests.CreateChild("ReferenceNode", map[string]string{
			"name":        fmt.Sprintf("tree%d", i),
			"nodeId":      strconv.Itoa(nodeID),
			"referenceId": strconv.Itoa(tree.Index),
			"translation": fmt.Sprintf("%.3f 0 %.3f", x, z),
			"rotation":    fmt.Sprintf("0 %.3f 0", angle),
		})
		nodeID++
	}
}

// addSplines writes one NURBS curve per road polyline into a separate
// splines I3D file.
func (c *Component) addSplines(mc *mapctx.MapContext) error {
	roadsRaw, _ := mc.InfoLayers.GetTexture(mapctx.ParamRoadsPolylines)
	items, _ := roadsRaw.([]any)
	if len(items) == 0 {
		return nil
	}

	notResized, err := raster.LoadGray16PNG(mc.Assets.NotResizedDEM)
	heightScale := int(mc.Shared.HeightScaleValue)
	if heightScale <= 0 {
		heightScale = 1
	}

	root := &xmlutil.Node{XMLName: xml.Name{Local: "i3D"}}
	scene := root.CreateChild("Scene", nil)
	shapes := scene.CreateChild("Shapes", nil)

	density := mc.I3D.SplineDensity
	if density < 1 {
		density = 1
	}

	nodeID := splineNodeIDStart
	for idx, r := range items {
		entry, ok := r.(map[string]any)
		if !ok {
			continue
		}
		pairs, _ := entry["points"].([][2]float64)
		if len(pairs) < 2 {
			continue
		}
		pts := make([]orb.Point, len(pairs))
		for i, p := range pairs {
			pts[i] = orb.Point{p[0], p[1]}
		}
		dense := geomutil.InterpolatePoints(pts, density)

		curveID := idx + 1
		curve := shapes.CreateChild("NurbsCurve", map[string]string{
			"name":    fmt.Sprintf("road%dCurve", idx+1),
			"shapeId": strconv.Itoa(curveID),
			"degree":  "3",
			"form":    "open",
		})
		for j, p := range dense {
			z := 0.0
			if err == nil && notResized != nil {
				// the raw DEM value divided by the z-scaling factor
				// (65535/heightScale), which SampleMeters computes as
				// value*heightScale/65535: the curve's y is in meters
				z = raster.SampleMeters(notResized, int(p[0]), int(p[1]), heightScale)
			}
			curve.CreateChild(fmt.Sprintf("cp%d", j), map[string]string{
				"x": strconv.FormatFloat(p[0], 'f', 3, 64),
				"y": strconv.FormatFloat(z, 'f', 3, 64),
				"z": strconv.FormatFloat(p[1], 'f', 3, 64),
			})
		}

		shape := scene.CreateChild("Shape", map[string]string{
			"name":    fmt.Sprintf("road%d", idx+1),
			"nodeId":  strconv.Itoa(nodeID),
			"shapeId": strconv.Itoa(curveID),
		})
		shape.CreateChild("UserAttribute", map[string]string{
			"maxSpeedScale": "1",
			"speedLimit":    "100",
		})
		nodeID++
	}

	splinesPath := mc.Game.SplinesPath(mc.OutputDir)
	if splinesPath == "" {
		return nil
	}
	if err := root.Write(splinesPath); err != nil {
		return &mapctx.FormatWriteError{Path: splinesPath, Err: err}
	}
	return nil
}

func centroidOf(ring [][2]float64) [2]float64 {
	var sx, sy float64
	for _, p := range ring {
		sx += p[0]
		sy += p[1]
	}
	n := float64(len(ring))
	if n == 0 {
		return [2]float64{}
	}
	return [2]float64{sx / n, sy / n}
}

