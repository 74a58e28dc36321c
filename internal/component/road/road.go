// Package road implements the Road pipeline component: it fits each
// road polyline into the map bounds, detects T-junction patches, builds
// a ribbon mesh per road plus patch, and exports it as OBJ/I3D.
package road

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/mesh"
	"github.com/MeKo-Tech/mapgen/internal/raster"
	"github.com/paulmach/orb"
	"github.com/ungerik/go3d/float64/vec2"
)

const patchZOffset = -0.01
const tJunctionToleranceM = 1.0

// maxLineSurfaceLengthM caps a single ribbon segment at 30 texture tiles
// so its UV-v coordinate never exceeds the engine's allowed range.
const maxLineSurfaceLengthM = 30 * mesh.TextureTileSize

// Component implements pipeline.Component for road ribbon-mesh export.
type Component struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{logger: logger}
}

func (c *Component) Name() string { return "road" }

func (c *Component) Preprocess(mc *mapctx.MapContext) error { return nil }

// Process fits every road polyline into bounds, patches T-junctions, and
// exports the ribbon meshes.
func (c *Component) Process(ctx context.Context, mc *mapctx.MapContext) error {
	roadsRaw, _ := mc.InfoLayers.GetTexture(mapctx.ParamRoadsPolylines)
	items, _ := roadsRaw.([]any)
	if len(items) == 0 {
		return nil
	}

	entries := c.buildEntries(mc, items)
	entries = append(entries, c.patchesFor(entries)...)

	m := mesh.BuildRoadRibbons(entries, c.demSampler(mc))

	outDir := filepath.Join(mc.OutputDir, "roads")
	objPath := filepath.Join(outDir, "roads.obj")
	mtlPath := filepath.Join(outDir, "roads.mtl")

	mat := mesh.DefaultMaterial("roadAsphalt", "asphalt.png")
	if err := mesh.WriteMTL(mtlPath, mat); err != nil {
		return &mapctx.FormatWriteError{Path: mtlPath, Err: err}
	}
	if err := mesh.WriteOBJ(objPath, m, filepath.Base(mtlPath), mat.Name); err != nil {
		return &mapctx.FormatWriteError{Path: objPath, Err: err}
	}

	if mc.Game.MeshProcessing {
		i3dPath := filepath.Join(mc.OutputDir, "assets", "roads", "roads.i3d")
		m.PrepareForI3D()
		if err := mesh.WriteI3D(i3dPath, m, mesh.I3DOptions{Name: "roads", TextureFile: "asphalt.png"}); err != nil {
			return &mapctx.FormatWriteError{Path: i3dPath, Err: err}
		}
	}

	mc.InfoLayers.SetBackground("roads_obj_path", objPath)
	return nil
}

func (c *Component) Previews(mc *mapctx.MapContext) []string { return nil }

// demSampler returns a HeightSampler over the playable DEM so ribbon
// vertices drape over the terrain the Background component flattened
// under each road. Ribbon coordinates are map-centered; the sampler maps
// them back to DEM pixels through the title's DEM multiplier. A missing
// or unreadable DEM yields a nil sampler and flat roads.
func (c *Component) demSampler(mc *mapctx.MapContext) mesh.HeightSampler {
	if mc.Assets.DEM == "" {
		c.logger.Warn("no DEM asset recorded, road mesh will be flat")
		return nil
	}
	dem, err := raster.LoadGray16PNG(mc.Assets.DEM)
	if err != nil {
		c.logger.Warn("DEM not readable, road mesh will be flat", "error", err)
		return nil
	}
	heightScale := int(mc.Shared.HeightScaleValue)
	if heightScale <= 0 {
		heightScale = 1
	}
	half := float64(mc.SizeM) / 2
	mult := float64(mc.Game.DEMMultiplier)
	if mult < 1 {
		mult = 1
	}
	return func(x, y float64) float64 {
		return raster.SampleMeters(dem, int((x+half)*mult), int((y+half)*mult), heightScale)
	}
}

// buildEntries converts each stored road polyline into a fitted
// mesh.RoadEntry.
func (c *Component) buildEntries(mc *mapctx.MapContext, items []any) []mesh.RoadEntry {
	half := float64(mc.SizeM) / 2
	var out []mesh.RoadEntry
	for _, r := range items {
		entry, ok := r.(map[string]any)
		if !ok {
			continue
		}
		pairs, _ := entry["points"].([][2]float64)
		if len(pairs) < 2 {
			continue
		}
		ls := make(orb.LineString, len(pairs))
		for i, p := range pairs {
			ls[i] = orb.Point{p[0], p[1]}
		}
		fitted, err := geomutil.FitLineStringIntoBounds(ls, geomutil.FitOptions{
			CanvasSize: float64(mc.SizeM),
			Center:     orb.Point{half, half},
		})
		if err != nil {
			continue
		}

		width := 4.0
		if w, ok := entry["width"].(int); ok && w > 0 {
			width = float64(w)
		}

		resampled := geomutil.SmartInterpolation([]orb.Point(fitted))
		for _, segment := range geomutil.SplitLongLineSurfaces(resampled, maxLineSurfaceLengthM) {
			points := make([]vec2.T, len(segment))
			for i, p := range segment {
				points[i] = vec2.T{p[0] - half, p[1] - half}
			}
			out = append(out, mesh.RoadEntry{Points: points, Width: width})
		}
	}
	return out
}

// patchesFor detects T-junctions: an endpoint of one road within
// tJunctionToleranceM of another road's interior (not near that road's
// own endpoints), and emits a short patch ribbon around the intersecting
// segment raised by patchZOffset.
func (c *Component) patchesFor(entries []mesh.RoadEntry) []mesh.RoadEntry {
	var patches []mesh.RoadEntry
	for i, a := range entries {
		if len(a.Points) == 0 {
			continue
		}
		endpoints := []vec2.T{a.Points[0], a.Points[len(a.Points)-1]}
		for j, b := range entries {
			if i == j || len(b.Points) < 3 {
				continue
			}
			for _, ep := range endpoints {
				idx := nearestInteriorIndex(b, ep)
				if idx < 0 {
					continue
				}
				lo, hi := idx-2, idx+2
				if lo < 0 {
					lo = 0
				}
				if hi >= len(b.Points) {
					hi = len(b.Points) - 1
				}
				window := append([]vec2.T{}, b.Points[lo:hi+1]...)
				patches = append(patches, mesh.RoadEntry{
					Points:  window,
					Width:   b.Width,
					ZOffset: patchZOffset,
				})
			}
		}
	}
	return patches
}

// nearestInteriorIndex returns the index of the closest point of b's
// interior (excluding its own two endpoints) to p, or -1 if nothing is
// within tJunctionToleranceM.
func nearestInteriorIndex(b mesh.RoadEntry, p vec2.T) int {
	best := -1
	bestDist := tJunctionToleranceM * tJunctionToleranceM
	for k := 1; k < len(b.Points)-1; k++ {
		dx := b.Points[k][0] - p[0]
		dy := b.Points[k][1] - p[1]
		d := dx*dx + dy*dy
		if d <= bestDist && (best < 0 || d < bestDist) {
			bestDist = d
			best = k
		}
	}
	return best
}
