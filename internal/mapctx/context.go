package mapctx

import (
	"context"
	"math"

	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/geomutil"
)

// OSMFetcher retrieves OpenStreetMap features for a bounding box, tagged by
// the query a LayerSpec declares. Implementations live in internal/osm
// and internal/provider; the pipeline only consumes the interface.
type OSMFetcher interface {
	Fetch(ctx context.Context, bbox geomutil.BoundingBox, tags map[string]any) (any, error)
}

// DTMFetcher retrieves a digital terrain model raster for a bounding box at
// a native resolution, used by the Background+DEM component.
type DTMFetcher interface {
	Fetch(ctx context.Context, bbox geomutil.BoundingBox) (elevations [][]float64, cellSizeM float64, err error)
}

// SatelliteFetcher retrieves satellite basemap tiles for a bounding box,
// used by the optional Satellite component.
type SatelliteFetcher interface {
	Fetch(ctx context.Context, bbox geomutil.BoundingBox, zoom int) (image any, err error)
}

// Assets records the on-disk path produced by each pipeline component as
// it runs: later components read named fields instead of probing
// attributes that may or may not have been set.
type Assets struct {
	DEM           string
	NotResizedDEM string
	Farmlands     string
	Plants        string
	Overview      string
	Background    string
	Water         string
	Satellite     string

	// WeightMasks maps a texture layer's schema name to the path of its
	// written 8-bit PNG weight mask.
	WeightMasks map[string]string
}

// MapContext carries every value shared across the seven pipeline
// components for a single generation run: the requested region, the
// target game's schema, per-component settings, and the Assets/InfoLayers
// state components read from and write to as they run.
type MapContext struct {
	CenterLat   float64
	CenterLon   float64
	SizeM       int
	RotationDeg int
	Game        game.Profile
	OutputDir   string

	Assets     Assets
	Shared     SharedSettings
	InfoLayers InfoLayerStore

	DEM        DEMSettings
	Background BackgroundSettings
	GRLE       GRLESettings
	I3D        I3DSettings
	Texture    TextureSettings
	Satellite  SatelliteSettings

	OSMFetcher       OSMFetcher
	DTMFetcher       DTMFetcher
	SatelliteFetcher SatelliteFetcher
}

// BoundingBox returns the map's lat/lon bounding box, widened to cover the
// rotated square fully so that fetched OSM/DTM data is never clipped
// before rotation-crop. A square of side SizeM rotated by any angle fits
// inside a circle of radius SizeM*sqrt(2)/2 centered on Center.
func (mc *MapContext) BoundingBox() geomutil.BoundingBox {
	diagonal := float64(mc.SizeM) * math.Sqrt2
	return geomutil.FromCenter(mc.CenterLat, mc.CenterLon, diagonal)
}
