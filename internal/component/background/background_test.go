package background

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampDTM returns a fixed coarse elevation grid; buildDEM's bilinear
// resize stretches it to the output resolution.
type rampDTM struct {
	max float64
}

func (r rampDTM) Fetch(_ context.Context, _ geomutil.BoundingBox) ([][]float64, float64, error) {
	const n = 16
	grid := make([][]float64, n)
	for y := range grid {
		row := make([]float64, n)
		for x := range row {
			row[x] = r.max * float64(x) / float64(n-1)
		}
		grid[y] = row
	}
	return grid, 30, nil
}

func testContext(sizeM int) *mapctx.MapContext {
	return &mapctx.MapContext{
		CenterLat:  45.28,
		CenterLon:  20.23,
		SizeM:      sizeM,
		Game:       game.Profile{Code: "TEST", DEMMultiplier: 1},
		DEM:        mapctx.DefaultDEMSettings(),
		Background: mapctx.DefaultBackgroundSettings(),
		InfoLayers: mapctx.NewInfoLayerStore(),
		DTMFetcher: rampDTM{max: 120},
	}
}

func TestBuildDEMPlayableShape(t *testing.T) {
	mc := testContext(64)
	dem, err := buildDEM(context.Background(), mc)
	require.NoError(t, err)

	// playable DEM is a vertex grid of size*multiplier+1 samples per side
	assert.Equal(t, 65, dem.rotated.Bounds().Dx())
	assert.Equal(t, 65, dem.rotated.Bounds().Dy())
}

func TestBuildDEMHeightScaleContract(t *testing.T) {
	mc := testContext(64)
	dem, err := buildDEM(context.Background(), mc)
	require.NoError(t, err)

	// the normalized raster never saturates: the chosen scale covers the
	// raw maximum with room to spare
	assert.GreaterOrEqual(t, dem.heightScale, mc.DEM.MinimumHeightScale)
	var maxPixel uint16
	b := dem.notResized.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if v := dem.notResized.Gray16At(x, y).Y; v > maxPixel {
				maxPixel = v
			}
		}
	}
	assert.LessOrEqual(t, int(maxPixel), 65535)
	restoredMax := float64(maxPixel) * float64(dem.heightScale) / 65535.0
	// the fetcher's ramp tops out at 120 m; a gray level of tolerance
	// covers the blur pass
	assert.InDelta(t, 120.0, restoredMax, 2.0)
}

func TestBuildDEMMissingFetcher(t *testing.T) {
	mc := testContext(64)
	mc.DTMFetcher = nil
	_, err := buildDEM(context.Background(), mc)
	var invalid *mapctx.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

// Water subtraction with depth 0 must be a pixel-exact no-op.
func TestApplyWaterZeroDepthIsNoop(t *testing.T) {
	mc := testContext(64)
	mc.DEM.WaterDepth = 0
	dem, err := buildDEM(context.Background(), mc)
	require.NoError(t, err)

	out, err := New(nil).applyWater(context.Background(), mc, dem)
	require.NoError(t, err)
	assert.Equal(t, dem.rotated.Pix, out.Pix)
}

func TestApplyWaterLowersMaskedPixels(t *testing.T) {
	mc := testContext(64)
	mc.DEM.WaterDepth = 5
	mc.InfoLayers.SetTexture(mapctx.ParamWaterPolylines, []any{
		[][2]float64{{10, 30}, {50, 30}},
	})
	dem, err := buildDEM(context.Background(), mc)
	require.NoError(t, err)

	out, err := New(nil).applyWater(context.Background(), mc, dem)
	require.NoError(t, err)

	// at least one pixel along the polyline dropped
	lowered := false
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !lowered; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if out.Gray16At(x, y).Y < dem.rotated.Gray16At(x, y).Y {
				lowered = true
				break
			}
		}
	}
	assert.True(t, lowered)
}

// Inside every foundation polygon the DEM must come out constant.
func TestFlattenUnderRingIsConstant(t *testing.T) {
	dem := image.NewGray16(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			dem.SetGray16(x, y, color.Gray16{Y: uint16(x * 100)})
		}
	}

	ring := [][2]float64{{8, 8}, {24, 8}, {24, 24}, {8, 24}}
	flattenUnderRing(dem, ring)

	first := dem.Gray16At(12, 12).Y
	for y := 10; y < 22; y++ {
		for x := 10; x < 22; x++ {
			assert.Equal(t, first, dem.Gray16At(x, y).Y)
		}
	}
	// outside the polygon untouched
	assert.Equal(t, uint16(200), dem.Gray16At(2, 2).Y)
}

func TestLevelAlongLineFollowsCenterline(t *testing.T) {
	dem := image.NewGray16(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			dem.SetGray16(x, y, color.Gray16{Y: uint16(y * 50)})
		}
	}

	pts := lineToPixelPoints([][2]float64{{4, 16}, {28, 16}})
	levelAlongLine(dem, pts)

	// pixels just off the centerline snap to the centerline's height
	center := dem.Gray16At(16, 16).Y
	assert.Equal(t, center, dem.Gray16At(16, 14).Y)
	assert.Equal(t, center, dem.Gray16At(16, 18).Y)
	// far away untouched
	assert.Equal(t, uint16(50*30), dem.Gray16At(16, 30).Y)
}

func TestGray16ToFloatGridRoundTrip(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 3, 2))
	img.SetGray16(2, 1, color.Gray16{Y: 777})
	grid := gray16ToFloatGrid(img)
	require.Len(t, grid, 2)
	require.Len(t, grid[0], 3)
	assert.Equal(t, 777.0, grid[1][2])
}

func TestLineBasedWaterMeshInvertedRibbon(t *testing.T) {
	mc := testContext(64)
	mc.InfoLayers.SetTexture(mapctx.ParamWaterPolylines, []any{
		[][2]float64{{0, 0}, {10, 0}, {20, 0}},
	})

	m := New(nil).lineBasedWaterMesh(mc)
	require.NotNil(t, m)
	assert.NotEmpty(t, m.Faces)
	assert.Len(t, m.Vertices, 6)
}

func TestLineBasedWaterMeshNoPolylines(t *testing.T) {
	mc := testContext(64)
	assert.Nil(t, New(nil).lineBasedWaterMesh(mc))
}
