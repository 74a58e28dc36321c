package road

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec2"
)

func TestComponentName(t *testing.T) {
	assert.Equal(t, "road", New(nil).Name())
}

func TestNearestInteriorIndexFindsClosePoint(t *testing.T) {
	b := mesh.RoadEntry{Points: []vec2.T{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}}
	idx := nearestInteriorIndex(b, vec2.T{2, 0.1})
	assert.Equal(t, 2, idx)
}

func TestNearestInteriorIndexIgnoresEndpoints(t *testing.T) {
	b := mesh.RoadEntry{Points: []vec2.T{{0, 0}, {1, 0}, {2, 0}}}
	// closest raw point is index 0 (an endpoint), which must be excluded.
	idx := nearestInteriorIndex(b, vec2.T{0, 0})
	assert.Equal(t, 1, idx)
}

func TestNearestInteriorIndexOutOfTolerance(t *testing.T) {
	b := mesh.RoadEntry{Points: []vec2.T{{0, 0}, {1, 0}, {2, 0}}}
	idx := nearestInteriorIndex(b, vec2.T{100, 100})
	assert.Equal(t, -1, idx)
}

func TestPatchesForDetectsTJunction(t *testing.T) {
	c := New(nil)
	a := mesh.RoadEntry{Points: []vec2.T{{2, 0}, {2, 5}}, Width: 4}
	b := mesh.RoadEntry{Points: []vec2.T{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}, Width: 6}

	patches := c.patchesFor([]mesh.RoadEntry{a, b})
	assert.NotEmpty(t, patches)
	assert.Equal(t, 6.0, patches[0].Width)
	assert.Less(t, patches[0].ZOffset, 0.0)
}

func TestDemSamplerReadsPlayableDEM(t *testing.T) {
	dir := t.TempDir()
	demPath := filepath.Join(dir, "dem.png")

	// a 65x65 playable DEM at half intensity: 32767/65535 * 200m ≈ 100m
	img := image.NewGray16(image.Rect(0, 0, 65, 65))
	for y := 0; y < 65; y++ {
		for x := 0; x < 65; x++ {
			img.SetGray16(x, y, color.Gray16{Y: 32767})
		}
	}
	f, err := os.Create(demPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	mc := &mapctx.MapContext{SizeM: 64, Game: game.Profile{DEMMultiplier: 1}}
	mc.Assets.DEM = demPath
	mc.Shared.HeightScaleValue = 200

	sampler := New(nil).demSampler(mc)
	require.NotNil(t, sampler)
	// ribbon coordinates are map-centered; (0,0) maps to pixel (32,32)
	assert.InDelta(t, 100.0, sampler(0, 0), 0.01)
}

func TestDemSamplerMissingDEMIsNil(t *testing.T) {
	mc := &mapctx.MapContext{SizeM: 64}
	assert.Nil(t, New(nil).demSampler(mc))
}

func TestPatchesForNoIntersectionsIsEmpty(t *testing.T) {
	c := New(nil)
	a := mesh.RoadEntry{Points: []vec2.T{{0, 0}, {1, 0}}}
	b := mesh.RoadEntry{Points: []vec2.T{{100, 100}, {101, 100}, {102, 100}}}

	patches := c.patchesFor([]mesh.RoadEntry{a, b})
	assert.Empty(t, patches)
}
