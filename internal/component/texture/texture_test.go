package texture

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestLayersByPriorityNilLast(t *testing.T) {
	schema := game.TextureSchema{
		{Name: "roads"},
		{Name: "water", Priority: intPtr(2)},
		{Name: "base", Priority: intPtr(0)},
		{Name: "fields", Priority: intPtr(1)},
		{Name: "drains"},
	}

	sorted := layersByPriority(schema)
	names := make([]string, len(sorted))
	for i, l := range sorted {
		names[i] = l.Name
	}
	assert.Equal(t, []string{"base", "fields", "water", "roads", "drains"}, names)
}

func TestLayersByPriorityStableForTies(t *testing.T) {
	schema := game.TextureSchema{
		{Name: "a", Priority: intPtr(1)},
		{Name: "b", Priority: intPtr(1)},
	}
	sorted := layersByPriority(schema)
	assert.Equal(t, "a", sorted[0].Name)
	assert.Equal(t, "b", sorted[1].Name)
}

func TestApplyBorderErasesEdgeRows(t *testing.T) {
	mask := raster.NewEmptyMask(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			mask.SetGray(x, y, gray(255))
		}
	}

	out := applyBorder(mask, intPtr(2))

	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), out.GrayAt(1, 4).Y)
	assert.Equal(t, uint8(0), out.GrayAt(4, 6).Y)
	assert.Equal(t, uint8(255), out.GrayAt(4, 4).Y)
	assert.Equal(t, uint8(255), out.GrayAt(2, 2).Y)
}

func TestApplyBorderNilIsNoop(t *testing.T) {
	mask := raster.NewEmptyMask(image.Rect(0, 0, 4, 4))
	mask.SetGray(0, 0, gray(255))
	out := applyBorder(mask, nil)
	assert.Equal(t, uint8(255), out.GrayAt(0, 0).Y)
}

func TestApplyMergeIntoUnionsAndClearsSource(t *testing.T) {
	b := image.Rect(0, 0, 4, 4)
	target := raster.NewEmptyMask(b)
	target.SetGray(0, 0, gray(255))
	source := raster.NewEmptyMask(b)
	source.SetGray(3, 3, gray(255))

	layers := []layerMask{
		{layer: game.LayerSpec{Name: "grass"}, mask: target},
		{layer: game.LayerSpec{Name: "clover", MergeInto: "grass"}, mask: source},
	}
	applyMergeInto(layers)

	assert.Equal(t, uint8(255), layers[0].mask.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), layers[0].mask.GrayAt(3, 3).Y)
	assert.Equal(t, uint8(0), layers[1].mask.GrayAt(3, 3).Y)
}

func TestApplyMergeIntoUnknownTargetIsNoop(t *testing.T) {
	b := image.Rect(0, 0, 2, 2)
	source := raster.NewEmptyMask(b)
	source.SetGray(0, 0, gray(255))
	layers := []layerMask{{layer: game.LayerSpec{Name: "clover", MergeInto: "missing"}, mask: source}}
	applyMergeInto(layers)
	assert.Equal(t, uint8(255), layers[0].mask.GrayAt(0, 0).Y)
}

func TestFillBaseLayersUsesComplement(t *testing.T) {
	b := image.Rect(0, 0, 2, 2)
	used := raster.NewEmptyMask(b)
	used.SetGray(0, 0, gray(255))

	layers := []layerMask{{layer: game.LayerSpec{Name: "base", Priority: intPtr(0)}}}
	fillBaseLayers(layers, used)

	require.NotNil(t, layers[0].mask)
	assert.Equal(t, uint8(0), layers[0].mask.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), layers[0].mask.GrayAt(1, 1).Y)
}

// Dissolve must split the mask across variants without losing or
// duplicating a single pixel: the union of all variants equals the
// pre-dissolve mask exactly.
func TestWriteDissolvedVariantsUnionEqualsOriginal(t *testing.T) {
	dir := t.TempDir()
	b := image.Rect(0, 0, 32, 32)
	mask := raster.NewEmptyMask(b)
	for y := 4; y < 28; y++ {
		for x := 4; x < 28; x++ {
			mask.SetGray(x, y, gray(255))
		}
	}

	layer := game.LayerSpec{Name: "grass", Count: 2}
	mc := &mapctx.MapContext{SizeM: 32}
	mc.Assets.WeightMasks = map[string]string{}

	c := New(nil)
	require.NoError(t, c.writeDissolved(dir, layerMask{layer: layer, mask: mask}, mc))

	v1, err := raster.LoadGrayPNG(layer.PathN(dir, 1))
	require.NoError(t, err)
	v2, err := raster.LoadGrayPNG(layer.PathN(dir, 2))
	require.NoError(t, err)

	var count1, count2 int
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			p1, p2 := v1.GrayAt(x, y).Y, v2.GrayAt(x, y).Y
			// no pixel may belong to both variants
			assert.False(t, p1 == 255 && p2 == 255)
			union := p1 | p2
			assert.Equal(t, mask.GrayAt(x, y).Y, union)
			if p1 == 255 {
				count1++
			}
			if p2 == 255 {
				count2++
			}
		}
	}
	assert.Greater(t, count1, 0)
	assert.Greater(t, count2, 0)

	// pre-dissolve mask preserved as a preview sibling
	_, err = os.Stat(dissolvePreviewPath(layer.Path(dir)))
	assert.NoError(t, err)
}

func TestDissolvePreviewPath(t *testing.T) {
	assert.Equal(t, "/w/grass01_weight_preview.png", dissolvePreviewPath("/w/grass01_weight.png"))
}

func gray(v uint8) color.Gray { return color.Gray{Y: v} }
