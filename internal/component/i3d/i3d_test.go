package i3d

import (
	"encoding/xml"
	"strconv"
	"testing"

	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/xmlutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneRoot() *xmlutil.Node {
	root := &xmlutil.Node{XMLName: xml.Name{Local: "i3D"}}
	scene := root.CreateChild("Scene", nil)
	scene.CreateChild("TerrainTransformGroup", map[string]string{"heightScale": "255"})
	scene.CreateChild("Light", map[string]string{"castShadowMap": "true"})
	scene.CreateChild("DisplacementLayer", map[string]string{"size": "1024"})
	return root
}

func TestUpdateHeightScale(t *testing.T) {
	mc := &mapctx.MapContext{SizeM: 1024}
	mc.Shared.ChangeHeightScale = true
	mc.Shared.HeightScaleValue = 312

	root := sceneRoot()
	New(nil).updateHeightScale(mc, root)

	v, ok := root.Find("Scene/TerrainTransformGroup").Get("heightScale")
	require.True(t, ok)
	assert.Equal(t, "312", v)
}

func TestUpdateHeightScaleSkippedWithoutFlag(t *testing.T) {
	mc := &mapctx.MapContext{SizeM: 1024}
	root := sceneRoot()
	New(nil).updateHeightScale(mc, root)

	v, _ := root.Find("Scene/TerrainTransformGroup").Get("heightScale")
	assert.Equal(t, "255", v)
}

func TestUpdateParameters(t *testing.T) {
	mc := &mapctx.MapContext{SizeM: 1024}
	root := sceneRoot()
	New(nil).updateParameters(mc, root)

	bbox, ok := root.Find("Scene/Light").Get("shadowSplitBBox0")
	require.True(t, ok)
	assert.Equal(t, "-512.0 -128.0 -512.0 512.0 148.0 512.0", bbox)

	size, ok := root.Find("Scene/DisplacementLayer").Get("size")
	require.True(t, ok)
	assert.Equal(t, strconv.Itoa(1024*8), size)
}

func TestAddFieldsEmitsTransformGroups(t *testing.T) {
	mc := &mapctx.MapContext{SizeM: 1024, InfoLayers: mapctx.NewInfoLayerStore()}
	mc.InfoLayers.SetTexture(mapctx.ParamFields, []any{
		[][][2]float64{{{100, 100}, {200, 100}, {200, 200}, {100, 200}}},
	})

	root := sceneRoot()
	New(nil).addFields(mc, root)

	fields := root.Find("Scene/gameplay/fields")
	require.NotNil(t, fields)
	require.Len(t, fields.Children, 1)

	tg := fields.Children[0]
	name, _ := tg.Get("name")
	assert.Equal(t, "field1", name)
	nodeID, _ := tg.Get("nodeId")
	assert.Equal(t, strconv.Itoa(fieldNodeIDStart), nodeID)
	// translation is the polygon centroid
	translation, _ := tg.Get("translation")
	assert.Equal(t, "150.000 0 150.000", translation)

	points := tg.Find("polygonPoints")
	require.NotNil(t, points)
	assert.Len(t, points.Children, 4)
	// vertex offsets are relative to the centroid
	x, _ := points.Children[0].Get("x")
	assert.Equal(t, "-50.000", x)

	note := tg.Find("nameIndicator/Note")
	require.NotNil(t, note)
	assert.Equal(t, "field1\n0.00 ha", note.Content)

	attrs := root.FindAll("UserAttribute")
	require.Len(t, attrs, 1)
	allowed, _ := attrs[0].Get("missionAllowed")
	assert.Equal(t, "true", allowed)
}

func TestAddFieldsNoFieldsIsNoop(t *testing.T) {
	mc := &mapctx.MapContext{SizeM: 1024, InfoLayers: mapctx.NewInfoLayerStore()}
	root := sceneRoot()
	New(nil).addFields(mc, root)
	assert.Nil(t, root.Find("Scene/gameplay"))
}

func TestCentroidOf(t *testing.T) {
	c := centroidOf([][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	assert.Equal(t, [2]float64{5, 5}, c)
}
