package mesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

func quadMesh() *Mesh {
	m := &Mesh{}
	a := m.AddVertex(vec3.T{0, 0, 0}, vec2.T{0, 0})
	b := m.AddVertex(vec3.T{1, 0, 0}, vec2.T{1, 0})
	c := m.AddVertex(vec3.T{1, 1, 0}, vec2.T{1, 1})
	d := m.AddVertex(vec3.T{0, 1, 0}, vec2.T{0, 1})
	m.AddFace(a, b, c)
	m.AddFace(a, c, d)
	return m
}

func TestWriteI3DShapeStructure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roads.i3d")
	require.NoError(t, WriteI3D(path, quadMesh(), I3DOptions{Name: "roads", TextureFile: "asphalt.png"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `<IndexedTriangleSet name="roads" shapeId="1">`)
	assert.Contains(t, out, `<Vertices count="4" uv0="true">`)
	assert.Contains(t, out, `<Triangles count="2">`)
	assert.Contains(t, out, `numIndices="6" numVertices="4"`)
	assert.Contains(t, out, `filename="asphalt.png"`)
	assert.Contains(t, out, `materialIds="1"`)
	assert.NotContains(t, out, "oceanShader")
}

func TestWriteI3DOceanShaderMaterial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.i3d")
	require.NoError(t, WriteI3D(path, quadMesh(), I3DOptions{Name: "water_resources", OceanShader: true}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "oceanShader.xml")
	assert.Contains(t, out, "customShaderId=")
}

func TestWriteI3DNoUVs(t *testing.T) {
	m := &Mesh{}
	m.Vertices = append(m.Vertices, vec3.T{0, 0, 0}, vec3.T{1, 0, 0}, vec3.T{0, 1, 0})
	m.AddFace(0, 1, 2)

	path := filepath.Join(t.TempDir(), "bare.i3d")
	require.NoError(t, WriteI3D(path, m, I3DOptions{Name: "bare"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `uv0="false"`)
}
