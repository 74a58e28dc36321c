package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

func singleVertexMesh(v vec3.T) *Mesh {
	m := &Mesh{}
	m.AddVertex(v, vec2.T{})
	return m
}

func TestRotateZQuarterTurn(t *testing.T) {
	m := singleVertexMesh(vec3.T{1, 0, 0})
	m.RotateZ(math.Pi / 2)
	assert.InDelta(t, 0, m.Vertices[0][0], 1e-9)
	assert.InDelta(t, 1, m.Vertices[0][1], 1e-9)
	assert.InDelta(t, 0, m.Vertices[0][2], 1e-9)
}

func TestRotateYZ180(t *testing.T) {
	m := singleVertexMesh(vec3.T{1, 2, 3})
	m.RotateYZ180()
	assert.InDelta(t, 1, m.Vertices[0][0], 1e-9)
	assert.InDelta(t, -2, m.Vertices[0][1], 1e-9)
	assert.InDelta(t, -3, m.Vertices[0][2], 1e-9)
}

func TestRotateXFullTurnIsIdentity(t *testing.T) {
	m := singleVertexMesh(vec3.T{1, 2, 3})
	m.RotateX(2 * math.Pi)
	assert.InDelta(t, 1, m.Vertices[0][0], 1e-6)
	assert.InDelta(t, 2, m.Vertices[0][1], 1e-6)
	assert.InDelta(t, 3, m.Vertices[0][2], 1e-6)
}
