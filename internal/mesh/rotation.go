package mesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// RotateX rotates every vertex by angle radians about the X axis in
// place.
func (m *Mesh) RotateX(angle float64) {
	s, c := math.Sin(angle), math.Cos(angle)
	for i, v := range m.Vertices {
		y := v[1]*c - v[2]*s
		z := v[1]*s + v[2]*c
		m.Vertices[i] = vec3.T{v[0], y, z}
	}
}

// RotateY rotates every vertex by angle radians about the Y axis in place.
func (m *Mesh) RotateY(angle float64) {
	s, c := math.Sin(angle), math.Cos(angle)
	for i, v := range m.Vertices {
		x := v[0]*c + v[2]*s
		z := -v[0]*s + v[2]*c
		m.Vertices[i] = vec3.T{x, v[1], z}
	}
}

// RotateZ rotates every vertex by angle radians about the Z axis in place.
func (m *Mesh) RotateZ(angle float64) {
	s, c := math.Sin(angle), math.Cos(angle)
	for i, v := range m.Vertices {
		x := v[0]*c - v[1]*s
		y := v[0]*s + v[1]*c
		m.Vertices[i] = vec3.T{x, y, v[2]}
	}
}

// RotateYZ180 rotates the mesh 180 degrees about Y then Z.
func (m *Mesh) RotateYZ180() {
	m.RotateY(math.Pi)
	m.RotateZ(math.Pi)
}
