// Package mesh builds the 3D geometry this generator exports as OBJ/I3D
// assets: the background terrain grid, the water plane, and the ribbon
// meshes used for roads. Vertices are stored as
// github.com/ungerik/go3d/float64/vec3.T so downstream consumers can use
// go3d's vector arithmetic directly on exported geometry.
package mesh

import (
	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// Mesh is a minimal indexed triangle mesh: a vertex list, a parallel UV
// list, and a face list of vertex indices, matching the subset of
// trimesh.Trimesh's shape this generator actually needs.
type Mesh struct {
	Vertices []vec3.T
	UVs      []vec2.T
	Faces    [][3]int
}

// AddVertex appends v and its UV and returns its index.
func (m *Mesh) AddVertex(v vec3.T, uv vec2.T) int {
	idx := len(m.Vertices)
	m.Vertices = append(m.Vertices, v)
	m.UVs = append(m.UVs, uv)
	return idx
}

// AddFace appends a triangle referencing three vertex indices.
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, [3]int{a, b, c})
}

// Extents returns the mesh's axis-aligned bounding box.
func (m *Mesh) Extents() (min, max vec3.T) {
	if len(m.Vertices) == 0 {
		return vec3.T{}, vec3.T{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			if v[axis] < min[axis] {
				min[axis] = v[axis]
			}
			if v[axis] > max[axis] {
				max[axis] = v[axis]
			}
		}
	}
	return min, max
}

// Centroid returns the mean of all vertex positions.
func (m *Mesh) Centroid() vec3.T {
	var sum vec3.T
	if len(m.Vertices) == 0 {
		return sum
	}
	for _, v := range m.Vertices {
		sum[0] += v[0]
		sum[1] += v[1]
		sum[2] += v[2]
	}
	n := float64(len(m.Vertices))
	return vec3.T{sum[0] / n, sum[1] / n, sum[2] / n}
}

// ApplyScale scales every vertex component-wise in place.
func (m *Mesh) ApplyScale(sx, sy, sz float64) {
	for i := range m.Vertices {
		m.Vertices[i][0] *= sx
		m.Vertices[i][1] *= sy
		m.Vertices[i][2] *= sz
	}
}

// ApplyTranslation offsets every vertex by d in place.
func (m *Mesh) ApplyTranslation(d vec3.T) {
	for i := range m.Vertices {
		m.Vertices[i][0] += d[0]
		m.Vertices[i][1] += d[1]
		m.Vertices[i][2] += d[2]
	}
}

// RecenterToCentroid translates the mesh so its centroid sits at the
// origin.
func (m *Mesh) RecenterToCentroid() {
	c := m.Centroid()
	m.ApplyTranslation(vec3.T{-c[0], -c[1], -c[2]})
}

// InvertFaces reverses each face's winding order.
func (m *Mesh) InvertFaces() {
	for i, f := range m.Faces {
		m.Faces[i] = [3]int{f[2], f[1], f[0]}
	}
}
