package mesh

import "math"

// PrepareForI3D applies the rotation and recentring every mesh needs
// before it's wrapped in an I3D shape node: a 90-degree rotation about
// the X axis (OBJ's Y-up to Giants Engine's Z-up convention) followed by
// recentring on the vertex mean.
func (m *Mesh) PrepareForI3D() {
	m.RotateX(math.Pi / 2)
	m.RecenterToCentroid()
}
