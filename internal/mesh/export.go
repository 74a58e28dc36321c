package mesh

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// Material describes the single-material MTL file this generator writes
// alongside every OBJ mesh.
type Material struct {
	Name          string
	Ambient       [3]float64
	Diffuse       [3]float64
	Specular      [3]float64
	SpecularPower float64
	Illum         int
	TextureFile   string
}

// DefaultMaterial returns the flat white material used for every
// generated mesh.
func DefaultMaterial(name, textureFile string) Material {
	return Material{
		Name:          name,
		Ambient:       [3]float64{1, 1, 1},
		Diffuse:       [3]float64{1, 1, 1},
		Specular:      [3]float64{0.3, 0.3, 0.3},
		SpecularPower: 10,
		Illum:         2,
		TextureFile:   textureFile,
	}
}

// WriteMTL writes a single-material MTL file.
func WriteMTL(path string, mat Material) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating mtl file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "newmtl %s\n", mat.Name)
	fmt.Fprintf(w, "Ka %.1f %.1f %.1f\n", mat.Ambient[0], mat.Ambient[1], mat.Ambient[2])
	fmt.Fprintf(w, "Kd %.1f %.1f %.1f\n", mat.Diffuse[0], mat.Diffuse[1], mat.Diffuse[2])
	fmt.Fprintf(w, "Ks %.1f %.1f %.1f\n", mat.Specular[0], mat.Specular[1], mat.Specular[2])
	fmt.Fprintf(w, "Ns %.1f\n", mat.SpecularPower)
	fmt.Fprintf(w, "illum %d\n", mat.Illum)
	if mat.TextureFile != "" {
		fmt.Fprintf(w, "map_Kd %s\n", mat.TextureFile)
	}
	return w.Flush()
}

// WriteOBJ writes the mesh as a Wavefront OBJ file referencing mtlName.
func WriteOBJ(path string, m *Mesh, mtlName, materialName string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating obj file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if mtlName != "" {
		fmt.Fprintf(w, "mtllib %s\n\n", mtlName)
	}

	for _, v := range m.Vertices {
		fmt.Fprintf(w, "v %.6f %.6f %.6f\n", v[0], v[1], v[2])
	}
	hasUVs := len(m.UVs) == len(m.Vertices)
	if hasUVs {
		fmt.Fprintln(w)
		for _, uv := range m.UVs {
			fmt.Fprintf(w, "vt %.6f %.6f\n", uv[0], uv[1])
		}
	}

	fmt.Fprintln(w)
	if materialName != "" {
		fmt.Fprintf(w, "usemtl %s\n", materialName)
	}
	for _, face := range m.Faces {
		if hasUVs {
			fmt.Fprintf(w, "f %d/%d %d/%d %d/%d\n",
				face[0]+1, face[0]+1, face[1]+1, face[1]+1, face[2]+1, face[2]+1)
		} else {
			fmt.Fprintf(w, "f %d %d %d\n", face[0]+1, face[1]+1, face[2]+1)
		}
	}

	return w.Flush()
}
