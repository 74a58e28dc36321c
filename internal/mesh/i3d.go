package mesh

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// oceanShaderFile is the engine-shipped shader the water material binds.
const oceanShaderFile = "$data/shaders/oceanShader.xml"

// I3DOptions configures WriteI3D.
type I3DOptions struct {
	Name        string
	TextureFile string
	// OceanShader binds the material to the engine's ocean shader instead
	// of the default terrain one; used for the water mesh only.
	OceanShader bool
}

// WriteI3D wraps the mesh in a Giants I3D v1.6 scene file with a single
// IndexedTriangleSet shape. Written with bufio like the OBJ writer; a node
// tree over tens of thousands of vertex elements is not worth the
// allocation churn.
func WriteI3D(path string, m *Mesh, opts I3DOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating i3d file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"iso-8859-1\"?>\n")
	fmt.Fprintf(w, "<i3D name=%q version=\"1.6\" xmlns:xsi=\"http://www.w3.org/2001/XMLSchema-instance\" xsi:noNamespaceSchemaLocation=\"http://i3d.giants.ch/schema/i3d-1.6.xsd\">\n", opts.Name)

	nextFileID := 1
	textureFileID, shaderFileID := 0, 0
	fmt.Fprintf(w, "  <Files>\n")
	if opts.TextureFile != "" {
		textureFileID = nextFileID
		nextFileID++
		fmt.Fprintf(w, "    <File fileId=\"%d\" filename=%q/>\n", textureFileID, opts.TextureFile)
	}
	if opts.OceanShader {
		shaderFileID = nextFileID
		fmt.Fprintf(w, "    <File fileId=\"%d\" filename=%q/>\n", shaderFileID, oceanShaderFile)
	}
	fmt.Fprintf(w, "  </Files>\n")

	fmt.Fprintf(w, "  <Materials>\n")
	fmt.Fprintf(w, "    <Material name=\"%s_mat\" materialId=\"1\" diffuseColor=\"1 1 1 1\"", opts.Name)
	if opts.OceanShader {
		fmt.Fprintf(w, " customShaderId=\"%d\"", shaderFileID)
	}
	if textureFileID > 0 {
		fmt.Fprintf(w, ">\n      <Texture fileId=\"%d\"/>\n    </Material>\n", textureFileID)
	} else {
		fmt.Fprintf(w, "/>\n")
	}
	fmt.Fprintf(w, "  </Materials>\n")

	hasUVs := len(m.UVs) == len(m.Vertices) && len(m.Vertices) > 0

	fmt.Fprintf(w, "  <Shapes>\n")
	fmt.Fprintf(w, "    <IndexedTriangleSet name=%q shapeId=\"1\">\n", opts.Name)
	fmt.Fprintf(w, "      <Vertices count=\"%d\" uv0=\"%t\">\n", len(m.Vertices), hasUVs)
	for i, v := range m.Vertices {
		if hasUVs {
			fmt.Fprintf(w, "        <v p=\"%.6f %.6f %.6f\" t0=\"%.6f %.6f\"/>\n", v[0], v[1], v[2], m.UVs[i][0], m.UVs[i][1])
		} else {
			fmt.Fprintf(w, "        <v p=\"%.6f %.6f %.6f\"/>\n", v[0], v[1], v[2])
		}
	}
	fmt.Fprintf(w, "      </Vertices>\n")
	fmt.Fprintf(w, "      <Triangles count=\"%d\">\n", len(m.Faces))
	for _, face := range m.Faces {
		fmt.Fprintf(w, "        <t vi=\"%d %d %d\"/>\n", face[0], face[1], face[2])
	}
	fmt.Fprintf(w, "      </Triangles>\n")
	fmt.Fprintf(w, "      <Subsets count=\"1\">\n")
	fmt.Fprintf(w, "        <Subset firstIndex=\"0\" firstVertex=\"0\" numIndices=\"%d\" numVertices=\"%d\"/>\n", len(m.Faces)*3, len(m.Vertices))
	fmt.Fprintf(w, "      </Subsets>\n")
	fmt.Fprintf(w, "    </IndexedTriangleSet>\n")
	fmt.Fprintf(w, "  </Shapes>\n")

	fmt.Fprintf(w, "  <Scene>\n")
	fmt.Fprintf(w, "    <Shape name=%q shapeId=\"1\" nodeId=\"1\" materialIds=\"1\" castsShadows=\"true\" receiveShadows=\"true\"/>\n", opts.Name)
	fmt.Fprintf(w, "  </Scene>\n")
	fmt.Fprintf(w, "</i3D>\n")

	return w.Flush()
}
