package mesh

import (
	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// TerrainOptions configures FromHeightGrid.
type TerrainOptions struct {
	// IncludeZeros keeps grid cells whose height equals the image's
	// ground (maximum-inverted) value; false skips them, punching holes
	// where the background DEM carries no real elevation data.
	IncludeZeros bool
	// ZScalingFactor scales the Z axis after the grid is built.
	ZScalingFactor float64
	// ResizeFactor subsamples the source grid every ResizeFactor cells.
	ResizeFactor int
	// RemoveCenterSize, when > 0, omits every cell falling inside a
	// centered square of this side length (in source-grid units before
	// ResizeFactor subsampling), punching the farmland-sized hole a
	// background terrain needs so it doesn't occlude the playable
	// foreground mesh.
	RemoveCenterSize int
	// OutputSize is not read by FromHeightGrid: when IncludeZeros is
	// set, the X/Y extents are rescaled to the row count of the input
	// grid instead.
	OutputSize int
}

// FromHeightGrid builds a triangulated terrain mesh from a row-major
// height grid.
//
// No CSG library is available in this stack, so RemoveCenterSize is
// applied directly during face generation, by skipping any quad whose
// footprint falls inside the center square. The result is a square hole
// centered on the mesh.
func FromHeightGrid(heights [][]float64, opts TerrainOptions) *Mesh {
	resize := opts.ResizeFactor
	if resize < 1 {
		resize = 1
	}
	outputXSize := len(heights)

	sampled := subsample(heights, resize)
	rows := len(sampled)
	if rows == 0 {
		return &Mesh{}
	}
	cols := len(sampled[0])

	ground := maxOf(sampled)

	m := &Mesh{}
	indices := make([][]int, rows)
	for i := range indices {
		indices[i] = make([]int, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			z := ground - sampled[i][j]
			indices[i][j] = m.AddVertex(vec3.T{float64(j), float64(i), z}, vec2.T{})
		}
	}

	removeHalf := 0.0
	if opts.RemoveCenterSize > 0 {
		removeHalf = float64(opts.RemoveCenterSize) / float64(resize) / 2
	}
	centerX, centerY := float64(cols)/2, float64(rows)/2

	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			if !opts.IncludeZeros {
				corners := [4]float64{sampled[i][j], sampled[i][j+1], sampled[i+1][j], sampled[i+1][j+1]}
				skip := false
				for _, c := range corners {
					if ground-c == 0 {
						skip = true
						break
					}
				}
				if skip {
					continue
				}
			}
			if removeHalf > 0 {
				cx, cy := float64(j)+0.5, float64(i)+0.5
				if abs(cx-centerX) < removeHalf && abs(cy-centerY) < removeHalf {
					continue
				}
			}

			topLeft := indices[i][j]
			topRight := indices[i][j+1]
			bottomLeft := indices[i+1][j]
			bottomRight := indices[i+1][j+1]

			m.AddFace(topLeft, bottomLeft, bottomRight)
			m.AddFace(topLeft, bottomRight, topRight)
		}
	}

	m.RotateYZ180()
	applyOutputSize(m, resize, opts.ZScalingFactor, outputXSize, !opts.IncludeZeros)

	return m
}

// applyOutputSize scales X/Y by resizeFactor and Z by zScalingFactor,
// then (unless skipResize) stretches X/Y to exactly expectedSize.
func applyOutputSize(m *Mesh, resizeFactor int, zScalingFactor float64, expectedSize int, skipResize bool) {
	m.ApplyScale(float64(resizeFactor), float64(resizeFactor), zScalingFactor)
	if skipResize || expectedSize <= 0 {
		return
	}
	min, max := m.Extents()
	xSize, ySize := max[0]-min[0], max[1]-min[1]
	if xSize == 0 || ySize == 0 {
		return
	}
	m.ApplyScale(float64(expectedSize)/xSize, float64(expectedSize)/ySize, 1)
}

func subsample(grid [][]float64, factor int) [][]float64 {
	var out [][]float64
	for i := 0; i < len(grid); i += factor {
		row := grid[i]
		var outRow []float64
		for j := 0; j < len(row); j += factor {
			outRow = append(outRow, row[j])
		}
		out = append(out, outRow)
	}
	return out
}

func maxOf(grid [][]float64) float64 {
	max := 0.0
	first := true
	for _, row := range grid {
		for _, v := range row {
			if first || v > max {
				max = v
				first = false
			}
		}
	}
	return max
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
