package geomutil

import (
	"math"

	"github.com/paulmach/orb"
)

// smartInterpolationStepM is the target resample spacing for a road
// polyline that has no sharp turns.
const smartInterpolationStepM = 5.0

// smartInterpolationSharpAngleDeg is the interior-angle threshold above
// which a road is considered "sharp" and left untouched rather than
// resampled.
const smartInterpolationSharpAngleDeg = 30.0

// SmartInterpolation resamples a road polyline at roughly 5 m spacing,
// unless any interior angle along it exceeds 30 degrees, in which case
// the polyline is returned unchanged to preserve a sharp turn's exact
// geometry.
func SmartInterpolation(line []orb.Point) []orb.Point {
	if len(line) < 3 || maxInteriorAngleDeg(line) > smartInterpolationSharpAngleDeg {
		return line
	}
	return resampleAtStep(line, smartInterpolationStepM)
}

// maxInteriorAngleDeg returns the largest deviation from a straight line
// (180 degrees) at any interior vertex, in degrees, where 0 means
// perfectly straight and larger values mean sharper turns.
func maxInteriorAngleDeg(line []orb.Point) float64 {
	max := 0.0
	for i := 1; i < len(line)-1; i++ {
		a, b, c := line[i-1], line[i], line[i+1]
		v1x, v1y := b[0]-a[0], b[1]-a[1]
		v2x, v2y := c[0]-b[0], c[1]-b[1]
		l1, l2 := math.Hypot(v1x, v1y), math.Hypot(v2x, v2y)
		if l1 == 0 || l2 == 0 {
			continue
		}
		cos := (v1x*v2x + v1y*v2y) / (l1 * l2)
		cos = clamp(cos, -1, 1)
		deviation := math.Acos(cos) * 180 / math.Pi
		if deviation > max {
			max = deviation
		}
	}
	return max
}

// resampleAtStep walks a polyline's arc length and emits points spaced
// stepM apart, keeping the original start and end points.
func resampleAtStep(line []orb.Point, stepM float64) []orb.Point {
	total := polylineLength(line)
	if total <= stepM {
		return line
	}
	count := int(math.Round(total / stepM))
	if count < 1 {
		count = 1
	}
	out := make([]orb.Point, 0, count+1)
	out = append(out, line[0])

	segIdx := 0
	segStart := 0.0
	segLen := dist(line[0], line[1])
	traveled := 0.0
	for i := 1; i <= count; i++ {
		target := total * float64(i) / float64(count)
		for traveled+segLen < target && segIdx < len(line)-2 {
			traveled += segLen
			segStart = traveled
			segIdx++
			segLen = dist(line[segIdx], line[segIdx+1])
		}
		t := 0.0
		if segLen > 0 {
			t = (target - segStart) / segLen
		}
		t = clamp(t, 0, 1)
		a, b := line[segIdx], line[segIdx+1]
		out = append(out, orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t})
	}
	out[len(out)-1] = line[len(line)-1]
	return out
}

// SplitLongLineSurfaces splits a road polyline into consecutive
// sub-polylines, each no longer than maxLenM, so a single ribbon
// segment never exceeds the engine's allowed UV-v range.
func SplitLongLineSurfaces(line []orb.Point, maxLenM float64) [][]orb.Point {
	if len(line) < 2 || maxLenM <= 0 {
		return [][]orb.Point{line}
	}
	if polylineLength(line) <= maxLenM {
		return [][]orb.Point{line}
	}

	var out [][]orb.Point
	current := []orb.Point{line[0]}
	acc := 0.0
	for i := 1; i < len(line); i++ {
		segLen := dist(line[i-1], line[i])
		if acc+segLen > maxLenM && len(current) > 1 {
			out = append(out, current)
			current = []orb.Point{line[i-1]}
			acc = 0
		}
		current = append(current, line[i])
		acc += segLen
	}
	if len(current) > 1 {
		out = append(out, current)
	}
	return out
}

func polylineLength(line []orb.Point) float64 {
	total := 0.0
	for i := 1; i < len(line); i++ {
		total += dist(line[i-1], line[i])
	}
	return total
}

func dist(a, b orb.Point) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
