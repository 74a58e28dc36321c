package geomutil

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
)

// FitOptions configures FitPolygonIntoBounds and FitLineStringIntoBounds.
type FitOptions struct {
	MarginPx   float64 // polygon-only; buffers the ring outward before clipping
	AngleDeg   float64 // rotates about Center before clipping
	BorderPx   float64 // shrinks the canvas bounds inward on every side
	CanvasSize float64 // canvas side length in pixels
	Center     orb.Point
	XShift, YShift float64
}

// FitPolygonIntoBounds rotates, margins, and clips a polygon ring (already
// in pixel space) to the map canvas.
func FitPolygonIntoBounds(ring orb.Ring, opts FitOptions) (orb.Ring, error) {
	if opts.AngleDeg != 0 {
		ring = rotateRing(ring, opts.AngleDeg, opts.Center)
	}
	ring = translateRing(ring, opts.XShift, opts.YShift)
	if opts.MarginPx != 0 {
		ring = bufferRing(ring, opts.MarginPx)
	}

	bound := canvasBound(opts)
	clipped := clip.Ring(bound, ring)
	if len(clipped) == 0 {
		return nil, fmt.Errorf("polygon has no points after fitting into bounds")
	}
	return clipped, nil
}

// FitLineStringIntoBounds rotates and clips a linestring (already in pixel
// space) to the map canvas.
func FitLineStringIntoBounds(ls orb.LineString, opts FitOptions) (orb.LineString, error) {
	if opts.AngleDeg != 0 {
		ls = rotateLineString(ls, opts.AngleDeg, opts.Center)
	}
	ls = translateLineString(ls, opts.XShift, opts.YShift)

	bound := canvasBound(opts)
	clipped := clip.LineString(bound, ls)
	if len(clipped) == 0 {
		return nil, fmt.Errorf("linestring has no points after fitting into bounds")
	}
	// A linestring can clip into multiple disjoint segments; the longest
	// one is the object's primary fit, on the assumption that a single
	// coherent object survives the bounds intersection.
	longest := clipped[0]
	longestLen := planar.Length(longest)
	for _, seg := range clipped[1:] {
		if l := planar.Length(seg); l > longestLen {
			longest, longestLen = seg, l
		}
	}
	return longest, nil
}

func canvasBound(opts FitOptions) orb.Bound {
	min := opts.BorderPx
	max := opts.CanvasSize - opts.BorderPx
	return orb.Bound{Min: orb.Point{min, min}, Max: orb.Point{max, max}}
}

func rotatePoint(p, center orb.Point, angleDeg float64) orb.Point {
	rad := -angleDeg * math.Pi / 180.0
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx, dy := p[0]-center[0], p[1]-center[1]
	return orb.Point{
		center[0] + dx*cos - dy*sin,
		center[1] + dx*sin + dy*cos,
	}
}

func rotateRing(ring orb.Ring, angleDeg float64, center orb.Point) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		out[i] = rotatePoint(p, center, angleDeg)
	}
	return out
}

func rotateLineString(ls orb.LineString, angleDeg float64, center orb.Point) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[i] = rotatePoint(p, center, angleDeg)
	}
	return out
}

func translateRing(ring orb.Ring, dx, dy float64) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		out[i] = orb.Point{p[0] + dx, p[1] + dy}
	}
	return out
}

func translateLineString(ls orb.LineString, dx, dy float64) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[i] = orb.Point{p[0] + dx, p[1] + dy}
	}
	return out
}

// bufferRing grows a ring outward by distance along the direction from
// the ring's centroid to each vertex. This is a simplified substitute for a full polygon
// offset; adequate for
// the small pixel margins (farmland/field padding) this pipeline applies.
func bufferRing(ring orb.Ring, distance float64) orb.Ring {
	n := len(ring)
	if n < 3 {
		return ring
	}
	centroid, _ := planar.CentroidArea(orb.Polygon{ring})
	out := make(orb.Ring, n)
	for i, p := range ring {
		dx, dy := p[0]-centroid[0], p[1]-centroid[1]
		length := math.Hypot(dx, dy)
		if length == 0 {
			out[i] = p
			continue
		}
		out[i] = orb.Point{p[0] + dx/length*distance, p[1] + dy/length*distance}
	}
	return out
}

// PolygonCenter returns the centroid of a pixel-space ring as integer
// pixel coordinates.
func PolygonCenter(ring orb.Ring) (x, y int) {
	centroid, _ := planar.CentroidArea(orb.Polygon{ring})
	return int(centroid[0]), int(centroid[1])
}

// AbsoluteToRelative converts an absolute pixel point to coordinates
// relative to a center point.
func AbsoluteToRelative(point, center [2]int) [2]int {
	return [2]int{point[0] - center[0], point[1] - center[1]}
}

// TopLeftToCenterOrigin converts a point from top-left image coordinates
// to coordinates relative to the map's own center.
func TopLeftToCenterOrigin(point [2]int, scaledSize int) [2]int {
	half := scaledSize / 2
	return [2]int{point[0] - half, point[1] - half}
}

// InterpolatePoints inserts numPoints extra points evenly spaced between
// each consecutive pair of an existing polyline.
func InterpolatePoints(polyline []orb.Point, numPoints int) []orb.Point {
	if len(polyline) == 0 || numPoints < 1 {
		return polyline
	}
	out := make([]orb.Point, 0, len(polyline)*(numPoints+1))
	for i := 0; i < len(polyline)-1; i++ {
		p1, p2 := polyline[i], polyline[i+1]
		out = append(out, p1)
		for j := 1; j <= numPoints; j++ {
			t := float64(j) / float64(numPoints+1)
			out = append(out, orb.Point{
				p1[0] + (p2[0]-p1[0])*t,
				p1[1] + (p2[1]-p1[1])*t,
			})
		}
	}
	out = append(out, polyline[len(polyline)-1])
	return out
}
