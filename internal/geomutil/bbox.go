// Package geomutil provides the lat/lon <-> pixel projection, bounding
// box, and polygon helpers shared by every component that needs to place
// OSM geometry or DTM samples onto the map's raster grid.
package geomutil

import "math"

const metersPerDegreeLat = 111320.0

// BoundingBox is a lat/lon rectangle: MinLon, MinLat, MaxLon, MaxLat.
type BoundingBox [4]float64

// FromCenter returns the bounding box of a square of the given side
// length in meters centered on (lat, lon).
func FromCenter(lat, lon float64, sizeM float64) BoundingBox {
	halfM := sizeM / 2
	dLat := halfM / metersPerDegreeLat
	cosLat := math.Cos(lat * math.Pi / 180.0)
	dLon := halfM / (metersPerDegreeLat * cosLat)
	return BoundingBox{lon - dLon, lat - dLat, lon + dLon, lat + dLat}
}

func (b BoundingBox) MinLon() float64 { return b[0] }
func (b BoundingBox) MinLat() float64 { return b[1] }
func (b BoundingBox) MaxLon() float64 { return b[2] }
func (b BoundingBox) MaxLat() float64 { return b[3] }

func (b BoundingBox) CenterLat() float64 { return (b[1] + b[3]) / 2 }
func (b BoundingBox) CenterLon() float64 { return (b[0] + b[2]) / 2 }

// Contains reports whether a point falls inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lon >= b[0] && lon <= b[2] && lat >= b[1] && lat <= b[3]
}

// Expand returns a copy of b grown by marginM meters on every side.
func (b BoundingBox) Expand(marginM float64) BoundingBox {
	dLat := marginM / metersPerDegreeLat
	cosLat := math.Cos(b.CenterLat() * math.Pi / 180.0)
	dLon := marginM / (metersPerDegreeLat * cosLat)
	return BoundingBox{b[0] - dLon, b[1] - dLat, b[2] + dLon, b[3] + dLat}
}
