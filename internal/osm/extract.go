package osm

import (
	"fmt"

	"github.com/MeKo-Christian/go-overpass"
	"github.com/paulmach/orb"
)

// ExtractFeatures converts an Overpass result into Feature values.
func ExtractFeatures(result *overpass.Result) []Feature {
	if result == nil {
		return nil
	}

	memberWayIDs := make(map[int64]bool)
	for _, rel := range result.Relations {
		if rel.Tags["type"] != "multipolygon" {
			continue
		}
		for _, member := range rel.Members {
			if member.Type == "way" && member.Way != nil {
				memberWayIDs[member.Way.ID] = true
			}
		}
	}

	var features []Feature
	for _, way := range result.Ways {
		if memberWayIDs[way.ID] {
			continue
		}
		if f := featureFromWay(way); f != nil {
			features = append(features, *f)
		}
	}

	for _, rel := range result.Relations {
		var f *Feature
		if rel.Tags["type"] == "multipolygon" {
			f = featureFromMultipolygon(rel)
		} else {
			f = featureFromRelation(rel)
		}
		if f != nil {
			features = append(features, *f)
		}
	}

	return features
}

func featureFromWay(way *overpass.Way) *Feature {
	if way == nil || len(way.Geometry) == 0 {
		return nil
	}
	points := make(orb.LineString, len(way.Geometry))
	for i, pt := range way.Geometry {
		points[i] = orb.Point{pt.Lon, pt.Lat}
	}

	var geom orb.Geometry = points
	if len(points) > 2 && points[0] == points[len(points)-1] {
		geom = orb.Polygon{orb.Ring(points)}
	}

	return &Feature{
		ID:       fmt.Sprintf("way/%d", way.ID),
		Tags:     way.Tags,
		Geometry: geom,
	}
}

func featureFromRelation(rel *overpass.Relation) *Feature {
	if rel == nil {
		return nil
	}
	var rings []orb.Ring
	for _, member := range rel.Members {
		if member.Way == nil || len(member.Way.Geometry) == 0 {
			continue
		}
		points := make(orb.Ring, len(member.Way.Geometry))
		for i, pt := range member.Way.Geometry {
			points[i] = orb.Point{pt.Lon, pt.Lat}
		}
		rings = append(rings, points)
	}
	if len(rings) == 0 {
		return nil
	}
	polygon := orb.Polygon(rings)
	return &Feature{
		ID:       fmt.Sprintf("relation/%d", rel.ID),
		Tags:     rel.Tags,
		Geometry: polygon,
	}
}

// featureFromMultipolygon assembles a relation's outer/inner member ways
// into a single orb.Polygon. The go-overpass client only embeds way
// geometry on a member when the API response carries it inline; member
// ways referenced only by ID are skipped.
func featureFromMultipolygon(rel *overpass.Relation) *Feature {
	if rel == nil {
		return nil
	}
	var outer []orb.Ring
	var inner []orb.Ring

	for _, member := range rel.Members {
		if member.Type != "way" || member.Way == nil || len(member.Way.Geometry) == 0 {
			continue
		}
		points := make(orb.LineString, len(member.Way.Geometry))
		for i, pt := range member.Way.Geometry {
			points[i] = orb.Point{pt.Lon, pt.Lat}
		}
		if points[0] != points[len(points)-1] {
			points = append(points, points[0])
		}
		ring := orb.Ring(points)
		if member.Role == "inner" {
			inner = append(inner, ring)
		} else {
			outer = append(outer, ring)
		}
	}

	if len(outer) == 0 {
		return nil
	}
	rings := append(orb.Polygon{outer[0]}, inner...)

	return &Feature{
		ID:       fmt.Sprintf("relation/%d", rel.ID),
		Tags:     rel.Tags,
		Geometry: rings,
	}
}
