package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/osm"
	"github.com/paulmach/orb/geojson"
)

// FileOSM implements mapctx.OSMFetcher by reading a local GeoJSON
// FeatureCollection instead of querying Overpass, for the `--osm-file`
// offline mode.
type FileOSM struct {
	Path       string
	collection *geojson.FeatureCollection
}

func (f *FileOSM) load() error {
	if f.collection != nil {
		return nil
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("reading OSM file %s: %w", f.Path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return fmt.Errorf("parsing OSM file %s: %w", f.Path, err)
	}
	f.collection = fc
	return nil
}

// Fetch returns every feature in the file whose properties satisfy at
// least one of the tag clauses built from tags, matching the same
// any-clause-matches semantics as osm.Fetcher.Fetch's live Overpass
// query, and whose geometry falls inside bbox.
func (f *FileOSM) Fetch(ctx context.Context, bbox geomutil.BoundingBox, tags map[string]any) (any, error) {
	if err := f.load(); err != nil {
		return nil, err
	}
	queries := osm.BuildTagQueries(tags)

	var out []osm.Feature
	for _, gf := range f.collection.Features {
		if !matchesAny(gf.Properties, queries) {
			continue
		}
		geom := gf.Geometry
		if geom == nil || !bbox.Contains(geom.Bound().Center()[1], geom.Bound().Center()[0]) {
			continue
		}
		out = append(out, osm.Feature{
			ID:       fmt.Sprintf("%v", gf.ID),
			Tags:     stringTags(gf.Properties),
			Geometry: geom,
		})
	}
	return out, nil
}

func matchesAny(props geojson.Properties, queries []osm.TagQuery) bool {
	if len(queries) == 0 {
		return false
	}
	for _, q := range queries {
		v, ok := props[q.Key]
		if !ok {
			continue
		}
		if len(q.Values) == 0 {
			return true
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		for _, want := range q.Values {
			if s == want {
				return true
			}
		}
	}
	return false
}

func stringTags(props geojson.Properties) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
