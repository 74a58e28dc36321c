// Package osm fetches OpenStreetMap features over the Overpass API for a
// LayerSpec's tag query.
package osm

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Feature is one OSM way or relation matched by a tag query, carrying its
// geometry in lat/lon space (not yet projected to pixels) plus its tags
// for downstream building-category/area-type decisions.
type Feature struct {
	ID       string
	Tags     map[string]string
	Geometry orb.Geometry
}

// TagQuery is a single "key"="value" or "key"~"v1|v2" Overpass filter
// clause, built from a LayerSpec.Tags/PreciseTags entry.
type TagQuery struct {
	Key    string
	Values []string // empty means "key exists, any value"
}

// BuildTagQueries converts a LayerSpec-style tags map into TagQuery
// clauses. A string value becomes a single-value match, a []string (or
// []any of strings) becomes an alternation, and a bool true becomes a
// bare existence filter.
func BuildTagQueries(tags map[string]any) []TagQuery {
	queries := make([]TagQuery, 0, len(tags))
	for key, raw := range tags {
		switch v := raw.(type) {
		case string:
			queries = append(queries, TagQuery{Key: key, Values: []string{v}})
		case bool:
			if v {
				queries = append(queries, TagQuery{Key: key})
			}
		case []string:
			queries = append(queries, TagQuery{Key: key, Values: v})
		case []any:
			values := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					values = append(values, s)
				}
			}
			queries = append(queries, TagQuery{Key: key, Values: values})
		}
	}
	return queries
}

// Clause renders the Overpass QL filter fragment for this query, e.g.
// ["landuse"="farmland"] or ["highway"~"motorway|trunk"] or ["building"].
func (q TagQuery) Clause() string {
	if len(q.Values) == 0 {
		return fmt.Sprintf(`["%s"]`, q.Key)
	}
	if len(q.Values) == 1 {
		return fmt.Sprintf(`["%s"="%s"]`, q.Key, q.Values[0])
	}
	alt := q.Values[0]
	for _, v := range q.Values[1:] {
		alt += "|" + v
	}
	return fmt.Sprintf(`["%s"~"%s"]`, q.Key, alt)
}
