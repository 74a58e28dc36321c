package osm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTagQueriesString(t *testing.T) {
	queries := BuildTagQueries(map[string]any{"landuse": "farmland"})
	assert.Len(t, queries, 1)
	assert.Equal(t, "landuse", queries[0].Key)
	assert.Equal(t, []string{"farmland"}, queries[0].Values)
}

func TestBuildTagQueriesBoolExistence(t *testing.T) {
	queries := BuildTagQueries(map[string]any{"building": true, "disused": false})
	assert.Len(t, queries, 1)
	assert.Equal(t, "building", queries[0].Key)
	assert.Empty(t, queries[0].Values)
}

func TestBuildTagQueriesStringSliceAndAnySlice(t *testing.T) {
	queries := BuildTagQueries(map[string]any{
		"highway": []string{"motorway", "trunk"},
		"surface": []any{"paved", "asphalt"},
	})

	byKey := map[string]TagQuery{}
	for _, q := range queries {
		byKey[q.Key] = q
	}

	assert.Equal(t, []string{"motorway", "trunk"}, byKey["highway"].Values)
	assert.Equal(t, []string{"paved", "asphalt"}, byKey["surface"].Values)
}

func TestTagQueryClause(t *testing.T) {
	assert.Equal(t, `["building"]`, TagQuery{Key: "building"}.Clause())
	assert.Equal(t, `["landuse"="farmland"]`, TagQuery{Key: "landuse", Values: []string{"farmland"}}.Clause())
	assert.Equal(t, `["highway"~"motorway|trunk"]`, TagQuery{Key: "highway", Values: []string{"motorway", "trunk"}}.Clause())
}
