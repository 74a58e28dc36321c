package osm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MeKo-Christian/go-overpass"
	"github.com/MeKo-Tech/mapgen/internal/geomutil"
)

// Config configures the Overpass client.
type Config struct {
	Endpoint    string
	Workers     int
	RetryConfig *overpass.RetryConfig
	HTTPClient  *http.Client
}

// DefaultConfig returns sensible defaults for the public Overpass API.
func DefaultConfig() Config {
	retry := overpass.DefaultRetryConfig()
	return Config{
		Endpoint:    "https://overpass-api.de/api/interpreter",
		Workers:     2,
		RetryConfig: &retry,
		HTTPClient:  http.DefaultClient,
	}
}

// Fetcher queries Overpass for the features a LayerSpec's tags describe
// within a bounding box, implementing mapctx.OSMFetcher.
type Fetcher struct {
	client overpass.Client
}

// NewFetcher builds a Fetcher from a Config, defaulting any unset field.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://overpass-api.de/api/interpreter"
	}
	if cfg.Workers < 1 {
		cfg.Workers = 2
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	var client overpass.Client
	if cfg.RetryConfig != nil {
		client = overpass.NewWithRetry(cfg.Endpoint, cfg.Workers, cfg.HTTPClient, *cfg.RetryConfig)
	} else {
		client = overpass.NewWithSettings(cfg.Endpoint, cfg.Workers, cfg.HTTPClient)
	}
	return &Fetcher{client: client}
}

// Fetch implements mapctx.OSMFetcher: it builds a tag-filtered Overpass QL
// query for the given bounding box, executes it, and returns []Feature.
func (f *Fetcher) Fetch(ctx context.Context, bbox geomutil.BoundingBox, tags map[string]any) (any, error) {
	queries := BuildTagQueries(tags)
	if len(queries) == 0 {
		return []Feature{}, nil
	}
	query := buildQuery(bbox, queries)

	result, err := f.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("overpass query failed: %w", err)
	}

	return ExtractFeatures(&result), nil
}

// buildQuery renders an Overpass QL query matching ways and relations
// against every tag clause independently (a way matches if it satisfies
// ANY one clause; multiple key/value pairs widen rather than narrow the
// match).
func buildQuery(bbox geomutil.BoundingBox, queries []TagQuery) string {
	bboxStr := fmt.Sprintf("%.7f,%.7f,%.7f,%.7f", bbox.MinLat(), bbox.MinLon(), bbox.MaxLat(), bbox.MaxLon())

	query := "[out:json][timeout:180];\n(\n"
	for _, q := range queries {
		query += fmt.Sprintf("  way%s(%s);\n", q.Clause(), bboxStr)
		query += fmt.Sprintf("  relation%s(%s);\n", q.Clause(), bboxStr)
	}
	query += ");\nout geom qt;"
	return query
}
