package tilecache

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/MeKo-Tech/mapgen/internal/geomutil"
)

// dtmFetcher is the subset of mapctx.DTMFetcher this package depends on,
// avoided as a direct import to keep tilecache free of a dependency on
// mapctx.
type dtmFetcher interface {
	Fetch(ctx context.Context, bbox geomutil.BoundingBox) ([][]float64, float64, error)
}

// CachedDTMFetcher wraps a DTMFetcher with a content-addressed cache keyed
// by the requested bounding box, so repeated runs over the same region
// skip the external provider entirely.
type CachedDTMFetcher struct {
	Inner dtmFetcher
	Cache *Cache
}

const dtmNamespace = "dtm"

type dtmPayload struct {
	Elevations [][]float64
	CellSizeM  float64
}

// Fetch implements mapctx.DTMFetcher.
func (f *CachedDTMFetcher) Fetch(ctx context.Context, bbox geomutil.BoundingBox) ([][]float64, float64, error) {
	key := Key(fmt.Sprintf("%.7f,%.7f,%.7f,%.7f", bbox[0], bbox[1], bbox[2], bbox[3]))

	if raw, ok, err := f.Cache.Get(dtmNamespace, key); err == nil && ok {
		var payload dtmPayload
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&payload); err == nil {
			return payload.Elevations, payload.CellSizeM, nil
		}
	}

	elevations, cellSizeM, err := f.Inner.Fetch(ctx, bbox)
	if err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(dtmPayload{Elevations: elevations, CellSizeM: cellSizeM}); err == nil {
		_ = f.Cache.Put(dtmNamespace, key, buf.Bytes())
	}

	return elevations, cellSizeM, nil
}
