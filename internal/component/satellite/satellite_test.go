package satellite

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSatelliteFetcher struct {
	calls int
	img   image.Image
	err   error
}

func (f *fakeSatelliteFetcher) Fetch(ctx context.Context, bbox geomutil.BoundingBox, zoom int) (any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

func newMapContext(t *testing.T, fetcher mapctx.SatelliteFetcher, sizeM int) *mapctx.MapContext {
	return &mapctx.MapContext{
		CenterLat:        48.0,
		CenterLon:        11.0,
		SizeM:            sizeM,
		OutputDir:        t.TempDir(),
		Satellite:        mapctx.SatelliteSettings{DownloadImages: true, ZoomLevel: 16},
		SatelliteFetcher: fetcher,
	}
}

func TestProcessSkippedWhenDownloadDisabled(t *testing.T) {
	fetcher := &fakeSatelliteFetcher{}
	mc := newMapContext(t, fetcher, 2048)
	mc.Satellite.DownloadImages = false

	require.NoError(t, New(nil).Process(context.Background(), mc))
	assert.Equal(t, 0, fetcher.calls)
	assert.Empty(t, mc.Assets.Overview)
}

func TestProcessMissingFetcherIsInvalidInput(t *testing.T) {
	mc := newMapContext(t, nil, 2048)
	err := New(nil).Process(context.Background(), mc)

	var invalidErr *mapctx.InvalidInputError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestProcessReusesOverviewWhenFootprintsMatch(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 1, A: 255})
	fetcher := &fakeSatelliteFetcher{img: img}

	// overviewSizeM = sizeM*2, backgroundSizeM = sizeM + 2*BackgroundDistance
	// equal when sizeM = 2*BackgroundDistance.
	sizeM := 2 * mapctx.BackgroundDistance
	mc := newMapContext(t, fetcher, sizeM)

	require.NoError(t, New(nil).Process(context.Background(), mc))
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, filepath.Join(mc.OutputDir, "satellite", "overview.png"), mc.Assets.Overview)
	assert.Equal(t, filepath.Join(mc.OutputDir, "satellite", "background.png"), mc.Assets.Satellite)
}

func TestProcessFetchesTwiceWhenFootprintsDiffer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fetcher := &fakeSatelliteFetcher{img: img}
	mc := newMapContext(t, fetcher, 2048)

	require.NoError(t, New(nil).Process(context.Background(), mc))
	assert.Equal(t, 2, fetcher.calls)
}

func TestPreviewsReturnsWrittenAssets(t *testing.T) {
	c := New(nil)
	mc := &mapctx.MapContext{Assets: mapctx.Assets{Overview: "a.png", Satellite: "b.png"}}
	assert.Equal(t, []string{"a.png", "b.png"}, c.Previews(mc))
}
