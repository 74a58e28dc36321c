package provider

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/mapgen/internal/geomutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSatelliteFetchDecodesPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overview.png")

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	fetcher := &FileSatellite{Path: path}
	img, err := fetcher.Fetch(context.Background(), geomutil.BoundingBox{}, 14)
	require.NoError(t, err)

	decoded, ok := img.(image.Image)
	require.True(t, ok)
	assert.Equal(t, 4, decoded.Bounds().Dx())
}

func TestFileSatelliteFetchMissingFile(t *testing.T) {
	fetcher := &FileSatellite{Path: "/nonexistent/overview.png"}
	_, err := fetcher.Fetch(context.Background(), geomutil.BoundingBox{}, 14)
	assert.Error(t, err)
}
