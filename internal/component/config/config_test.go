package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/xmlutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMapXML(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	doc := `<map title="old"><spawnPoints><spawnPoint posX="5" posZ="5"/></spawnPoints><property basePrice="0" priceScale="0"/></map>`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestProcessPatchesMapXML(t *testing.T) {
	dir := t.TempDir()
	profile := game.FS25
	path := profile.MapXMLPath(dir)
	writeMapXML(t, path)

	mc := &mapctx.MapContext{
		OutputDir: dir,
		Game:      profile,
		GRLE:      mapctx.DefaultGRLESettings(),
	}

	c := New(nil)
	require.NoError(t, c.Process(context.Background(), mc))

	root, err := xmlutil.Parse(path)
	require.NoError(t, err)

	title, ok := root.Get("title")
	require.True(t, ok)
	assert.Equal(t, "FS25 generated map", title)

	spawn := root.Find("spawnPoints").Find("spawnPoint")
	posX, _ := spawn.Get("posX")
	assert.Equal(t, "0", posX)

	props := root.Find("property")
	basePrice, _ := props.Get("basePrice")
	assert.Equal(t, "60000", basePrice)
}

func TestProcessMissingMapXML(t *testing.T) {
	dir := t.TempDir()
	mc := &mapctx.MapContext{
		OutputDir: dir,
		Game:      game.FS25,
		GRLE:      mapctx.DefaultGRLESettings(),
	}
	c := New(nil)
	err := c.Process(context.Background(), mc)
	assert.Error(t, err)

	var invariantErr *mapctx.InternalInvariantError
	assert.ErrorAs(t, err, &invariantErr)
}

func TestComponentName(t *testing.T) {
	assert.Equal(t, "config", New(nil).Name())
}
