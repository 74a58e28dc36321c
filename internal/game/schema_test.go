package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSchema(t *testing.T, schema TextureSchema) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	data, err := json.Marshal(schema)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadTextureSchemaRoundTrip(t *testing.T) {
	schema := TextureSchema{
		{Name: "forest", Usage: "forest"},
		{Name: "grass", Background: true},
	}
	path := writeSchema(t, schema)

	loaded, err := LoadTextureSchema(path)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "forest", loaded[0].Name)
}

func TestLoadTextureSchemaMissingFile(t *testing.T) {
	_, err := LoadTextureSchema("/nonexistent/schema.json")
	assert.Error(t, err)
}

func TestByUsageAndFallback(t *testing.T) {
	schema := TextureSchema{
		{Name: "forest", Usage: "forest"},
		{Name: "grass", Background: true},
	}

	l, ok := schema.ByUsage("forest")
	require.True(t, ok)
	assert.Equal(t, "forest", l.Name)

	_, ok = schema.ByUsage("missing")
	assert.False(t, ok)

	fallback, ok := schema.GetWithFallback("missing")
	require.True(t, ok)
	assert.Equal(t, "grass", fallback.Name)

	direct, ok := schema.GetWithFallback("forest")
	require.True(t, ok)
	assert.Equal(t, "forest", direct.Name)
}

func TestFirstBackgroundNoneFound(t *testing.T) {
	schema := TextureSchema{{Name: "forest", Usage: "forest"}}
	_, ok := schema.FirstBackground()
	assert.False(t, ok)
}
