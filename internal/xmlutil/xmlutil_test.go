package xmlutil

import (
	"encoding/xml"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAndGet(t *testing.T) {
	doc := `<map><farmlands><farmland id="1" color="1"/></farmlands></map>`
	root, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "map", root.XMLName.Local)

	farmlands := root.Find("farmlands")
	require.NotNil(t, farmlands)

	farmland := farmlands.Find("farmland")
	require.NotNil(t, farmland)

	id, ok := farmland.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "1", id)

	_, ok = farmland.Get("missing")
	assert.False(t, ok)
}

func TestSetCreatesOrUpdatesAttribute(t *testing.T) {
	n := &Node{}
	n.Set("color", "1")
	n.Set("color", "2")
	v, ok := n.Get("color")
	require.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Len(t, n.Attrs, 1)
}

func TestCreateChildAndFindAll(t *testing.T) {
	root := &Node{}
	root.CreateChild("farmland", map[string]string{"id": "1"})
	root.CreateChild("farmland", map[string]string{"id": "2"})

	all := root.FindAll("farmland")
	assert.Len(t, all, 2)
}

func TestFindMultiLevelPath(t *testing.T) {
	doc := `<map><config><farmlands><farmland id="7"/></farmlands></config></map>`
	root, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	farmland := root.Find("config/farmlands/farmland")
	require.NotNil(t, farmland)
	id, _ := farmland.Get("id")
	assert.Equal(t, "7", id)
}

func TestFindMissingPathReturnsNil(t *testing.T) {
	doc := `<map><config/></map>`
	root, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Nil(t, root.Find("config/missing"))
}

func TestWriteAndParseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.xml")

	root := &Node{XMLName: xml.Name{Local: "map"}}
	root.Set("version", "7")
	root.CreateChild("farmlands", map[string]string{"maxFarmlands": "254"})

	require.NoError(t, root.Write(path))

	parsed, err := Parse(path)
	require.NoError(t, err)
	v, ok := parsed.Get("version")
	require.True(t, ok)
	assert.Equal(t, "7", v)

	farmlands := parsed.Find("farmlands")
	require.NotNil(t, farmlands)
	maxFarmlands, ok := farmlands.Get("maxFarmlands")
	require.True(t, ok)
	assert.Equal(t, "254", maxFarmlands)
}
