package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByCodeCaseInsensitive(t *testing.T) {
	p, ok := ByCode("fs25")
	assert.True(t, ok)
	assert.Equal(t, "FS25", p.Code)

	_, ok = ByCode("unknown")
	assert.False(t, ok)
}

func TestFS25Paths(t *testing.T) {
	p, ok := ByCode("FS25")
	assert.True(t, ok)

	assert.Equal(t, "base/map/map.xml", p.MapXMLPath("base"))
	assert.Equal(t, "base/map/data/dem.png", p.DEMPath("base"))
	assert.Equal(t, "base/map/data", p.WeightsDirPath("base"))
	assert.Equal(t, "base/map/config/farmlands.xml", p.FarmlandsXMLPath("base"))
	assert.Equal(t, "base/map/config/environment.xml", p.EnvironmentXMLPath("base"))
	assert.Equal(t, "base/map/overview.dds", p.OverviewPath("base"))
	assert.Equal(t, "base/map/licensePlates", p.LicensePlatesPath("base"))
	assert.Equal(t, "base/map/splines.i3d", p.SplinesPath("base"))
	assert.Equal(t, "base/map/data/infoLayer_farmlands.png", p.FarmlandsPNGPath("base"))
	assert.Equal(t, "base/map/data/densityMap_fruits.png", p.DensityMapFruitsPath("base"))

	assert.True(t, p.I3DProcessing)
	assert.True(t, p.PlantsProcessing)
	assert.True(t, p.Dissolve)
}

func TestFS22HasNoOptionalPaths(t *testing.T) {
	p, ok := ByCode("FS22")
	assert.True(t, ok)

	assert.Empty(t, p.FarmlandsXMLPath("base"))
	assert.Empty(t, p.EnvironmentXMLPath("base"))
	assert.Empty(t, p.OverviewPath("base"))
	assert.Empty(t, p.LicensePlatesPath("base"))
	assert.False(t, p.I3DProcessing)
	assert.False(t, p.PlantsProcessing)
}
