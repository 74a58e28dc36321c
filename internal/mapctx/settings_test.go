package mapctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDEMSettings(t *testing.T) {
	s := DefaultDEMSettings()
	assert.True(t, s.AdjustTerrainToGroundLevel)
	assert.Equal(t, 1, s.Multiplier)
	assert.Equal(t, 255, s.MinimumHeightScale)
	assert.Equal(t, 3, s.BlurRadius)
	assert.Equal(t, 0, s.WaterDepth)
}

func TestDefaultBackgroundSettings(t *testing.T) {
	s := DefaultBackgroundSettings()
	assert.Equal(t, 20, s.WaterBlurriness)
	assert.True(t, s.RemoveCenter)
	assert.False(t, s.GenerateBackground)
}

func TestDefaultGRLESettings(t *testing.T) {
	s := DefaultGRLESettings()
	assert.Equal(t, 60000, s.BasePrice)
	assert.Equal(t, 100, s.PriceScale)
	assert.True(t, s.AddGrass)
	assert.Equal(t, []string{"smallDenseMix", "meadow"}, s.BaseGrass)
	assert.True(t, s.RandomPlants)
	assert.False(t, s.AddFarmyards)
}

func TestDefaultI3DSettings(t *testing.T) {
	s := DefaultI3DSettings()
	assert.True(t, s.AddTrees)
	assert.Equal(t, 10, s.ForestDensity)
	assert.Equal(t, 20, s.TreesRelativeShift)
	assert.Equal(t, 2, s.SplineDensity)
}

func TestDefaultTextureSettings(t *testing.T) {
	s := DefaultTextureSettings()
	assert.True(t, s.UseCache)
	assert.False(t, s.Dissolve)
	assert.Zero(t, s.OutputSizeM)
}

func TestDefaultSatelliteSettings(t *testing.T) {
	s := DefaultSatelliteSettings()
	assert.Equal(t, 16, s.ZoomLevel)
	assert.False(t, s.DownloadImages)
}
