// Package game defines the per-title map layout (FS22, FS25, ...): which
// paths a generated package writes to, which schema files drive the
// Texture/GRLE/I3D components, and which optional processing stages a
// title supports.
package game

import (
	"path/filepath"
	"strings"
)

// Profile describes one farming-simulator title's map package layout and
// which optional processing stages it supports. Titles are plain data,
// looked up by code from a fixed table.
type Profile struct {
	Code string

	DEMMultiplier      int
	AdditionalDEMName  string
	TextureSchemaFile  string
	GRLESchemaFile     string
	TreeSchemaFile     string
	BuildingsSchemaFile string

	I3DProcessing         bool
	EnvironmentProcessing bool
	FogProcessing         bool
	PlantsProcessing      bool
	Dissolve              bool
	MeshProcessing        bool

	// layout functions, parameterized per title since FS22 and FS25 place
	// their map directories differently.
	mapXML       func(mapDir string) string
	dem          func(mapDir string) string
	weightsDir   func(mapDir string) string
	i3d          func(mapDir string) string
	farmlandsXML func(mapDir string) string
	envXML       func(mapDir string) string
	overview     func(mapDir string) string
	licensePlates func(mapDir string) string
}

func (p Profile) MapXMLPath(mapDir string) string { return p.mapXML(mapDir) }
func (p Profile) DEMPath(mapDir string) string    { return p.dem(mapDir) }
func (p Profile) WeightsDirPath(mapDir string) string { return p.weightsDir(mapDir) }
func (p Profile) I3DPath(mapDir string) string    { return p.i3d(mapDir) }

func (p Profile) FarmlandsXMLPath(mapDir string) string {
	if p.farmlandsXML == nil {
		return ""
	}
	return p.farmlandsXML(mapDir)
}

func (p Profile) EnvironmentXMLPath(mapDir string) string {
	if p.envXML == nil {
		return ""
	}
	return p.envXML(mapDir)
}

func (p Profile) OverviewPath(mapDir string) string {
	if p.overview == nil {
		return ""
	}
	return p.overview(mapDir)
}

func (p Profile) LicensePlatesPath(mapDir string) string {
	if p.licensePlates == nil {
		return ""
	}
	return p.licensePlates(mapDir)
}

func (p Profile) SplinesPath(mapDir string) string {
	return filepath.Join(filepath.Dir(p.I3DPath(mapDir)), "splines.i3d")
}

func (p Profile) FarmlandsPNGPath(mapDir string) string {
	return filepath.Join(p.WeightsDirPath(mapDir), "infoLayer_farmlands.png")
}

func (p Profile) DensityMapFruitsPath(mapDir string) string {
	return filepath.Join(p.WeightsDirPath(mapDir), "densityMap_fruits.png")
}

func (p Profile) EnvironmentPNGPath(mapDir string) string {
	return filepath.Join(p.WeightsDirPath(mapDir), "infoLayer_environment.png")
}

func (p Profile) IndoorMaskPNGPath(mapDir string) string {
	return filepath.Join(p.WeightsDirPath(mapDir), "infoLayer_indoorMask.png")
}

// FS22 ships no I3D/GRLE/Road schema support in this package; only the
// Texture and Background components target it.
var FS22 = Profile{
	Code:        "FS22",
	DEMMultiplier: 2,
	TextureSchemaFile: "fs22-texture-schema.json",

	mapXML:     func(mapDir string) string { return filepath.Join(mapDir, "maps", "map", "map.xml") },
	dem:        func(mapDir string) string { return filepath.Join(mapDir, "maps", "map", "data", "map_dem.png") },
	weightsDir: func(mapDir string) string { return filepath.Join(mapDir, "maps", "map", "data") },
	i3d:        func(mapDir string) string { return filepath.Join(mapDir, "maps", "map", "map.i3d") },
}

var FS25 = Profile{
	Code:                "FS25",
	DEMMultiplier:       2,
	AdditionalDEMName:   "unprocessedHeightMap.png",
	TextureSchemaFile:   "fs25-texture-schema.json",
	GRLESchemaFile:      "fs25-grle-schema.json",
	TreeSchemaFile:      "fs25-tree-schema.json",
	BuildingsSchemaFile: "fs25-buildings-schema.json",

	I3DProcessing:         true,
	EnvironmentProcessing: true,
	FogProcessing:         true,
	PlantsProcessing:      true,
	Dissolve:              true,
	MeshProcessing:        true,

	mapXML:        func(mapDir string) string { return filepath.Join(mapDir, "map", "map.xml") },
	dem:           func(mapDir string) string { return filepath.Join(mapDir, "map", "data", "dem.png") },
	weightsDir:    func(mapDir string) string { return filepath.Join(mapDir, "map", "data") },
	i3d:           func(mapDir string) string { return filepath.Join(mapDir, "map", "map.i3d") },
	farmlandsXML:  func(mapDir string) string { return filepath.Join(mapDir, "map", "config", "farmlands.xml") },
	envXML:        func(mapDir string) string { return filepath.Join(mapDir, "map", "config", "environment.xml") },
	overview:      func(mapDir string) string { return filepath.Join(mapDir, "map", "overview.dds") },
	licensePlates: func(mapDir string) string { return filepath.Join(mapDir, "map", "licensePlates") },
}

// ByCode looks up a title by its case-insensitive code, matching
// Game.from_code's lookup without the __subclasses__ reflection.
func ByCode(code string) (Profile, bool) {
	for _, p := range []Profile{FS22, FS25} {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}
	return Profile{}, false
}
