package game

import (
	"fmt"
	"path/filepath"
)

// LayerSpec describes one texture layer: which OSM tags populate it, how
// it should be drawn, and where its weight mask lands on disk.
type LayerSpec struct {
	Name  string            `json:"name"`
	Count int               `json:"count"`

	Tags        map[string]any `json:"tags,omitempty"`
	PreciseTags map[string]any `json:"precise_tags,omitempty"`

	Width         *int   `json:"width,omitempty"`
	Color         [3]int `json:"color"`
	ExcludeWeight bool   `json:"exclude_weight,omitempty"`
	Priority      *int   `json:"priority,omitempty"`
	InfoLayer     string `json:"info_layer,omitempty"`
	Usage         string `json:"usage,omitempty"`
	Background    bool   `json:"background,omitempty"`
	Invisible     bool   `json:"invisible,omitempty"`
	Procedural    []string `json:"procedural,omitempty"`
	Border        *int   `json:"border,omitempty"`
	PreciseUsage  string `json:"precise_usage,omitempty"`
	AreaType      string `json:"area_type,omitempty"`
	AreaWater     bool   `json:"area_water,omitempty"`
	Indoor        bool   `json:"indoor,omitempty"`
	MergeInto     string `json:"merge_into,omitempty"`
	BuildingCategory string `json:"building_category,omitempty"`
	External      bool   `json:"external,omitempty"`
	RoadTexture   string `json:"road_texture,omitempty"`
}

// Path returns the path to the layer's first texture weight mask.
func (l LayerSpec) Path(weightsDir string) string {
	idx := ""
	if l.Count > 0 {
		idx = "01"
	}
	postfix := "_weight"
	if l.ExcludeWeight {
		postfix = ""
	}
	return filepath.Join(weightsDir, fmt.Sprintf("%s%s%s.png", l.Name, idx, postfix))
}

// PathN returns the path to the layer's n-th (1-based) texture weight
// mask, used when Count > 1.
func (l LayerSpec) PathN(weightsDir string, n int) string {
	postfix := "_weight"
	if l.ExcludeWeight {
		postfix = ""
	}
	return filepath.Join(weightsDir, fmt.Sprintf("%s%02d%s.png", l.Name, n, postfix))
}

// inconsistentNames lists layers whose weight-mask files don't follow the
// name+NN+_weight.png pattern.
var inconsistentNames = map[string]bool{
	"forestRockRoots": true,
	"waterPuddle":     true,
}

// IsInconsistentlyNamed reports whether the layer's weight files must be
// discovered by prefix match rather than by the numbered pattern.
func (l LayerSpec) IsInconsistentlyNamed() bool {
	return inconsistentNames[l.Name]
}
