package game

import (
	"encoding/json"
	"fmt"
	"os"
)

// TextureSchema is the ordered list of texture layers a title's map
// template expects, loaded from its TextureSchemaFile.
type TextureSchema []LayerSpec

// LoadTextureSchema reads and decodes a texture schema file.
func LoadTextureSchema(path string) (TextureSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture schema %s: %w", path, err)
	}
	var schema TextureSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing texture schema %s: %w", path, err)
	}
	return schema, nil
}

// InfoLayerEntry describes one fixed-shape raster the GRLE component must
// allocate.
type InfoLayerEntry struct {
	Name             string  `json:"name"`
	HeightMultiplier float64 `json:"height_multiplier"`
	WidthMultiplier  float64 `json:"width_multiplier"`
	Channels         int     `json:"channels"`
	DataType         string  `json:"data_type"`
}

// GRLESchema is the ordered list of info-layer rasters a title expects,
// loaded from its GRLESchemaFile.
type GRLESchema []InfoLayerEntry

func LoadGRLESchema(path string) (GRLESchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GRLE schema %s: %w", path, err)
	}
	var schema GRLESchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing GRLE schema %s: %w", path, err)
	}
	return schema, nil
}

// TreeSpec describes one forest species entry a title's tree schema
// offers for scatter placement.
type TreeSpec struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

type TreeSchema []TreeSpec

func LoadTreeSchema(path string) (TreeSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree schema %s: %w", path, err)
	}
	var schema TreeSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing tree schema %s: %w", path, err)
	}
	return schema, nil
}

// ByUsage returns the first layer declared with the given Usage.
func (s TextureSchema) ByUsage(usage string) (LayerSpec, bool) {
	for _, l := range s {
		if l.Usage == usage {
			return l, true
		}
	}
	return LayerSpec{}, false
}

// FirstBackground returns the first layer flagged Background in schema
// declaration order, the fallback get_item_with_fallback uses when no
// layer matches the requested Usage.
func (s TextureSchema) FirstBackground() (LayerSpec, bool) {
	for _, l := range s {
		if l.Background {
			return l, true
		}
	}
	return LayerSpec{}, false
}

// GetWithFallback looks a layer up by Usage, falling back to the first
// Background-flagged layer in declaration order.
func (s TextureSchema) GetWithFallback(usage string) (LayerSpec, bool) {
	if l, ok := s.ByUsage(usage); ok {
		return l, ok
	}
	return s.FirstBackground()
}
