package mapctx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// InfoLayerStore is the two-scope JSON document persisted at
// <out>/map/infolayers.json: "textures" records field/farmyard/road/water
// polygon and polyline geometry the Texture component discovers, and
// "background" records values the Background component needs to pass to
// later components. GRLE, I3D, and Road read it; Texture and Background
// write it.
type InfoLayerStore struct {
	Textures   map[string]any `json:"textures"`
	Background map[string]any `json:"background"`
}

// NewInfoLayerStore returns an empty store ready to be populated.
func NewInfoLayerStore() InfoLayerStore {
	return InfoLayerStore{
		Textures:   map[string]any{},
		Background: map[string]any{},
	}
}

func infoLayersPath(outputDir string) string {
	return filepath.Join(outputDir, "map", "infolayers.json")
}

// Load reads the info-layers document for a map output directory. A
// missing file is not an error: it returns an empty store, since a fresh
// run has nothing on disk before Texture writes.
func LoadInfoLayerStore(outputDir string) (InfoLayerStore, error) {
	path := infoLayersPath(outputDir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewInfoLayerStore(), nil
	}
	if err != nil {
		return InfoLayerStore{}, fmt.Errorf("reading info layers %s: %w", path, err)
	}
	var store InfoLayerStore
	if err := json.Unmarshal(data, &store); err != nil {
		return InfoLayerStore{}, fmt.Errorf("parsing info layers %s: %w", path, err)
	}
	if store.Textures == nil {
		store.Textures = map[string]any{}
	}
	if store.Background == nil {
		store.Background = map[string]any{}
	}
	return store, nil
}

// Save writes the info-layers document, creating the map directory if
// needed.
func (s InfoLayerStore) Save(outputDir string) error {
	path := infoLayersPath(outputDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &FormatWriteError{Path: path, Err: err}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return &FormatWriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FormatWriteError{Path: path, Err: err}
	}
	return nil
}

// SetTexture records a value under the "textures" scope for a given key
// (one of fields, farmyards, roads_polylines, water_polylines).
func (s InfoLayerStore) SetTexture(key string, value any) {
	s.Textures[key] = value
}

// GetTexture reads a value from the "textures" scope, reporting whether
// the key was present.
func (s InfoLayerStore) GetTexture(key string) (any, bool) {
	v, ok := s.Textures[key]
	return v, ok
}

// SetBackground records a value under the "background" scope.
func (s InfoLayerStore) SetBackground(key string, value any) {
	s.Background[key] = value
}

// GetBackground reads a value from the "background" scope.
func (s InfoLayerStore) GetBackground(key string) (any, bool) {
	v, ok := s.Background[key]
	return v, ok
}
