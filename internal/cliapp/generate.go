package cliapp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/mapgen/internal/component/background"
	"github.com/MeKo-Tech/mapgen/internal/component/config"
	"github.com/MeKo-Tech/mapgen/internal/component/grle"
	"github.com/MeKo-Tech/mapgen/internal/component/i3d"
	"github.com/MeKo-Tech/mapgen/internal/component/road"
	"github.com/MeKo-Tech/mapgen/internal/component/satellite"
	"github.com/MeKo-Tech/mapgen/internal/component/texture"
	"github.com/MeKo-Tech/mapgen/internal/game"
	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/MeKo-Tech/mapgen/internal/osm"
	"github.com/MeKo-Tech/mapgen/internal/pipeline"
	"github.com/MeKo-Tech/mapgen/internal/provider"
	"github.com/MeKo-Tech/mapgen/internal/tilecache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a map package",
	Long:  `Generate a complete farming-simulator map package for a lat/lon center, side length, and rotation angle.`,
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("game", "FS25", "Target game profile (FS22, FS25)")
	generateCmd.Flags().Float64("lat", 0, "Center latitude, in degrees")
	generateCmd.Flags().Float64("lon", 0, "Center longitude, in degrees")
	generateCmd.Flags().Int("size", 2048, "Map side length in meters")
	generateCmd.Flags().Int("rotation", 0, "Rotation angle in degrees")

	generateCmd.Flags().String("dtm-provider", "flat", "DTM source (flat, file)")
	generateCmd.Flags().String("dtm-file", "", "16-bit grayscale PNG heightmap, required when --dtm-provider=file")
	generateCmd.Flags().Float64("dtm-elevation", 0, "Constant elevation in meters, used when --dtm-provider=flat")
	generateCmd.Flags().String("osm-file", "", "Local GeoJSON FeatureCollection to use instead of a live Overpass query")
	generateCmd.Flags().String("cache", "", "SQLite cache file for DTM/satellite fetches (disabled when empty)")

	generateCmd.Flags().Bool("satellite", false, "Download satellite overview/background imagery")
	generateCmd.Flags().String("satellite-file", "", "Local image file to use instead of a live satellite provider")

	generateCmd.Flags().String("dem-settings", "", "DEM settings, JSON-merged over the game profile's defaults")
	generateCmd.Flags().String("background-settings", "", "Background settings, JSON-merged over the game profile's defaults")
	generateCmd.Flags().String("grle-settings", "", "GRLE settings, JSON-merged over the game profile's defaults")
	generateCmd.Flags().String("i3d-settings", "", "I3D settings, JSON-merged over the game profile's defaults")
	generateCmd.Flags().String("texture-settings", "", "Texture settings, JSON-merged over the game profile's defaults")
	generateCmd.Flags().String("satellite-settings", "", "Satellite settings, JSON-merged over the game profile's defaults")

	bindFlags := []string{
		"game", "lat", "lon", "size", "rotation",
		"dtm-provider", "dtm-file", "dtm-elevation", "osm-file", "cache",
		"satellite", "satellite-file",
		"dem-settings", "background-settings", "grle-settings", "i3d-settings",
		"texture-settings", "satellite-settings",
	}
	for _, name := range bindFlags {
		if err := viper.BindPFlag(name, generateCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	gameCode := viper.GetString("game")
	profile, ok := game.ByCode(gameCode)
	if !ok {
		return &mapctx.InvalidInputError{Field: "game", Msg: fmt.Sprintf("unsupported game profile %q", gameCode)}
	}

	lat := viper.GetFloat64("lat")
	lon := viper.GetFloat64("lon")
	sizeM := viper.GetInt("size")
	rotation := viper.GetInt("rotation")
	outputDir := viper.GetString("out")

	if sizeM <= 0 {
		return &mapctx.InvalidInputError{Field: "size", Msg: "must be positive"}
	}
	if lat < -90 || lat > 90 {
		return &mapctx.InvalidInputError{Field: "lat", Msg: "must be between -90 and 90"}
	}
	if lon < -180 || lon > 180 {
		return &mapctx.InvalidInputError{Field: "lon", Msg: "must be between -180 and 180"}
	}

	infoLayers, err := mapctx.LoadInfoLayerStore(outputDir)
	if err != nil {
		return err
	}

	mc := &mapctx.MapContext{
		CenterLat:   lat,
		CenterLon:   lon,
		SizeM:       sizeM,
		RotationDeg: rotation,
		Game:        profile,
		OutputDir:   outputDir,
		InfoLayers:  infoLayers,
		DEM:         mapctx.DefaultDEMSettings(),
		Background:  mapctx.DefaultBackgroundSettings(),
		GRLE:        mapctx.DefaultGRLESettings(),
		I3D:         mapctx.DefaultI3DSettings(),
		Texture:     mapctx.DefaultTextureSettings(),
		Satellite:   mapctx.DefaultSatelliteSettings(),
	}

	if err := mergeJSONSetting(viper.GetString("dem-settings"), &mc.DEM); err != nil {
		return err
	}
	if err := mergeJSONSetting(viper.GetString("background-settings"), &mc.Background); err != nil {
		return err
	}
	if err := mergeJSONSetting(viper.GetString("grle-settings"), &mc.GRLE); err != nil {
		return err
	}
	if err := mergeJSONSetting(viper.GetString("i3d-settings"), &mc.I3D); err != nil {
		return err
	}
	if err := mergeJSONSetting(viper.GetString("texture-settings"), &mc.Texture); err != nil {
		return err
	}
	if err := mergeJSONSetting(viper.GetString("satellite-settings"), &mc.Satellite); err != nil {
		return err
	}

	mc.Satellite.DownloadImages = mc.Satellite.DownloadImages || viper.GetBool("satellite")

	if err := wireFetchers(mc); err != nil {
		return err
	}

	components := pipeline.Components{
		Satellite:  satellite.New(logger),
		Texture:    texture.New(logger),
		Background: background.New(logger),
		GRLE:       grle.New(logger),
		I3D:        i3d.New(logger),
		Config:     config.New(logger),
		Road:       road.New(logger),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received interrupt signal, cancelling")
		cancel()
	}()

	logger.Info("starting map generation",
		"game", profile.Code, "lat", lat, "lon", lon, "size_m", sizeM,
		"rotation_deg", rotation, "out", outputDir)

	if err := pipeline.Run(ctx, mc, components, reportProgress, logger); err != nil {
		return err
	}

	logger.Info("map generation complete", "out", outputDir)
	return nil
}

func reportProgress(name string, pct int) {
	logger.Info("progress", "stage", name, "percent", pct)
}

// mergeJSONSetting decodes raw (if non-empty) over dst, leaving the game
// profile's defaults in dst untouched for any field raw doesn't mention.
func mergeJSONSetting(raw string, dst any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return &mapctx.InvalidInputError{Field: "settings", Msg: err.Error()}
	}
	return nil
}

// wireFetchers builds the OSM/DTM/satellite fetchers a generate run needs
// from its provider flags. Real DTM/satellite HTTP provider clients are
// out of scope for this module (spec Non-goals); only local-file-backed
// and synthetic fetchers are built in-process, see internal/provider.
func wireFetchers(mc *mapctx.MapContext) error {
	var cache *tilecache.Cache
	if path := viper.GetString("cache"); path != "" {
		c, err := tilecache.Open(path)
		if err != nil {
			return err
		}
		cache = c
	}

	if osmFile := viper.GetString("osm-file"); osmFile != "" {
		mc.OSMFetcher = &provider.FileOSM{Path: osmFile}
	} else {
		mc.OSMFetcher = osm.NewFetcher(osm.DefaultConfig())
	}

	switch dtmProvider := viper.GetString("dtm-provider"); dtmProvider {
	case "", "flat":
		flat := &provider.FlatDTM{ElevationM: viper.GetFloat64("dtm-elevation"), CellSizeM: 1}
		mc.DTMFetcher = wrapDTMCache(flat, cache)
	case "file":
		dtmFile := viper.GetString("dtm-file")
		if dtmFile == "" {
			return &mapctx.InvalidInputError{Field: "dtm-file", Msg: "required when --dtm-provider=file"}
		}
		mc.DTMFetcher = &provider.FileDTM{Path: dtmFile, CellSizeM: 1}
	default:
		return &mapctx.InvalidInputError{Field: "dtm-provider", Msg: fmt.Sprintf("unsupported DTM provider %q", dtmProvider)}
	}

	if mc.Satellite.DownloadImages {
		satFile := viper.GetString("satellite-file")
		if satFile == "" {
			return &mapctx.InvalidInputError{Field: "satellite-file", Msg: "required when satellite download is enabled (no live satellite provider is bundled)"}
		}
		mc.SatelliteFetcher = &provider.FileSatellite{Path: satFile}
	}

	return nil
}

func wrapDTMCache(inner *provider.FlatDTM, cache *tilecache.Cache) mapctx.DTMFetcher {
	if cache == nil {
		return inner
	}
	return &tilecache.CachedDTMFetcher{Inner: inner, Cache: cache}
}
