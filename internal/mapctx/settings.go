package mapctx

// Parameters collects string and numeric constants shared across
// components.
const (
	ParamField    = "field"
	ParamFields   = "fields"
	ParamBuildings = "buildings"
	ParamTextures = "textures"
	ParamBackground = "background"
	ParamForest   = "forest"
	ParamRoadsPolylines  = "roads_polylines"
	ParamWaterPolylines  = "water_polylines"
	ParamFarmyards = "farmyards"

	PreviewMaximumSize = 2048
	BackgroundDistance = 2048

	ResizeFactor = 8

	FarmlandIDLimit = 254

	PlantsIslandPercent         = 100
	PlantsIslandMinimumSize     = 10
	PlantsIslandMaximumSize     = 200
	PlantsIslandVertexCount     = 30
	PlantsIslandRoundingRadius  = 15

	WaterAddWidth = 2
)

// SharedSettings carries values computed by one component that later
// components need to read, held as an explicit field on MapContext
// rather than any process-global state.
type SharedSettings struct {
	MeshZScalingFactor   float64
	HeightScaleMultiplier float64
	HeightScaleValue     float64
	ChangeHeightScale    bool
}

// DEMSettings configures the Background+DEM component.
type DEMSettings struct {
	AdjustTerrainToGroundLevel bool `json:"adjust_terrain_to_ground_level"`
	Multiplier                 int  `json:"multiplier"`
	MinimumHeightScale         int  `json:"minimum_height_scale"`
	Plateau                    int  `json:"plateau"`
	Ceiling                    int  `json:"ceiling"`
	WaterDepth                 int  `json:"water_depth"`
	BlurRadius                 int  `json:"blur_radius"`
	AddFoundations             bool `json:"add_foundations"`
}

// DefaultDEMSettings returns the standard DEM defaults.
func DefaultDEMSettings() DEMSettings {
	return DEMSettings{
		AdjustTerrainToGroundLevel: true,
		Multiplier:                 1,
		MinimumHeightScale:         255,
		BlurRadius:                 3,
	}
}

// BackgroundSettings configures background terrain/water mesh export.
type BackgroundSettings struct {
	GenerateBackground bool `json:"generate_background"`
	GenerateWater      bool `json:"generate_water"`
	WaterBlurriness    int  `json:"water_blurriness"`
	RemoveCenter       bool `json:"remove_center"`
	// FlattenWater replaces the DEM under the water mask with a single
	// flat surface (mean elevation minus the water-depth drop) before the
	// edge blur runs.
	FlattenWater bool `json:"flatten_water"`
}

func DefaultBackgroundSettings() BackgroundSettings {
	return BackgroundSettings{WaterBlurriness: 20, RemoveCenter: true}
}

// GRLESettings configures the farmlands/plants info-layer rasters.
type GRLESettings struct {
	FarmlandMargin     int      `json:"farmland_margin"`
	AddFarmyards       bool     `json:"add_farmyards"`
	BasePrice          int      `json:"base_price"`
	PriceScale         int      `json:"price_scale"`
	AddGrass           bool     `json:"add_grass"`
	BaseGrass          []string `json:"base_grass"`
	RandomPlants       bool     `json:"random_plants"`
	FillEmptyFarmlands bool     `json:"fill_empty_farmlands"`
}

func DefaultGRLESettings() GRLESettings {
	return GRLESettings{
		BasePrice:  60000,
		PriceScale: 100,
		AddGrass:   true,
		BaseGrass:  []string{"smallDenseMix", "meadow"},
		RandomPlants: true,
	}
}

// I3DSettings configures forest/spline/field generation.
type I3DSettings struct {
	AddTrees            bool `json:"add_trees"`
	ForestDensity       int  `json:"forest_density"`
	TreesRelativeShift  int  `json:"trees_relative_shift"`
	SplineDensity       int  `json:"spline_density"`
	AddReversedSplines  bool `json:"add_reversed_splines"`
	FieldSplines        bool `json:"field_splines"`
}

func DefaultI3DSettings() I3DSettings {
	return I3DSettings{
		AddTrees:           true,
		ForestDensity:      10,
		TreesRelativeShift: 20,
		SplineDensity:      2,
	}
}

// TextureSettings configures the weight-mask drawing pipeline.
type TextureSettings struct {
	Dissolve        bool `json:"dissolve"`
	FieldsPadding   int  `json:"fields_padding"`
	SkipDrains      bool `json:"skip_drains"`
	UseCache        bool `json:"use_cache"`
	UsePreciseTags  bool `json:"use_precise_tags"`
	// OutputSizeM rescales every finished weight mask to this size (in
	// pixels) when it differs from SizeM. Zero disables scaling.
	OutputSizeM int `json:"output_size_m"`
}

func DefaultTextureSettings() TextureSettings {
	return TextureSettings{UseCache: true}
}

// SatelliteSettings configures optional satellite imagery download.
type SatelliteSettings struct {
	DownloadImages bool `json:"download_images"`
	ZoomLevel      int  `json:"zoom_level"`
	Margin         int  `json:"margin"`
}

func DefaultSatelliteSettings() SatelliteSettings {
	return SatelliteSettings{ZoomLevel: 16}
}
