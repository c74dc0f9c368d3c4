package tactical

// Biome classifies the overall environment of a battlemap
type Biome string

const (
	BiomeForest      Biome = "forest"
	BiomeMountain    Biome = "mountain"
	BiomePlains      Biome = "plains"
	BiomeSwamp       Biome = "swamp"
	BiomeDesert      Biome = "desert"
	BiomeCoastal     Biome = "coastal"
	BiomeUnderground Biome = "underground"
)

// ElevationZone places the map within a larger vertical band
type ElevationZone string

const (
	ZoneLowland   ElevationZone = "lowland"
	ZoneFoothills ElevationZone = "foothills"
	ZoneHighland  ElevationZone = "highland"
	ZoneAlpine    ElevationZone = "alpine"
)

// Hydrology classifies the dominant water regime
type Hydrology string

const (
	HydrologyArid     Hydrology = "arid"
	HydrologySeasonal Hydrology = "seasonal"
	HydrologyStream   Hydrology = "stream"
	HydrologyRiver    Hydrology = "river"
	HydrologyLake     Hydrology = "lake"
	HydrologyCoastal  Hydrology = "coastal"
	HydrologyWetland  Hydrology = "wetland"
)

// Development classifies how settled the area is
type Development string

const (
	DevelopmentWilderness Development = "wilderness"
	DevelopmentFrontier   Development = "frontier"
	DevelopmentRural      Development = "rural"
	DevelopmentSettled    Development = "settled"
	DevelopmentUrban      Development = "urban"
	DevelopmentRuins      Development = "ruins"
)

// Season affects vegetation and water behavior
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// Biomes lists all biome values in declaration order.
var Biomes = []Biome{
	BiomeForest, BiomeMountain, BiomePlains, BiomeSwamp,
	BiomeDesert, BiomeCoastal, BiomeUnderground,
}

// ElevationZones lists all elevation zone values in declaration order.
var ElevationZones = []ElevationZone{
	ZoneLowland, ZoneFoothills, ZoneHighland, ZoneAlpine,
}

// Hydrologies lists all hydrology values in declaration order.
var Hydrologies = []Hydrology{
	HydrologyArid, HydrologySeasonal, HydrologyStream, HydrologyRiver,
	HydrologyLake, HydrologyCoastal, HydrologyWetland,
}

// Developments lists all development values in declaration order.
var Developments = []Development{
	DevelopmentWilderness, DevelopmentFrontier, DevelopmentRural,
	DevelopmentSettled, DevelopmentUrban, DevelopmentRuins,
}

// Seasons lists all season values in declaration order.
var Seasons = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}

// Context is the validated tactical context tuple that biases every layer of
// the generation pipeline. Construct via New or DeriveFromSeed; the pipeline
// never observes an invalid combination.
type Context struct {
	Biome       Biome         `json:"biome"`
	Elevation   ElevationZone `json:"elevation"`
	Hydrology   Hydrology     `json:"hydrology"`
	Development Development   `json:"development"`
	Season      Season        `json:"season"`
}
