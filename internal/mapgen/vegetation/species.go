package vegetation

import (
	"tacmap-backend/internal/mapgen/tactical"
)

// speciesSpec describes one plantable species within a stratum.
type speciesSpec struct {
	Name      string
	MinAge    float64 // youngest generated specimen, years
	MaxAge    float64 // full growth, years
	MinHeight float64 // feet at minimum size
	MaxHeight float64 // feet at full size
	Variation float64 // 0..1 size spread around the age curve
	IsTree    bool
}

// strataDensity is the expected plant count per tile for each stratum.
type strataDensity map[Stratum]float64

// zoneProfile carries everything needed to populate tiles of a zone kind.
// Zone kinds are tagged variants dispatching through this table.
type zoneProfile struct {
	Subtypes  []string
	Density   strataDensity
	Species   map[Stratum][]speciesSpec
	WetMeadow bool // wet meadows invert the moisture bias
}

var (
	oak      = speciesSpec{Name: "oak", MinAge: 5, MaxAge: 120, MinHeight: 8, MaxHeight: 70, Variation: 0.3, IsTree: true}
	maple    = speciesSpec{Name: "maple", MinAge: 5, MaxAge: 100, MinHeight: 8, MaxHeight: 60, Variation: 0.3, IsTree: true}
	pine     = speciesSpec{Name: "pine", MinAge: 4, MaxAge: 90, MinHeight: 10, MaxHeight: 80, Variation: 0.25, IsTree: true}
	spruce   = speciesSpec{Name: "spruce", MinAge: 4, MaxAge: 110, MinHeight: 10, MaxHeight: 75, Variation: 0.25, IsTree: true}
	birch    = speciesSpec{Name: "birch", MinAge: 3, MaxAge: 60, MinHeight: 6, MaxHeight: 50, Variation: 0.35, IsTree: true}
	willow   = speciesSpec{Name: "willow", MinAge: 3, MaxAge: 70, MinHeight: 6, MaxHeight: 45, Variation: 0.4, IsTree: true}
	cypress  = speciesSpec{Name: "bald cypress", MinAge: 5, MaxAge: 150, MinHeight: 8, MaxHeight: 65, Variation: 0.3, IsTree: true}
	juniper  = speciesSpec{Name: "juniper", MinAge: 4, MaxAge: 80, MinHeight: 3, MaxHeight: 25, Variation: 0.4, IsTree: true}
	mesquite = speciesSpec{Name: "mesquite", MinAge: 3, MaxAge: 60, MinHeight: 4, MaxHeight: 25, Variation: 0.4, IsTree: true}

	hazel      = speciesSpec{Name: "hazel", MinAge: 2, MaxAge: 25, MinHeight: 3, MaxHeight: 12, Variation: 0.4}
	bramble    = speciesSpec{Name: "bramble", MinAge: 1, MaxAge: 10, MinHeight: 2, MaxHeight: 6, Variation: 0.5}
	sagebrush  = speciesSpec{Name: "sagebrush", MinAge: 2, MaxAge: 30, MinHeight: 2, MaxHeight: 7, Variation: 0.4}
	buttonbush = speciesSpec{Name: "buttonbush", MinAge: 1, MaxAge: 20, MinHeight: 3, MaxHeight: 10, Variation: 0.4}
	heather    = speciesSpec{Name: "heather", MinAge: 1, MaxAge: 15, MinHeight: 1, MaxHeight: 3, Variation: 0.4}

	fern       = speciesSpec{Name: "fern", MinAge: 1, MaxAge: 8, MinHeight: 1, MaxHeight: 4, Variation: 0.5}
	wildflower = speciesSpec{Name: "wildflower", MinAge: 1, MaxAge: 3, MinHeight: 0.5, MaxHeight: 3, Variation: 0.6}
	tallgrass  = speciesSpec{Name: "tall grass", MinAge: 1, MaxAge: 4, MinHeight: 2, MaxHeight: 6, Variation: 0.5}
	sedge      = speciesSpec{Name: "sedge", MinAge: 1, MaxAge: 6, MinHeight: 1, MaxHeight: 4, Variation: 0.5}
	thistle    = speciesSpec{Name: "thistle", MinAge: 1, MaxAge: 3, MinHeight: 1, MaxHeight: 5, Variation: 0.5}

	moss       = speciesSpec{Name: "moss", MinAge: 1, MaxAge: 20, MinHeight: 0.05, MaxHeight: 0.2, Variation: 0.3}
	shortgrass = speciesSpec{Name: "short grass", MinAge: 1, MaxAge: 3, MinHeight: 0.2, MaxHeight: 1, Variation: 0.4}
	clover     = speciesSpec{Name: "clover", MinAge: 1, MaxAge: 4, MinHeight: 0.2, MaxHeight: 0.8, Variation: 0.4}
	lichen     = speciesSpec{Name: "lichen", MinAge: 2, MaxAge: 40, MinHeight: 0.02, MaxHeight: 0.1, Variation: 0.3}

	cattail  = speciesSpec{Name: "cattail", MinAge: 1, MaxAge: 5, MinHeight: 3, MaxHeight: 9, Variation: 0.4}
	reed     = speciesSpec{Name: "reed", MinAge: 1, MaxAge: 4, MinHeight: 4, MaxHeight: 12, Variation: 0.4}
	waterlily = speciesSpec{Name: "water lily", MinAge: 1, MaxAge: 6, MinHeight: 0.1, MaxHeight: 0.5, Variation: 0.4}
)

var zoneProfiles = map[ZoneKind]zoneProfile{
	ZoneForest: {
		Subtypes: []string{"temperate_deciduous", "coniferous", "mixed", "boreal"},
		Density: strataDensity{
			StratumTrees:       1.6,
			StratumShrubs:      1.2,
			StratumHerbs:       2.0,
			StratumGroundCover: 3.0,
		},
		Species: map[Stratum][]speciesSpec{
			StratumTrees:       {oak, maple, pine, spruce, birch},
			StratumShrubs:      {hazel, bramble},
			StratumHerbs:       {fern, wildflower},
			StratumGroundCover: {moss, clover},
		},
	},
	ZoneMeadow: {
		Subtypes: []string{"wildflower", "grassland", "alpine", "wet"},
		Density: strataDensity{
			StratumShrubs:      0.3,
			StratumHerbs:       4.0,
			StratumGroundCover: 4.0,
		},
		Species: map[Stratum][]speciesSpec{
			StratumShrubs:      {hazel, heather},
			StratumHerbs:       {wildflower, tallgrass, thistle},
			StratumGroundCover: {shortgrass, clover},
		},
		WetMeadow: true,
	},
	ZoneShrubland: {
		Subtypes: []string{"scrub", "chaparral", "thorn"},
		Density: strataDensity{
			StratumTrees:       0.2,
			StratumShrubs:      2.5,
			StratumHerbs:       1.5,
			StratumGroundCover: 2.0,
		},
		Species: map[Stratum][]speciesSpec{
			StratumTrees:       {juniper, mesquite},
			StratumShrubs:      {sagebrush, bramble, heather},
			StratumHerbs:       {tallgrass, thistle},
			StratumGroundCover: {shortgrass, lichen},
		},
	},
	ZoneWetland: {
		Subtypes: []string{"marsh", "swamp", "bog", "fen"},
		Density: strataDensity{
			StratumTrees:       0.5,
			StratumShrubs:      0.8,
			StratumHerbs:       2.5,
			StratumGroundCover: 2.0,
			StratumAquatic:     2.5,
		},
		Species: map[Stratum][]speciesSpec{
			StratumTrees:       {willow, cypress},
			StratumShrubs:      {buttonbush},
			StratumHerbs:       {sedge, fern},
			StratumGroundCover: {moss},
			StratumAquatic:     {cattail, reed, waterlily},
		},
	},
	ZoneAlpineMeadow: {
		Subtypes: []string{"alpine", "krummholz"},
		Density: strataDensity{
			StratumShrubs:      0.4,
			StratumHerbs:       2.0,
			StratumGroundCover: 3.5,
		},
		Species: map[Stratum][]speciesSpec{
			StratumShrubs:      {heather, juniper},
			StratumHerbs:       {wildflower, sedge},
			StratumGroundCover: {moss, lichen, shortgrass},
		},
	},
	ZoneGrassland: {
		Subtypes: []string{"prairie", "steppe", "savanna"},
		Density: strataDensity{
			StratumTrees:       0.05,
			StratumShrubs:      0.3,
			StratumHerbs:       3.5,
			StratumGroundCover: 4.5,
		},
		Species: map[Stratum][]speciesSpec{
			StratumTrees:       {oak, mesquite},
			StratumShrubs:      {sagebrush, bramble},
			StratumHerbs:       {tallgrass, wildflower},
			StratumGroundCover: {shortgrass, clover},
		},
	},
}

// seasonDensityFactor scales the herb and ground cover strata by season.
var seasonDensityFactor = map[tactical.Season]float64{
	tactical.SeasonSpring: 1.1,
	tactical.SeasonSummer: 1.0,
	tactical.SeasonAutumn: 0.8,
	tactical.SeasonWinter: 0.3,
}

// strataOrder fixes the iteration order over strata; map iteration would
// break determinism.
var strataOrder = []Stratum{StratumTrees, StratumShrubs, StratumHerbs, StratumGroundCover, StratumAquatic}
