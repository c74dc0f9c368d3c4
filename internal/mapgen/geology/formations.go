package geology

import (
	"tacmap-backend/internal/mapgen/tactical"
)

// FormationType identifies a rock formation family
type FormationType string

const (
	FormationCarbonate   FormationType = "carbonate"
	FormationGranitic    FormationType = "granitic"
	FormationVolcanic    FormationType = "volcanic"
	FormationMetamorphic FormationType = "metamorphic"
	FormationClastic     FormationType = "clastic"
	FormationEvaporite   FormationType = "evaporite"
)

// Permeability classifies how readily water passes through a formation
type Permeability string

const (
	PermeabilityImpermeable Permeability = "impermeable"
	PermeabilityLow         Permeability = "low"
	PermeabilityMedium      Permeability = "medium"
	PermeabilityHigh        Permeability = "high"
)

// TerrainFeature is a weathering product carried on a geology tile
type TerrainFeature string

const (
	FeatureSinkhole        TerrainFeature = "sinkhole"
	FeatureKarstPinnacle   TerrainFeature = "karst_pinnacle"
	FeatureSolutionPit     TerrainFeature = "solution_pit"
	FeatureCaveEntrance    TerrainFeature = "cave_entrance"
	FeatureTor             TerrainFeature = "tor"
	FeatureBoulderField    TerrainFeature = "boulder_field"
	FeatureExfoliationDome TerrainFeature = "exfoliation_dome"
	FeatureLavaTube        TerrainFeature = "lava_tube"
	FeatureColumnarJoint   TerrainFeature = "columnar_joint"
	FeatureScoriaMound     TerrainFeature = "scoria_mound"
	FeatureFoliationRidge  TerrainFeature = "foliation_ridge"
	FeatureQuartzVein      TerrainFeature = "quartz_vein"
	FeatureHoodoo          TerrainFeature = "hoodoo"
	FeatureLedge           TerrainFeature = "ledge"
	FeatureTalusSlope      TerrainFeature = "talus_slope"
	FeatureSaltPan         TerrainFeature = "salt_pan"
	FeatureGypsumBed       TerrainFeature = "gypsum_bed"
	FeatureDissolutionPit  TerrainFeature = "dissolution_pit"
)

// FormationProperties describes the physical behavior of a formation family.
// Formation variants are tagged values dispatching through this table, not an
// interface hierarchy.
type FormationProperties struct {
	// ErosionResistance in [0,1]; higher survives differential erosion better.
	ErosionResistance float64
	// WeatheringRate in [0,1]; drives soil production and feature frequency.
	WeatheringRate float64
	// FractureTendency in [0,1]; granitic and metamorphic rock fracture more.
	FractureTendency float64
	// TextureIntensity scales the geological texture layer of the topography.
	TextureIntensity float64
	Permeability     Permeability
	// HostsSprings marks aquifer-capable formations.
	HostsSprings bool
	// WeatheringProducts are the terrain features this formation can shed.
	WeatheringProducts []TerrainFeature
}

var formationTable = map[FormationType]FormationProperties{
	FormationCarbonate: {
		ErosionResistance:  0.5,
		WeatheringRate:     0.7,
		FractureTendency:   0.5,
		TextureIntensity:   0.8,
		Permeability:       PermeabilityHigh,
		HostsSprings:       true,
		WeatheringProducts: []TerrainFeature{FeatureSinkhole, FeatureKarstPinnacle, FeatureSolutionPit, FeatureCaveEntrance},
	},
	FormationGranitic: {
		ErosionResistance:  0.9,
		WeatheringRate:     0.3,
		FractureTendency:   0.8,
		TextureIntensity:   0.6,
		Permeability:       PermeabilityImpermeable,
		HostsSprings:       false,
		WeatheringProducts: []TerrainFeature{FeatureTor, FeatureBoulderField, FeatureExfoliationDome},
	},
	FormationVolcanic: {
		ErosionResistance:  0.7,
		WeatheringRate:     0.5,
		FractureTendency:   0.6,
		TextureIntensity:   0.7,
		Permeability:       PermeabilityMedium,
		HostsSprings:       true,
		WeatheringProducts: []TerrainFeature{FeatureLavaTube, FeatureColumnarJoint, FeatureScoriaMound, FeatureCaveEntrance},
	},
	FormationMetamorphic: {
		ErosionResistance:  0.8,
		WeatheringRate:     0.4,
		FractureTendency:   0.7,
		TextureIntensity:   0.5,
		Permeability:       PermeabilityLow,
		HostsSprings:       false,
		WeatheringProducts: []TerrainFeature{FeatureFoliationRidge, FeatureQuartzVein, FeatureTalusSlope},
	},
	FormationClastic: {
		ErosionResistance:  0.3,
		WeatheringRate:     0.8,
		FractureTendency:   0.3,
		TextureIntensity:   0.3,
		Permeability:       PermeabilityMedium,
		HostsSprings:       true,
		WeatheringProducts: []TerrainFeature{FeatureHoodoo, FeatureLedge, FeatureTalusSlope},
	},
	FormationEvaporite: {
		ErosionResistance:  0.2,
		WeatheringRate:     0.9,
		FractureTendency:   0.2,
		TextureIntensity:   0.2,
		Permeability:       PermeabilityLow,
		HostsSprings:       false,
		WeatheringProducts: []TerrainFeature{FeatureSaltPan, FeatureGypsumBed, FeatureDissolutionPit},
	},
}

// Properties returns the behavior table entry for a formation.
func Properties(f FormationType) FormationProperties {
	return formationTable[f]
}

// positiveReliefFeatures stick up out of the ground; soil cannot accumulate
// on them.
var positiveReliefFeatures = map[TerrainFeature]bool{
	FeatureKarstPinnacle:   true,
	FeatureTor:             true,
	FeatureBoulderField:    true,
	FeatureExfoliationDome: true,
	FeatureColumnarJoint:   true,
	FeatureScoriaMound:     true,
	FeatureFoliationRidge:  true,
	FeatureHoodoo:          true,
	FeatureLedge:           true,
}

// IsPositiveRelief reports whether a feature rises above the surface.
func IsPositiveRelief(f TerrainFeature) bool {
	return positiveReliefFeatures[f]
}

var mountainFormations = []FormationType{FormationCarbonate, FormationGranitic, FormationVolcanic, FormationMetamorphic}

// biomeFormations maps each biome to the rock families it can expose.
var biomeFormations = map[tactical.Biome][]FormationType{
	tactical.BiomeMountain:    mountainFormations,
	tactical.BiomeForest:      {FormationGranitic, FormationMetamorphic, FormationClastic, FormationCarbonate},
	tactical.BiomePlains:      {FormationClastic, FormationCarbonate},
	tactical.BiomeSwamp:       {FormationClastic, FormationCarbonate},
	tactical.BiomeDesert:      {FormationClastic, FormationEvaporite, FormationVolcanic},
	tactical.BiomeCoastal:     {FormationClastic, FormationCarbonate, FormationVolcanic},
	tactical.BiomeUnderground: {FormationCarbonate, FormationGranitic, FormationMetamorphic},
}

// CandidateFormations returns the rock families available to a context.
// Alpine maps always draw from the mountain set regardless of biome.
func CandidateFormations(ctx tactical.Context) []FormationType {
	if ctx.Elevation == tactical.ZoneAlpine {
		return mountainFormations
	}
	return biomeFormations[ctx.Biome]
}
