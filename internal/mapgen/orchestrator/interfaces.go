package orchestrator

import (
	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/features"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/structures"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/mapgen/vegetation"
)

// =============================================================================
// Dependency Injection Interfaces
// =============================================================================

// GeologyGenerator produces the bedrock layer
type GeologyGenerator interface {
	GenerateGeology(width, height int, ctx tactical.Context, seed uint32) (*geology.Layer, error)
}

// TopographyGenerator produces the elevation layer
type TopographyGenerator interface {
	GenerateTopography(geo *geology.Layer, ctx tactical.Context, seed uint32, cfg config.Config) (*topography.Layer, error)
}

// HydrologyGenerator produces the water layer
type HydrologyGenerator interface {
	GenerateHydrology(topo *topography.Layer, geo *geology.Layer, ctx tactical.Context, seed uint32, cfg config.Config) (*hydrology.Layer, error)
}

// VegetationGenerator produces the plant layer
type VegetationGenerator interface {
	GenerateVegetation(hydro *hydrology.Layer, topo *topography.Layer, geo *geology.Layer, ctx tactical.Context, seed uint32, cfg config.Config) (*vegetation.Layer, error)
}

// StructuresGenerator produces the built environment layer
type StructuresGenerator interface {
	GenerateStructures(veg *vegetation.Layer, hydro *hydrology.Layer, topo *topography.Layer, ctx tactical.Context, seed uint32, cfg config.Config) (*structures.Layer, error)
}

// FeaturesGenerator produces the gameplay feature layer
type FeaturesGenerator interface {
	GenerateFeatures(in features.Inputs, ctx tactical.Context, seed uint32) (*features.Layer, error)
}

// Default production implementations delegate straight to the layer packages.

type DefaultGeologyGenerator struct{}

func (DefaultGeologyGenerator) GenerateGeology(width, height int, ctx tactical.Context, seed uint32) (*geology.Layer, error) {
	return geology.Generate(width, height, ctx, seed)
}

type DefaultTopographyGenerator struct{}

func (DefaultTopographyGenerator) GenerateTopography(geo *geology.Layer, ctx tactical.Context, seed uint32, cfg config.Config) (*topography.Layer, error) {
	return topography.Generate(geo, ctx, seed, cfg)
}

type DefaultHydrologyGenerator struct{}

func (DefaultHydrologyGenerator) GenerateHydrology(topo *topography.Layer, geo *geology.Layer, ctx tactical.Context, seed uint32, cfg config.Config) (*hydrology.Layer, error) {
	return hydrology.Generate(topo, geo, ctx, seed, cfg)
}

type DefaultVegetationGenerator struct{}

func (DefaultVegetationGenerator) GenerateVegetation(hydro *hydrology.Layer, topo *topography.Layer, geo *geology.Layer, ctx tactical.Context, seed uint32, cfg config.Config) (*vegetation.Layer, error) {
	return vegetation.Generate(hydro, topo, geo, ctx, seed, cfg)
}

type DefaultStructuresGenerator struct{}

func (DefaultStructuresGenerator) GenerateStructures(veg *vegetation.Layer, hydro *hydrology.Layer, topo *topography.Layer, ctx tactical.Context, seed uint32, cfg config.Config) (*structures.Layer, error) {
	return structures.Generate(veg, hydro, topo, ctx, seed, cfg)
}

type DefaultFeaturesGenerator struct{}

func (DefaultFeaturesGenerator) GenerateFeatures(in features.Inputs, ctx tactical.Context, seed uint32) (*features.Layer, error) {
	return features.Generate(in, ctx, seed)
}
