// Package orchestrator runs the six-layer generation pipeline in order and
// assembles the final tile array. Layer outputs are owned here; layers
// receive read-only references to earlier results and never mutate them.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tacmap-backend/internal/errors"
	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/features"
	"tacmap-backend/internal/mapgen/seed"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/metrics"
	"tacmap-backend/internal/rng"
)

// Per-layer seed multipliers. Each layer derives its sub-seed as
// master * multiplier so layers draw from different random streams for
// most seeds; a master seed of 0 gives every layer the sub-seed 0.
const (
	geologySeedMul    = 0x9e3779b1
	topographySeedMul = 0x85ebca77
	hydrologySeedMul  = 0xc2b2ae3d
	vegetationSeedMul = 0x27d4eb2f
	structuresSeedMul = 0x165667b1
	featuresSeedMul   = 0xd3a2646d
)

// GeneratorService orchestrates battlemap generation
type GeneratorService struct {
	geology    GeologyGenerator
	topography TopographyGenerator
	hydrology  HydrologyGenerator
	vegetation VegetationGenerator
	structures StructuresGenerator
	features   FeaturesGenerator

	logger    zerolog.Logger
	collector *metrics.GenerationCollector
}

// Option configures the GeneratorService
type Option func(*GeneratorService)

// WithGeologyGenerator sets a custom geology generator (for testing)
func WithGeologyGenerator(g GeologyGenerator) Option {
	return func(s *GeneratorService) { s.geology = g }
}

// WithTopographyGenerator sets a custom topography generator (for testing)
func WithTopographyGenerator(g TopographyGenerator) Option {
	return func(s *GeneratorService) { s.topography = g }
}

// WithHydrologyGenerator sets a custom hydrology generator (for testing)
func WithHydrologyGenerator(g HydrologyGenerator) Option {
	return func(s *GeneratorService) { s.hydrology = g }
}

// WithVegetationGenerator sets a custom vegetation generator (for testing)
func WithVegetationGenerator(g VegetationGenerator) Option {
	return func(s *GeneratorService) { s.vegetation = g }
}

// WithStructuresGenerator sets a custom structures generator (for testing)
func WithStructuresGenerator(g StructuresGenerator) Option {
	return func(s *GeneratorService) { s.structures = g }
}

// WithFeaturesGenerator sets a custom features generator (for testing)
func WithFeaturesGenerator(g FeaturesGenerator) Option {
	return func(s *GeneratorService) { s.features = g }
}

// WithLogger injects the logging sink.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *GeneratorService) { s.logger = logger }
}

// WithMetrics injects the prometheus collector.
func WithMetrics(c *metrics.GenerationCollector) Option {
	return func(s *GeneratorService) { s.collector = c }
}

// NewGeneratorService creates a new generator service
func NewGeneratorService(opts ...Option) *GeneratorService {
	s := &GeneratorService{
		geology:    DefaultGeologyGenerator{},
		topography: DefaultTopographyGenerator{},
		hydrology:  DefaultHydrologyGenerator{},
		vegetation: DefaultVegetationGenerator{},
		structures: DefaultStructuresGenerator{},
		features:   DefaultFeaturesGenerator{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs the full pipeline and assembles the map. Either a complete
// map or an error comes back; no partial output is observable.
func (s *GeneratorService) Generate(ctx context.Context, settings Settings) (*GeneratedMap, error) {
	started := time.Now()
	result, err := s.generate(ctx, settings)
	s.collector.ObserveGeneration(time.Since(started).Seconds(), err)
	return result, err
}

func (s *GeneratorService) generate(ctx context.Context, settings Settings) (*GeneratedMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if settings.Width < MinDimension || settings.Width > MaxDimension ||
		settings.Height < MinDimension || settings.Height > MaxDimension {
		return nil, errors.ErrDimensionsOutOfRange
	}

	if !settings.Seed.Set {
		return nil, errors.ErrSeedInvalid
	}
	seedResult := seed.Validate(settings.Seed.Input)
	if !seedResult.Valid {
		return nil, errors.Wrap(errors.ErrSeedInvalid, "seed validation failed", seedResult.Err)
	}
	masterSeed := seedResult.Normalized

	cfg := config.Default()
	if settings.Config != nil {
		cfg = *settings.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tacCtx, err := s.resolveContext(settings, masterSeed)
	if err != nil {
		return nil, err
	}

	cellSize := settings.CellSize
	if cellSize == 0 {
		cellSize = DefaultCellSize
	}

	logger := s.logger.With().
		Uint32("seed", masterSeed).
		Int("width", settings.Width).
		Int("height", settings.Height).
		Str("biome", string(tacCtx.Biome)).
		Logger()
	logger.Info().Msg("starting map generation")

	layers := &LayerOutputs{}

	// Layer 0: geology
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stepStart := time.Now()
	layers.Geology, err = s.geology.GenerateGeology(settings.Width, settings.Height, tacCtx, masterSeed*geologySeedMul)
	s.observe("geology", stepStart, logger)
	if err != nil {
		return nil, errors.WrapLayer("geology", err)
	}

	// Layer 1: topography
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stepStart = time.Now()
	layers.Topography, err = s.topography.GenerateTopography(layers.Geology, tacCtx, masterSeed*topographySeedMul, cfg)
	s.observe("topography", stepStart, logger)
	if err != nil {
		return nil, errors.WrapLayer("topography", err)
	}

	// Layer 2: hydrology
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stepStart = time.Now()
	layers.Hydrology, err = s.hydrology.GenerateHydrology(layers.Topography, layers.Geology, tacCtx, masterSeed*hydrologySeedMul, cfg)
	s.observe("hydrology", stepStart, logger)
	if err != nil {
		return nil, errors.WrapLayer("hydrology", err)
	}

	// Layer 3: vegetation
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stepStart = time.Now()
	layers.Vegetation, err = s.vegetation.GenerateVegetation(layers.Hydrology, layers.Topography, layers.Geology, tacCtx, masterSeed*vegetationSeedMul, cfg)
	s.observe("vegetation", stepStart, logger)
	if err != nil {
		return nil, errors.WrapLayer("vegetation", err)
	}

	// Layer 4: structures
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stepStart = time.Now()
	layers.Structures, err = s.structures.GenerateStructures(layers.Vegetation, layers.Hydrology, layers.Topography, tacCtx, masterSeed*structuresSeedMul, cfg)
	s.observe("structures", stepStart, logger)
	if err != nil {
		return nil, errors.WrapLayer("structures", err)
	}

	// Layer 5: features
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stepStart = time.Now()
	layers.Features, err = s.features.GenerateFeatures(features.Inputs{
		Geology:    layers.Geology,
		Topography: layers.Topography,
		Hydrology:  layers.Hydrology,
		Vegetation: layers.Vegetation,
		Structures: layers.Structures,
	}, tacCtx, masterSeed*featuresSeedMul)
	s.observe("features", stepStart, logger)
	if err != nil {
		return nil, errors.WrapLayer("features", err)
	}

	result := &GeneratedMap{
		ID:       mapID(masterSeed, settings.Width, settings.Height),
		Name:     settings.Name,
		Width:    settings.Width,
		Height:   settings.Height,
		CellSize: cellSize,
		Seed:     masterSeed,
		Metadata: Metadata{
			Biome:       tacCtx.Biome,
			Elevation:   tacCtx.Elevation,
			Hydrology:   tacCtx.Hydrology,
			Development: tacCtx.Development,
			Season:      tacCtx.Season,
		},
		Tiles:  assembleTiles(layers, tacCtx),
		Layers: layers,
	}

	logger.Info().
		Int("tiles", len(result.Tiles)).
		Int("buildings", len(layers.Structures.Buildings)).
		Int("features", layers.Features.TotalFeatureCount).
		Msg("map generation complete")

	return result, nil
}

func (s *GeneratorService) observe(layer string, started time.Time, logger zerolog.Logger) {
	elapsed := time.Since(started)
	s.collector.ObserveLayer(layer, elapsed.Seconds())
	logger.Debug().Dur("took", elapsed).Str("layer", layer).Msg("layer done")
}

// resolveContext validates an explicit context or derives one from the seed.
func (s *GeneratorService) resolveContext(settings Settings, masterSeed uint32) (tactical.Context, error) {
	if settings.Context == nil {
		return tactical.DeriveFromSeed(masterSeed), nil
	}
	c := settings.Context
	return tactical.New(c.Biome, c.Elevation, c.Hydrology, c.Development, c.Season)
}

// mapID derives a stable id from the normalized seed and dimensions, so the
// whole output is reproducible byte for byte.
func mapID(masterSeed uint32, width, height int) uuid.UUID {
	stream := rng.NewStream(rng.Hash(masterSeed, uint32(width), uint32(height), 0x1d))
	var id uuid.UUID
	for i := 0; i < len(id); i += 4 {
		v := stream.Uint32()
		id[i] = byte(v >> 24)
		id[i+1] = byte(v >> 16)
		id[i+2] = byte(v >> 8)
		id[i+3] = byte(v)
	}
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}
