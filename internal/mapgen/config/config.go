// Package config holds the optional tuning knobs for map generation.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"tacmap-backend/internal/errors"
)

// TerrainWeights is an optional per-terrain probability vector. When set, the
// weights must sum to approximately 1.
type TerrainWeights struct {
	Grassland float64 `yaml:"grassland" json:"grassland"`
	Forest    float64 `yaml:"forest" json:"forest"`
	Mountain  float64 `yaml:"mountain" json:"mountain"`
	Water     float64 `yaml:"water" json:"water"`
	Desert    float64 `yaml:"desert" json:"desert"`
	Swamp     float64 `yaml:"swamp" json:"swamp"`
}

// Sum returns the total of all weights.
func (w TerrainWeights) Sum() float64 {
	return w.Grassland + w.Forest + w.Mountain + w.Water + w.Desert + w.Swamp
}

// Config carries the recognized generation options. Zero value is not usable;
// start from Default.
type Config struct {
	// TerrainRuggedness scales feature frequency, octave counts and relief.
	TerrainRuggedness float64 `yaml:"terrain_ruggedness" json:"terrain_ruggedness"`
	// ElevationVariance multiplies zone relief.
	ElevationVariance float64 `yaml:"elevation_variance" json:"elevation_variance"`
	// WaterAbundance inversely scales stream, spring and pool thresholds.
	WaterAbundance float64 `yaml:"water_abundance" json:"water_abundance"`
	// VegetationMultiplier scales plant densities.
	VegetationMultiplier float64 `yaml:"vegetation_multiplier" json:"vegetation_multiplier"`

	GenerateForests   bool `yaml:"generate_forests" json:"generate_forests"`
	GenerateRivers    bool `yaml:"generate_rivers" json:"generate_rivers"`
	GenerateRoads     bool `yaml:"generate_roads" json:"generate_roads"`
	GenerateBuildings bool `yaml:"generate_buildings" json:"generate_buildings"`

	TerrainWeights *TerrainWeights `yaml:"terrain_weights,omitempty" json:"terrain_weights,omitempty"`
}

// Default returns the configuration used when the caller supplies nothing.
func Default() Config {
	return Config{
		TerrainRuggedness:    1.0,
		ElevationVariance:    1.0,
		WaterAbundance:       1.0,
		VegetationMultiplier: 1.0,
		GenerateForests:      true,
		GenerateRivers:       true,
		GenerateRoads:        true,
		GenerateBuildings:    true,
	}
}

// Validate checks all knobs against their allowed ranges.
func (c Config) Validate() error {
	if c.TerrainRuggedness < 0.5 || c.TerrainRuggedness > 2.0 {
		return errors.Wrap(errors.ErrConfigOutOfRange,
			fmt.Sprintf("terrain_ruggedness %.2f outside [0.5, 2.0]", c.TerrainRuggedness), nil)
	}
	if c.ElevationVariance < 0.5 || c.ElevationVariance > 2.0 {
		return errors.Wrap(errors.ErrConfigOutOfRange,
			fmt.Sprintf("elevation_variance %.2f outside [0.5, 2.0]", c.ElevationVariance), nil)
	}
	if c.WaterAbundance < 0.5 || c.WaterAbundance > 2.0 {
		return errors.Wrap(errors.ErrConfigOutOfRange,
			fmt.Sprintf("water_abundance %.2f outside [0.5, 2.0]", c.WaterAbundance), nil)
	}
	if c.VegetationMultiplier < 0 || c.VegetationMultiplier > 2.0 {
		return errors.Wrap(errors.ErrConfigOutOfRange,
			fmt.Sprintf("vegetation_multiplier %.2f outside [0, 2.0]", c.VegetationMultiplier), nil)
	}
	if c.TerrainWeights != nil {
		if sum := c.TerrainWeights.Sum(); math.Abs(sum-1.0) > 0.01 {
			return errors.Wrap(errors.ErrConfigOutOfRange,
				fmt.Sprintf("terrain weights sum to %.3f, want 1.0", sum), nil)
		}
	}
	return nil
}

// LoadPreset reads a YAML preset file over the defaults.
func LoadPreset(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read preset: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse preset: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
