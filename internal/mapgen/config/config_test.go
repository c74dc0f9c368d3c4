package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacmap-backend/internal/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1.0, cfg.TerrainRuggedness)
	assert.True(t, cfg.GenerateBuildings)
}

func TestValidateRanges(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ruggedness low", func(c *Config) { c.TerrainRuggedness = 0.4 }},
		{"ruggedness high", func(c *Config) { c.TerrainRuggedness = 2.1 }},
		{"variance low", func(c *Config) { c.ElevationVariance = 0.2 }},
		{"water high", func(c *Config) { c.WaterAbundance = 3.0 }},
		{"vegetation negative", func(c *Config) { c.VegetationMultiplier = -0.1 }},
		{"vegetation high", func(c *Config) { c.VegetationMultiplier = 2.5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrConfigOutOfRange)
		})
	}
}

func TestValidateTerrainWeights(t *testing.T) {
	cfg := Default()
	cfg.TerrainWeights = &TerrainWeights{Grassland: 0.4, Forest: 0.3, Mountain: 0.1, Water: 0.1, Desert: 0.05, Swamp: 0.05}
	assert.NoError(t, cfg.Validate())

	cfg.TerrainWeights = &TerrainWeights{Grassland: 0.9, Forest: 0.9}
	assert.Error(t, cfg.Validate())
}

func TestLoadPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.yaml")
	body := []byte("terrain_ruggedness: 1.5\nwater_abundance: 0.8\ngenerate_roads: false\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.TerrainRuggedness)
	assert.Equal(t, 0.8, cfg.WaterAbundance)
	assert.False(t, cfg.GenerateRoads)
	// Untouched knobs keep defaults.
	assert.Equal(t, 1.0, cfg.ElevationVariance)
	assert.True(t, cfg.GenerateForests)
}

func TestLoadPresetRejectsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terrain_ruggedness: 9.0\n"), 0o644))

	_, err := LoadPreset(path)
	assert.Error(t, err)
}
