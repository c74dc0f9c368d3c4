package orchestrator

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"tacmap-backend/internal/mapgen/features"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/seed"
	"tacmap-backend/internal/mapgen/structures"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/mapgen/vegetation"

	"tacmap-backend/internal/mapgen/config"
)

// Dimension bounds for generated maps.
const (
	MinDimension = 10
	MaxDimension = 100

	// DefaultCellSize is feet per tile, informational in the output.
	DefaultCellSize = 5
)

// SeedSpec accepts a seed as either a JSON string or integer.
type SeedSpec struct {
	Input seed.Input
	Set   bool
}

// UnmarshalJSON implements string-or-integer seed decoding.
func (s *SeedSpec) UnmarshalJSON(data []byte) error {
	var asInt int64
	if err := json.Unmarshal(data, &asInt); err == nil {
		s.Input = seed.FromInt(asInt)
		s.Set = true
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		s.Input = seed.FromString(asString)
		s.Set = true
		return nil
	}
	return fmt.Errorf("seed must be a string or an integer")
}

// MarshalJSON renders the seed the way it arrived.
func (s SeedSpec) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	if s.Input.IsText {
		return json.Marshal(s.Input.Text)
	}
	return json.Marshal(s.Input.Number)
}

// ContextSpec optionally pins the tactical context in the settings. When
// absent, the context derives from the seed.
type ContextSpec struct {
	Biome       tactical.Biome        `json:"biome"`
	Elevation   tactical.ElevationZone `json:"elevation"`
	Hydrology   tactical.Hydrology    `json:"hydrology"`
	Development tactical.Development  `json:"development"`
	Season      tactical.Season       `json:"season"`
}

// Settings is the full request for one map generation.
type Settings struct {
	Name     string         `json:"name"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	CellSize int            `json:"cell_size,omitempty"`
	Seed     SeedSpec       `json:"seed"`
	Context  *ContextSpec   `json:"context,omitempty"`
	Config   *config.Config `json:"config,omitempty"`
}

// Metadata echoes the tactical context into the map header.
type Metadata struct {
	Biome       tactical.Biome        `json:"biome"`
	Elevation   tactical.ElevationZone `json:"elevation"`
	Hydrology   tactical.Hydrology    `json:"hydrology"`
	Development tactical.Development  `json:"development"`
	Season      tactical.Season       `json:"season"`
}

// MapTile is one tile of the serialized map.
type MapTile struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Terrain   string   `json:"terrain"`
	Elevation float64  `json:"elevation"`
	Features  []string `json:"features"`
}

// LayerOutputs retains the full per-layer results for callers that need
// more than the flattened tile array. Not serialized.
type LayerOutputs struct {
	Geology    *geology.Layer
	Topography *topography.Layer
	Hydrology  *hydrology.Layer
	Vegetation *vegetation.Layer
	Structures *structures.Layer
	Features   *features.Layer
}

// GeneratedMap is the final assembled output.
type GeneratedMap struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	CellSize int       `json:"cell_size"`
	Seed     uint32    `json:"seed"`
	Metadata Metadata  `json:"metadata"`
	Tiles    []MapTile `json:"tiles"`

	Layers *LayerOutputs `json:"-"`
}
