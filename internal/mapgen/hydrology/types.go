package hydrology

import (
	"github.com/google/uuid"

	"tacmap-backend/internal/mapgen/grid"
)

// Moisture grades ground wetness from arid to saturated. Levels are ordered;
// permeability bumps move along the scale.
type Moisture int

const (
	MoistureArid Moisture = iota
	MoistureDry
	MoistureModerate
	MoistureMoist
	MoistureWet
	MoistureSaturated
)

var moistureNames = [...]string{"arid", "dry", "moderate", "moist", "wet", "saturated"}

func (m Moisture) String() string {
	if m < MoistureArid || m > MoistureSaturated {
		return "unknown"
	}
	return moistureNames[m]
}

// FlowSink marks a tile with no lower neighbor.
const FlowSink = -1

// Tile is the hydrology output for one grid cell
type Tile struct {
	// FlowDirection indexes grid.Neighbors8, or FlowSink.
	FlowDirection int
	// FlowAccumulation counts cells draining through this one, itself included.
	FlowAccumulation int
	WaterDepth       float64
	Moisture         Moisture
	IsSpring         bool
	IsStream         bool
	IsPool           bool
	StreamOrder      int
}

// StreamSegment is a traced run of connected stream tiles
type StreamSegment struct {
	ID     uuid.UUID
	Points []grid.Point
	Order  int
	Width  int // tiles
}

// Layer is the complete hydrology output
type Layer struct {
	Dims               grid.Dims
	Tiles              []Tile
	Streams            []StreamSegment
	Springs            []grid.Point
	TotalWaterCoverage float64 // percent of tiles with standing or flowing water
}

// TileAt returns the tile at (x, y). Callers must stay in bounds.
func (l *Layer) TileAt(x, y int) *Tile {
	return &l.Tiles[l.Dims.Index(x, y)]
}
