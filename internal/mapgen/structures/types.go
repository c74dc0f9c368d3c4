package structures

import (
	"github.com/google/uuid"

	"tacmap-backend/internal/mapgen/grid"
)

// BuildingType names what a structure is
type BuildingType string

const (
	BuildingHut        BuildingType = "hut"
	BuildingHouse      BuildingType = "house"
	BuildingBarn       BuildingType = "barn"
	BuildingTemple     BuildingType = "temple"
	BuildingTower      BuildingType = "tower"
	BuildingWatchtower BuildingType = "watchtower"
	BuildingWarehouse  BuildingType = "warehouse"
	BuildingWell       BuildingType = "well"
)

// Condition grades structural decay
type Condition string

const (
	ConditionPristine  Condition = "pristine"
	ConditionGood      Condition = "good"
	ConditionWeathered Condition = "weathered"
	ConditionDamaged   Condition = "damaged"
	ConditionRuined    Condition = "ruined"
)

// Building is one placed structure, possibly spanning several tiles
type Building struct {
	ID        uuid.UUID
	Type      BuildingType
	Origin    grid.Point
	Footprint []grid.Point
	Condition Condition
}

// RoadSegment is one rasterized road edge between two anchors
type RoadSegment struct {
	Points []grid.Point
	Type   string // dirt_track, road, cobbled_road
}

// RoadNetwork aggregates all road segments
type RoadNetwork struct {
	Segments    []RoadSegment
	TotalLength float64 // feet
}

// Bridge marks where a road crosses a significant stream
type Bridge struct {
	Position    grid.Point
	Orientation string // ns or ew
	Span        int    // tiles
}

// Wall is a run of defensive wall tiles
type Wall struct {
	Points []grid.Point
}

// Tile is the structures output for one grid cell
type Tile struct {
	HasStructure  bool
	StructureType string // building type, "road", "bridge" or "wall"
	Condition     Condition
	ProvidesCover bool
	IsPassable    bool
}

// Layer is the complete structures output
type Layer struct {
	Dims      grid.Dims
	Tiles     []Tile
	Buildings []Building
	Roads     RoadNetwork
	Bridges   []Bridge
	Walls     []Wall
}

// TileAt returns the tile at (x, y). Callers must stay in bounds.
func (l *Layer) TileAt(x, y int) *Tile {
	return &l.Tiles[l.Dims.Index(x, y)]
}
