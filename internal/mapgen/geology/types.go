package geology

import (
	"tacmap-backend/internal/mapgen/grid"
)

// Tile is the geology layer output for one grid cell
type Tile struct {
	Formation         FormationType
	SoilDepth         float64 // feet of loose material, 0..~10
	Permeability      Permeability
	Features          []TerrainFeature
	FractureIntensity float64 // 0..1
	IsTransition      bool    // a 4-neighbor carries a different formation
}

// Layer is the complete geology output consumed by later layers
type Layer struct {
	Dims               grid.Dims
	Tiles              []Tile
	PrimaryFormation   FormationType
	SecondaryFormation *FormationType
	TransitionZones    []grid.Point
}

// TileAt returns the tile at (x, y). Callers must stay in bounds.
func (l *Layer) TileAt(x, y int) *Tile {
	return &l.Tiles[l.Dims.Index(x, y)]
}

// FormationAt returns the formation at (x, y).
func (l *Layer) FormationAt(x, y int) FormationType {
	return l.Tiles[l.Dims.Index(x, y)].Formation
}
