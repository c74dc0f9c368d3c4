package topography

import (
	"tacmap-backend/internal/mapgen/grid"
)

// Aspect is the compass octant of a tile's elevation gradient: the direction
// in which the ground rises
type Aspect string

const (
	AspectNorth     Aspect = "N"
	AspectNortheast Aspect = "NE"
	AspectEast      Aspect = "E"
	AspectSoutheast Aspect = "SE"
	AspectSouth     Aspect = "S"
	AspectSouthwest Aspect = "SW"
	AspectWest      Aspect = "W"
	AspectNorthwest Aspect = "NW"
	AspectFlat      Aspect = "FLAT"
)

// ScaleCategory classifies the physical extent of the map
type ScaleCategory string

const (
	ScaleTactical    ScaleCategory = "tactical"    // under 300 ft
	ScaleOperational ScaleCategory = "operational" // under 1000 ft
	ScaleStrategic   ScaleCategory = "strategic"   // 1000 ft and up
)

// FeetPerTile is the battlemap convention: one tile covers 5 feet.
const FeetPerTile = 5.0

// Tile is the topography output for one grid cell
type Tile struct {
	Elevation         float64 // feet above the map floor
	Slope             float64 // degrees, 0..90
	Aspect            Aspect
	RelativeElevation float64 // position within the map's elevation range, -1..1
	IsRidge           bool
	IsValley          bool
	IsDrainage        bool
}

// Layer is the complete topography output
type Layer struct {
	Dims  grid.Dims
	Tiles []Tile
	Scale ScaleCategory
	// MinElevation and MaxElevation bound the elevation model: the floor is
	// zero and the ceiling is the relief product of map size, elevation
	// zone, variance and ruggedness. Observed tile elevations stay inside
	// this band but rarely touch the ceiling once erosion has run.
	MinElevation float64
	MaxElevation float64
	ObservedMax  float64
	AverageSlope float64
}

// TileAt returns the tile at (x, y). Callers must stay in bounds.
func (l *Layer) TileAt(x, y int) *Tile {
	return &l.Tiles[l.Dims.Index(x, y)]
}

// ElevationAt returns the elevation at (x, y), clamping out-of-bounds reads
// to the nearest edge tile so gradient stencils work at the border.
func (l *Layer) ElevationAt(x, y int) float64 {
	if x < 0 {
		x = 0
	}
	if x >= l.Dims.Width {
		x = l.Dims.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= l.Dims.Height {
		y = l.Dims.Height - 1
	}
	return l.Tiles[l.Dims.Index(x, y)].Elevation
}

// Range returns the modeled elevation range, MaxElevation minus
// MinElevation; it does not use ObservedMax.
func (l *Layer) Range() float64 {
	return l.MaxElevation - l.MinElevation
}
