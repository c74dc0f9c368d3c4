package vegetation

import (
	"tacmap-backend/internal/mapgen/grid"
)

// Type is the dominant vegetation on a tile
type Type string

const (
	TypeNone       Type = "none"
	TypeShortGrass Type = "short_grass"
	TypeTallGrass  Type = "tall_grass"
	TypeShrubs     Type = "shrubs"
	TypeSparse     Type = "sparse_trees"
	TypeDense      Type = "dense_trees"
	TypeWetland    Type = "wetland_vegetation"
)

// Stratum is a vertical vegetation band
type Stratum string

const (
	StratumTrees       Stratum = "trees"
	StratumShrubs      Stratum = "shrubs"
	StratumHerbs       Stratum = "herbs"
	StratumGroundCover Stratum = "ground_cover"
	StratumAquatic     Stratum = "aquatic"
)

// Plant is one generated plant instance on a tile
type Plant struct {
	Species       string
	Stratum       Stratum
	Age           float64 // years
	Height        float64 // feet
	TrunkDiameter float64 // feet, zero for non-trees
	CanopyRadius  float64 // feet
	Health        float64 // 0.6..1.0
}

// ZoneKind is the ecological family of a vegetation zone
type ZoneKind string

const (
	ZoneForest       ZoneKind = "forest"
	ZoneMeadow       ZoneKind = "meadow"
	ZoneShrubland    ZoneKind = "shrubland"
	ZoneWetland      ZoneKind = "wetland_vegetation"
	ZoneAlpineMeadow ZoneKind = "alpine_meadow"
	ZoneGrassland    ZoneKind = "grassland"
)

// Zone is a contiguous vegetated region. Zones never overlap; each tile
// belongs to at most one.
type Zone struct {
	ID      int
	Kind    ZoneKind
	Subtype string
	Tiles   []grid.Point
}

// Clearing is a roughly circular gap inside a forest zone
type Clearing struct {
	Center grid.Point
	Radius float64
}

// Tile is the vegetation output for one grid cell
type Tile struct {
	ZoneID              int // -1 outside any zone
	Type                Type
	Plants              []Plant
	CanopyHeight        float64 // feet, tallest tree
	CanopyCoverage      float64 // 0..1 fraction of the tile under canopy
	IsClearing          bool
	ProvidesCover       bool
	ProvidesConcealment bool
	IsPassable          bool
}

// Layer is the complete vegetation output
type Layer struct {
	Dims                  grid.Dims
	Tiles                 []Tile
	Zones                 []Zone
	ForestPatches         []int // zone ids of forest zones
	Clearings             []Clearing
	TotalTreeCount        int
	AverageCanopyCoverage float64
}

// TileAt returns the tile at (x, y). Callers must stay in bounds.
func (l *Layer) TileAt(x, y int) *Tile {
	return &l.Tiles[l.Dims.Index(x, y)]
}
