// Package structures places the built environment: buildings ranked by site
// suitability, a road network spanning them, bridges at stream crossings and
// walls around dense settlements. Everything scales with the development
// level of the tactical context.
package structures

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"tacmap-backend/internal/errors"
	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/grid"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/mapgen/vegetation"
	"tacmap-backend/internal/rng"
)

const (
	placementSalt = 0x5a01
	conditionSalt = 0x5a02
	wallSalt      = 0x5a03

	suitabilityThreshold = 0.4
	steepSlopeCut        = 15.0
	nearWaterRadius      = 3
)

// buildingBudget is the maximum building count per development level. Ruins
// reuse the settled budget; their decay comes from the condition pass.
var buildingBudget = map[tactical.Development]int{
	tactical.DevelopmentWilderness: 0,
	tactical.DevelopmentFrontier:   1,
	tactical.DevelopmentRural:      2,
	tactical.DevelopmentSettled:    10,
	tactical.DevelopmentUrban:      30,
	tactical.DevelopmentRuins:      10,
}

// minBuildingSpacing keeps building seeds apart, Poisson-disk style.
var minBuildingSpacing = map[tactical.Development]float64{
	tactical.DevelopmentFrontier: 6,
	tactical.DevelopmentRural:    6,
	tactical.DevelopmentSettled:  4,
	tactical.DevelopmentUrban:    3,
	tactical.DevelopmentRuins:    4,
}

// buildingTypes lists what each development level erects.
var buildingTypes = map[tactical.Development][]BuildingType{
	tactical.DevelopmentFrontier: {BuildingHut, BuildingWatchtower},
	tactical.DevelopmentRural:    {BuildingHouse, BuildingBarn},
	tactical.DevelopmentSettled:  {BuildingHouse, BuildingHouse, BuildingBarn, BuildingTemple, BuildingWell},
	tactical.DevelopmentUrban:    {BuildingHouse, BuildingHouse, BuildingHouse, BuildingTower, BuildingTemple, BuildingWarehouse},
	tactical.DevelopmentRuins:    {BuildingHouse, BuildingHouse, BuildingBarn, BuildingTemple, BuildingTower},
}

// footprintSize is the square footprint edge in tiles per building type.
var footprintSize = map[BuildingType]int{
	BuildingHut:        1,
	BuildingHouse:      2,
	BuildingBarn:       2,
	BuildingTemple:     2,
	BuildingTower:      1,
	BuildingWatchtower: 1,
	BuildingWarehouse:  2,
	BuildingWell:       1,
}

// conditionWeights is the decay distribution per development level, in
// pristine/good/weathered/damaged/ruined order.
var conditionWeights = map[tactical.Development][5]float64{
	tactical.DevelopmentFrontier: {0.05, 0.3, 0.4, 0.25, 0},
	tactical.DevelopmentRural:    {0.1, 0.4, 0.35, 0.15, 0},
	tactical.DevelopmentSettled:  {0.2, 0.5, 0.2, 0.1, 0},
	tactical.DevelopmentUrban:    {0.4, 0.4, 0.15, 0.05, 0},
	tactical.DevelopmentRuins:    {0, 0, 0, 0, 1},
}

var conditionOrder = [5]Condition{ConditionPristine, ConditionGood, ConditionWeathered, ConditionDamaged, ConditionRuined}

// Generate produces the structures layer.
func Generate(veg *vegetation.Layer, hydro *hydrology.Layer, topo *topography.Layer,
	ctx tactical.Context, seedValue uint32, cfg config.Config) (*Layer, error) {

	if veg == nil || len(veg.Tiles) == 0 {
		return nil, errors.Dependency("structures", "vegetation layer is nil or empty")
	}
	if hydro == nil || len(hydro.Tiles) == 0 {
		return nil, errors.Dependency("structures", "hydrology layer is nil or empty")
	}
	if topo == nil || len(topo.Tiles) == 0 {
		return nil, errors.Dependency("structures", "topography layer is nil or empty")
	}
	if veg.Dims != hydro.Dims || hydro.Dims != topo.Dims {
		return nil, errors.Dependency("structures", "layer dimensions disagree")
	}

	dims := veg.Dims
	layer := &Layer{
		Dims:  dims,
		Tiles: make([]Tile, dims.Count()),
	}
	for i := range layer.Tiles {
		layer.Tiles[i].IsPassable = true
	}

	if cfg.GenerateBuildings {
		placeBuildings(layer, veg, hydro, topo, ctx, seedValue)
	}

	if cfg.GenerateRoads && len(layer.Buildings) >= 2 {
		buildRoads(layer, veg, hydro, topo, ctx)
		placeBridges(layer, hydro)
	}

	if ctx.Development == tactical.DevelopmentUrban || ctx.Development == tactical.DevelopmentRuins {
		raiseWalls(layer, veg, hydro, ctx, seedValue)
	}

	return layer, nil
}

// suitability scores one tile as a building site. Scores below the
// threshold reject the site outright.
func suitability(veg *vegetation.Layer, hydro *hydrology.Layer, topo *topography.Layer, x, y int) float64 {
	vegTile := veg.TileAt(x, y)
	hydroTile := hydro.TileAt(x, y)
	topoTile := topo.TileAt(x, y)

	if hydroTile.WaterDepth > 0 {
		return -1
	}
	if !vegTile.IsPassable || vegTile.Type == vegetation.TypeDense {
		return -1
	}

	score := 1.0
	if topoTile.Slope > steepSlopeCut {
		score -= 0.5
	}
	if vegTile.Type == vegetation.TypeShrubs || vegTile.Type == vegetation.TypeSparse {
		score -= 0.15
	}

	// Flat ground near water (but not on it) is prime real estate.
	if topoTile.Slope < 5 && nearWater(hydro, x, y) {
		score += 0.3
	}

	return score
}

func nearWater(hydro *hydrology.Layer, x, y int) bool {
	dims := hydro.Dims
	for dy := -nearWaterRadius; dy <= nearWaterRadius; dy++ {
		for dx := -nearWaterRadius; dx <= nearWaterRadius; dx++ {
			nx, ny := x+dx, y+dy
			if dims.InBounds(nx, ny) && hydro.TileAt(nx, ny).WaterDepth > 0 {
				return true
			}
		}
	}
	return false
}

// placeBuildings samples building seeds from the highest-suitability tiles,
// rejecting candidates inside the minimum spacing of an accepted one.
func placeBuildings(layer *Layer, veg *vegetation.Layer, hydro *hydrology.Layer,
	topo *topography.Layer, ctx tactical.Context, seedValue uint32) {

	budget := buildingBudget[ctx.Development]
	if budget == 0 {
		return
	}
	dims := layer.Dims

	type candidate struct {
		idx   int
		score float64
	}
	var candidates []candidate
	for idx := 0; idx < dims.Count(); idx++ {
		x, y := idx%dims.Width, idx/dims.Width
		if score := suitability(veg, hydro, topo, x, y); score >= suitabilityThreshold {
			candidates = append(candidates, candidate{idx: idx, score: score})
		}
	}

	// Best sites first; equal scores resolve by position for determinism.
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].idx < candidates[b].idx
	})

	spacing := minBuildingSpacing[ctx.Development]
	types := buildingTypes[ctx.Development]
	stream := rng.NewStream(rng.Hash(seedValue, placementSalt))
	conditionStream := rng.NewStream(rng.Hash(seedValue, conditionSalt))

	for _, cand := range candidates {
		if len(layer.Buildings) >= budget {
			break
		}
		x, y := cand.idx%dims.Width, cand.idx/dims.Width

		tooClose := false
		for _, b := range layer.Buildings {
			dx, dy := float64(b.Origin.X-x), float64(b.Origin.Y-y)
			if math.Sqrt(dx*dx+dy*dy) < spacing {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		bType := types[stream.IntN(len(types))]
		footprint := expandFootprint(veg, hydro, topo, x, y, footprintSize[bType])

		building := Building{
			ID:        buildingUUID(stream),
			Type:      bType,
			Origin:    grid.Point{X: x, Y: y},
			Footprint: footprint,
			Condition: drawCondition(ctx.Development, conditionStream),
		}
		layer.Buildings = append(layer.Buildings, building)

		for _, p := range footprint {
			tile := layer.TileAt(p.X, p.Y)
			tile.HasStructure = true
			tile.StructureType = string(bType)
			tile.Condition = building.Condition
			tile.ProvidesCover = true
			tile.IsPassable = false
		}
	}
}

// expandFootprint grows a square footprint from the seed tile, keeping only
// tiles that can actually carry a building. Falls back to the seed alone.
func expandFootprint(veg *vegetation.Layer, hydro *hydrology.Layer, topo *topography.Layer,
	x, y, size int) []grid.Point {

	dims := veg.Dims
	footprint := []grid.Point{{X: x, Y: y}}
	if size <= 1 {
		return footprint
	}

	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			px, py := x+dx, y+dy
			if !dims.InBounds(px, py) {
				continue
			}
			if suitability(veg, hydro, topo, px, py) < 0 {
				continue
			}
			footprint = append(footprint, grid.Point{X: px, Y: py})
		}
	}
	return footprint
}

// drawCondition samples the decay distribution of a development level.
func drawCondition(dev tactical.Development, stream *rng.Stream) Condition {
	weights := conditionWeights[dev]
	roll := stream.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if roll < acc {
			return conditionOrder[i]
		}
	}
	return conditionOrder[len(conditionOrder)-1]
}

// buildingUUID derives a stable v4-shaped id from the placement stream.
func buildingUUID(stream *rng.Stream) uuid.UUID {
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

// raiseWalls rings the settlement core with a defensive wall. Ruins keep
// only broken stretches of it.
func raiseWalls(layer *Layer, veg *vegetation.Layer, hydro *hydrology.Layer,
	ctx tactical.Context, seedValue uint32) {

	if len(layer.Buildings) < 3 {
		return
	}
	dims := layer.Dims

	minX, minY := dims.Width, dims.Height
	maxX, maxY := 0, 0
	for _, b := range layer.Buildings {
		minX = min(minX, b.Origin.X)
		maxX = max(maxX, b.Origin.X)
		minY = min(minY, b.Origin.Y)
		maxY = max(maxY, b.Origin.Y)
	}
	minX = max(0, minX-2)
	minY = max(0, minY-2)
	maxX = min(dims.Width-1, maxX+2)
	maxY = min(dims.Height-1, maxY+2)

	stream := rng.NewStream(rng.Hash(seedValue, wallSalt))
	var wall Wall
	flush := func() {
		if len(wall.Points) >= 3 {
			layer.Walls = append(layer.Walls, wall)
		}
		wall = Wall{}
	}

	for _, p := range perimeter(minX, minY, maxX, maxY) {
		tile := layer.TileAt(p.X, p.Y)
		buildable := !tile.HasStructure && hydro.TileAt(p.X, p.Y).WaterDepth == 0 &&
			veg.TileAt(p.X, p.Y).IsPassable

		// Ruined walls have collapsed stretches.
		if ctx.Development == tactical.DevelopmentRuins && stream.Float64() > 0.6 {
			buildable = false
		}

		if !buildable {
			flush()
			continue
		}

		tile.HasStructure = true
		tile.StructureType = "wall"
		tile.ProvidesCover = true
		tile.IsPassable = false
		if ctx.Development == tactical.DevelopmentRuins {
			tile.Condition = ConditionRuined
		} else {
			tile.Condition = ConditionGood
		}
		wall.Points = append(wall.Points, p)
	}
	flush()
}

// perimeter walks the rectangle border clockwise from the top-left corner.
func perimeter(minX, minY, maxX, maxY int) []grid.Point {
	var points []grid.Point
	for x := minX; x <= maxX; x++ {
		points = append(points, grid.Point{X: x, Y: minY})
	}
	for y := minY + 1; y <= maxY; y++ {
		points = append(points, grid.Point{X: maxX, Y: y})
	}
	for x := maxX - 1; x >= minX; x-- {
		points = append(points, grid.Point{X: x, Y: maxY})
	}
	for y := maxY - 1; y > minY; y-- {
		points = append(points, grid.Point{X: minX, Y: y})
	}
	return points
}
