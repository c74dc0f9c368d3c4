package structures

import (
	"container/heap"
	"math"

	"tacmap-backend/internal/mapgen/grid"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/mapgen/vegetation"
)

const (
	slopeCostPerDegree = 0.25
	bridgeCrossingCost = 8.0
	structureCost      = 10.0
	// minBridgeOrder is the smallest stream order a road will cross on a
	// bridge; lower-order streams and all other water block the road.
	minBridgeOrder = 2
)

// roadType names the road surface per development level.
var roadType = map[tactical.Development]string{
	tactical.DevelopmentFrontier: "dirt_track",
	tactical.DevelopmentRural:    "dirt_track",
	tactical.DevelopmentSettled:  "road",
	tactical.DevelopmentUrban:    "cobbled_road",
	tactical.DevelopmentRuins:    "road",
}

// buildRoads connects all buildings with a minimum spanning tree, then
// rasterizes each edge onto the grid with a cost-weighted A* search.
func buildRoads(layer *Layer, veg *vegetation.Layer, hydro *hydrology.Layer,
	topo *topography.Layer, ctx tactical.Context) {

	anchors := make([]grid.Point, len(layer.Buildings))
	for i, b := range layer.Buildings {
		anchors[i] = b.Origin
	}

	surface := roadType[ctx.Development]
	if surface == "" {
		surface = "dirt_track"
	}

	for _, edge := range spanningTree(anchors) {
		path := findRoadPath(layer, veg, hydro, topo, anchors[edge[0]], anchors[edge[1]])
		if len(path) == 0 {
			continue
		}

		segment := RoadSegment{Points: path, Type: surface}
		layer.Roads.Segments = append(layer.Roads.Segments, segment)
		layer.Roads.TotalLength += float64(len(path)) * topography.FeetPerTile

		for _, p := range path {
			tile := layer.TileAt(p.X, p.Y)
			if tile.HasStructure {
				continue // do not pave through a building
			}
			tile.HasStructure = true
			tile.StructureType = "road"
			tile.IsPassable = true
		}
	}
}

// spanningTree runs Prim's algorithm over the anchor points. Returns index
// pairs; ties resolve by index order so the tree is deterministic.
func spanningTree(anchors []grid.Point) [][2]int {
	n := len(anchors)
	if n < 2 {
		return nil
	}

	inTree := make([]bool, n)
	inTree[0] = true
	var edges [][2]int

	for len(edges) < n-1 {
		bestDist := math.MaxFloat64
		bestFrom, bestTo := -1, -1
		for from := 0; from < n; from++ {
			if !inTree[from] {
				continue
			}
			for to := 0; to < n; to++ {
				if inTree[to] {
					continue
				}
				dx := float64(anchors[from].X - anchors[to].X)
				dy := float64(anchors[from].Y - anchors[to].Y)
				dist := dx*dx + dy*dy
				if dist < bestDist {
					bestDist = dist
					bestFrom, bestTo = from, to
				}
			}
		}
		if bestTo < 0 {
			break
		}
		inTree[bestTo] = true
		edges = append(edges, [2]int{bestFrom, bestTo})
	}

	return edges
}

// tileCost prices entering a tile for road construction. A negative result
// means the tile cannot carry a road at all.
func tileCost(layer *Layer, veg *vegetation.Layer, hydro *hydrology.Layer,
	topo *topography.Layer, x, y int) float64 {

	hydroTile := hydro.TileAt(x, y)
	if hydroTile.WaterDepth > 0 {
		// Water blocks roads except where a bridge can span the stream.
		if hydroTile.IsStream && hydroTile.StreamOrder >= minBridgeOrder {
			return 1 + bridgeCrossingCost
		}
		return -1
	}

	cost := 1.0
	cost += topo.TileAt(x, y).Slope * slopeCostPerDegree

	switch veg.TileAt(x, y).Type {
	case vegetation.TypeDense:
		cost += 5
	case vegetation.TypeSparse, vegetation.TypeShrubs, vegetation.TypeWetland:
		cost += 2
	case vegetation.TypeTallGrass:
		cost += 0.5
	}

	tile := layer.TileAt(x, y)
	if tile.HasStructure {
		if tile.StructureType == "road" {
			return 0.5 // reusing an existing road is nearly free
		}
		cost += structureCost
	}

	return cost
}

// pathNode is an A* frontier entry.
type pathNode struct {
	idx      int
	priority float64
	order    int // insertion order breaks priority ties deterministically
}

type nodeHeap []pathNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(a, b int) bool {
	if h[a].priority != h[b].priority {
		return h[a].priority < h[b].priority
	}
	return h[a].order < h[b].order
}
func (h nodeHeap) Swap(a, b int)      { h[a], h[b] = h[b], h[a] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(pathNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// findRoadPath runs A* from one anchor to another over the cost field.
// Returns nil when no route exists.
func findRoadPath(layer *Layer, veg *vegetation.Layer, hydro *hydrology.Layer,
	topo *topography.Layer, from, to grid.Point) []grid.Point {

	dims := layer.Dims
	start := dims.Index(from.X, from.Y)
	goal := dims.Index(to.X, to.Y)

	gScore := make([]float64, dims.Count())
	cameFrom := make([]int, dims.Count())
	closed := make([]bool, dims.Count())
	for i := range gScore {
		gScore[i] = math.MaxFloat64
		cameFrom[i] = -1
	}
	gScore[start] = 0

	heuristic := func(idx int) float64 {
		x, y := idx%dims.Width, idx/dims.Width
		dx, dy := float64(x-to.X), float64(y-to.Y)
		return math.Sqrt(dx*dx + dy*dy)
	}

	frontier := &nodeHeap{{idx: start, priority: heuristic(start)}}
	heap.Init(frontier)
	pushOrder := 1

	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(pathNode)
		if current.idx == goal {
			return reconstructPath(cameFrom, dims, goal)
		}
		if closed[current.idx] {
			continue
		}
		closed[current.idx] = true

		cx, cy := current.idx%dims.Width, current.idx/dims.Width
		for dir, n := range grid.Neighbors8 {
			nx, ny := cx+n.X, cy+n.Y
			if !dims.InBounds(nx, ny) {
				continue
			}
			ni := dims.Index(nx, ny)
			if closed[ni] {
				continue
			}

			cost := tileCost(layer, veg, hydro, topo, nx, ny)
			if cost < 0 && ni != goal {
				continue
			}
			if cost < 0 {
				cost = 1
			}

			tentative := gScore[current.idx] + cost*grid.Distance(dir)
			if tentative < gScore[ni] {
				gScore[ni] = tentative
				cameFrom[ni] = current.idx
				heap.Push(frontier, pathNode{idx: ni, priority: tentative + heuristic(ni), order: pushOrder})
				pushOrder++
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom []int, dims grid.Dims, goal int) []grid.Point {
	var reversed []grid.Point
	for idx := goal; idx >= 0; idx = cameFrom[idx] {
		reversed = append(reversed, grid.Point{X: idx % dims.Width, Y: idx / dims.Width})
	}

	path := make([]grid.Point, len(reversed))
	for i, p := range reversed {
		path[len(path)-1-i] = p
	}
	return path
}

// placeBridges emits a bridge wherever a road segment crosses a stream tile
// of bridgeable order.
func placeBridges(layer *Layer, hydro *hydrology.Layer) {
	seen := make([]bool, layer.Dims.Count())

	for _, segment := range layer.Roads.Segments {
		for i, p := range segment.Points {
			hydroTile := hydro.TileAt(p.X, p.Y)
			if !hydroTile.IsStream || hydroTile.StreamOrder < minBridgeOrder || hydroTile.WaterDepth <= 0 {
				continue
			}
			idx := layer.Dims.Index(p.X, p.Y)
			if seen[idx] {
				continue
			}
			seen[idx] = true

			orientation := "ew"
			if i > 0 && segment.Points[i-1].X == p.X {
				orientation = "ns"
			}

			span := (hydroTile.StreamOrder + 1) / 2
			if span < 1 {
				span = 1
			}

			layer.Bridges = append(layer.Bridges, Bridge{Position: p, Orientation: orientation, Span: span})

			tile := &layer.Tiles[idx]
			tile.HasStructure = true
			tile.StructureType = "bridge"
			tile.IsPassable = true
		}
	}
}
