// Package hydrology derives water behavior from the topography: D8 flow
// directions, flow accumulation, springs at geological transitions, stream
// channels with Strahler ordering, standing pools and ground moisture.
package hydrology

import (
	"sort"

	"github.com/google/uuid"

	"tacmap-backend/internal/errors"
	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/grid"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/rng"
)

const (
	springSalt  = 0x4801
	depthSalt   = 0x4802
	poolSalt    = 0x4803
	segmentSalt = 0x4804

	baseSpringThreshold = 0.85
	springSlopeBonus    = 0.15
	basePoolThreshold   = 0.82
	lowElevationCut     = 0.30 // fraction of the elevation range that counts as low ground
)

// streamThresholds is the base flow accumulation needed for a channel to
// count as a stream, per hydrology regime.
var streamThresholds = map[tactical.Hydrology]float64{
	tactical.HydrologyArid:     25,
	tactical.HydrologySeasonal: 15,
	tactical.HydrologyStream:   8,
	tactical.HydrologyRiver:    5,
	tactical.HydrologyLake:     6,
	tactical.HydrologyCoastal:  7,
	tactical.HydrologyWetland:  3,
}

// depthFactors scale stream depth per hydrology regime.
var depthFactors = map[tactical.Hydrology]float64{
	tactical.HydrologyArid:     0.5,
	tactical.HydrologySeasonal: 0.7,
	tactical.HydrologyStream:   1.0,
	tactical.HydrologyRiver:    1.3,
	tactical.HydrologyLake:     1.2,
	tactical.HydrologyCoastal:  1.0,
	tactical.HydrologyWetland:  1.1,
}

// moistureBaselines start the moisture scale per hydrology regime.
var moistureBaselines = map[tactical.Hydrology]Moisture{
	tactical.HydrologyArid:    MoistureArid,
	tactical.HydrologyWetland: MoistureWet,
}

// Generate produces the hydrology layer from topography and geology.
func Generate(topo *topography.Layer, geo *geology.Layer, ctx tactical.Context,
	seedValue uint32, cfg config.Config) (*Layer, error) {

	if topo == nil || len(topo.Tiles) == 0 {
		return nil, errors.Dependency("hydrology", "topography layer is nil or empty")
	}
	if geo == nil || len(geo.Tiles) == 0 {
		return nil, errors.Dependency("hydrology", "geology layer is nil or empty")
	}
	if topo.Dims != geo.Dims {
		return nil, errors.Dependency("hydrology", "topography and geology dimensions disagree")
	}

	dims := topo.Dims
	layer := &Layer{
		Dims:  dims,
		Tiles: make([]Tile, dims.Count()),
	}

	computeFlowDirections(layer, topo)
	computeFlowAccumulation(layer, topo)

	if cfg.GenerateRivers {
		placeSprings(layer, geo, topo, seedValue, cfg)
		markStreams(layer, ctx, cfg)
		assignStrahlerOrders(layer)
		assignWaterDepth(layer, topo, ctx, seedValue, cfg)
		layer.Streams = extractStreamSegments(layer, seedValue)
	}

	assignMoisture(layer, geo, ctx)
	layer.TotalWaterCoverage = waterCoverage(layer)

	return layer, nil
}

// computeFlowDirections picks the steepest downslope D8 neighbor per tile.
// Diagonal drops divide by sqrt(2). Tiles with no strictly lower neighbor
// are sinks.
func computeFlowDirections(layer *Layer, topo *topography.Layer) {
	dims := layer.Dims
	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			tile := layer.TileAt(x, y)
			elev := topo.TileAt(x, y).Elevation

			best := FlowSink
			bestGradient := 0.0
			for dir, n := range grid.Neighbors8 {
				nx, ny := x+n.X, y+n.Y
				if !dims.InBounds(nx, ny) {
					continue
				}
				drop := elev - topo.TileAt(nx, ny).Elevation
				if drop <= 0 {
					continue
				}
				gradient := drop / grid.Distance(dir)
				if gradient > bestGradient {
					bestGradient = gradient
					best = dir
				}
			}
			tile.FlowDirection = best
		}
	}
}

// computeFlowAccumulation sweeps tiles from high to low ground, pushing each
// tile's count onto its flow target. Because water only moves strictly
// downhill, a single descending pass visits every contributor before its
// receiver; no cell is ever counted twice.
func computeFlowAccumulation(layer *Layer, topo *topography.Layer) {
	dims := layer.Dims
	count := dims.Count()

	order := make([]int, count)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea := topo.Tiles[order[a]].Elevation
		eb := topo.Tiles[order[b]].Elevation
		if ea != eb {
			return ea > eb
		}
		return order[a] < order[b]
	})

	for i := range layer.Tiles {
		layer.Tiles[i].FlowAccumulation = 1
	}

	for _, idx := range order {
		dir := layer.Tiles[idx].FlowDirection
		if dir == FlowSink {
			continue
		}
		x, y := idx%dims.Width, idx/dims.Width
		n := grid.Neighbors8[dir]
		target := dims.Index(x+n.X, y+n.Y)
		layer.Tiles[target].FlowAccumulation += layer.Tiles[idx].FlowAccumulation
	}
}

// placeSprings emits springs on geological transition tiles whose formation
// can host an aquifer outlet. Steeper ground exposes more seams.
func placeSprings(layer *Layer, geo *geology.Layer, topo *topography.Layer, seedValue uint32, cfg config.Config) {
	threshold := baseSpringThreshold / cfg.WaterAbundance
	noise := rng.NewNoiseGenerator(rng.Hash(seedValue, springSalt))

	for _, p := range geo.TransitionZones {
		props := geology.Properties(geo.FormationAt(p.X, p.Y))
		if !props.HostsSprings {
			continue
		}

		chance := noise.At(float64(p.X)*0.21, float64(p.Y)*0.21)
		if topo.TileAt(p.X, p.Y).Slope > 15 {
			chance += springSlopeBonus
		}
		if chance > threshold {
			layer.TileAt(p.X, p.Y).IsSpring = true
			layer.Springs = append(layer.Springs, p)
		}
	}
}

// markStreams tags every tile whose accumulation clears the context
// threshold.
func markStreams(layer *Layer, ctx tactical.Context, cfg config.Config) {
	threshold := streamThresholds[ctx.Hydrology] / cfg.WaterAbundance
	for i := range layer.Tiles {
		if float64(layer.Tiles[i].FlowAccumulation) >= threshold {
			layer.Tiles[i].IsStream = true
		}
	}
}

// assignStrahlerOrders iterates stream orders to a fixed point: a tile's
// order is the maximum tributary order, plus one when two or more
// tributaries share that maximum.
func assignStrahlerOrders(layer *Layer) {
	dims := layer.Dims

	for i := range layer.Tiles {
		if layer.Tiles[i].IsStream {
			layer.Tiles[i].StreamOrder = 1
		}
	}

	for changed := true; changed; {
		changed = false
		for y := 0; y < dims.Height; y++ {
			for x := 0; x < dims.Width; x++ {
				tile := layer.TileAt(x, y)
				if !tile.IsStream {
					continue
				}

				maxOrder, countAtMax := 0, 0
				for dir, n := range grid.Neighbors8 {
					nx, ny := x+n.X, y+n.Y
					if !dims.InBounds(nx, ny) {
						continue
					}
					neighbor := layer.TileAt(nx, ny)
					if !neighbor.IsStream || !flowsInto(neighbor.FlowDirection, dir) {
						continue
					}
					if neighbor.StreamOrder > maxOrder {
						maxOrder = neighbor.StreamOrder
						countAtMax = 1
					} else if neighbor.StreamOrder == maxOrder && maxOrder > 0 {
						countAtMax++
					}
				}

				order := 1
				if maxOrder > 0 {
					order = maxOrder
					if countAtMax >= 2 {
						order++
					}
				}
				if order > tile.StreamOrder {
					tile.StreamOrder = order
					changed = true
				}
			}
		}
	}
}

// flowsInto reports whether a neighbor in direction dir (from the center's
// point of view) drains into the center: its flow direction must be the
// opposite of dir.
func flowsInto(neighborFlow, dir int) bool {
	return neighborFlow == (dir+4)%8
}

// assignWaterDepth gives streams depth from their order and fills pools in
// still low ground.
func assignWaterDepth(layer *Layer, topo *topography.Layer, ctx tactical.Context,
	seedValue uint32, cfg config.Config) {

	dims := layer.Dims
	depthNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, depthSalt))
	poolNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, poolSalt))
	depthFactor := depthFactors[ctx.Hydrology]
	poolThreshold := basePoolThreshold / cfg.WaterAbundance
	elevRange := topo.Range()

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			tile := layer.TileAt(x, y)
			topoTile := topo.TileAt(x, y)

			if tile.IsStream {
				depth := float64(tile.StreamOrder) * 0.5 * depthFactor *
					(0.8 + 0.4*depthNoise.At(float64(x)*0.17, float64(y)*0.17))
				if topoTile.IsValley {
					depth *= 1.5
				}
				tile.WaterDepth = depth
			}

			// Pool detection is pinned to: (is_valley OR low elevation) AND
			// gentle AND not arid.
			lowGround := elevRange > 0 && topoTile.Elevation <= topo.MinElevation+elevRange*lowElevationCut
			if (topoTile.IsValley || lowGround) && topoTile.Slope < 5 && ctx.Hydrology != tactical.HydrologyArid {
				n := poolNoise.At(float64(x)*0.19, float64(y)*0.19)
				if n > poolThreshold {
					poolDepth := 1 + n*2
					if poolDepth > tile.WaterDepth {
						tile.WaterDepth = poolDepth
					}
					tile.IsPool = true
				}
			}
		}
	}
}

// assignMoisture grades every tile, starting from the context baseline and
// adjusting for standing water, accumulation and rock permeability.
func assignMoisture(layer *Layer, geo *geology.Layer, ctx tactical.Context) {
	baseline, ok := moistureBaselines[ctx.Hydrology]
	if !ok {
		baseline = MoistureModerate
	}

	for i := range layer.Tiles {
		tile := &layer.Tiles[i]

		moisture := baseline
		switch {
		case tile.WaterDepth > 0:
			moisture = MoistureSaturated
		case tile.FlowAccumulation > 20:
			moisture = maxMoisture(moisture, MoistureWet)
		case tile.FlowAccumulation > 10:
			moisture = maxMoisture(moisture, MoistureMoist)
		}

		// Impermeable rock keeps water near the surface; highly permeable
		// rock drains it away.
		switch geo.Tiles[i].Permeability {
		case geology.PermeabilityImpermeable:
			if moisture < MoistureSaturated {
				moisture++
			}
		case geology.PermeabilityHigh:
			if moisture > MoistureArid {
				moisture--
			}
		}

		tile.Moisture = moisture
	}
}

// extractStreamSegments traces connected stream runs downstream. Iteration
// is row-major by contract; changing it would silently renumber segments.
func extractStreamSegments(layer *Layer, seedValue uint32) []StreamSegment {
	dims := layer.Dims
	visited := make([]bool, dims.Count())
	var segments []StreamSegment

	idStream := rng.NewStream(rng.Hash(seedValue, segmentSalt))

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			idx := dims.Index(x, y)
			if visited[idx] || !layer.Tiles[idx].IsStream {
				continue
			}

			var points []grid.Point
			order := 0
			cx, cy := x, y
			for {
				ci := dims.Index(cx, cy)
				if visited[ci] || !layer.Tiles[ci].IsStream {
					break
				}
				visited[ci] = true
				points = append(points, grid.Point{X: cx, Y: cy})
				if layer.Tiles[ci].StreamOrder > order {
					order = layer.Tiles[ci].StreamOrder
				}

				dir := layer.Tiles[ci].FlowDirection
				if dir == FlowSink {
					break
				}
				n := grid.Neighbors8[dir]
				cx, cy = cx+n.X, cy+n.Y
				if !dims.InBounds(cx, cy) {
					break
				}
			}

			if len(points) >= 3 {
				segments = append(segments, StreamSegment{
					ID:     deterministicUUID(idStream),
					Points: points,
					Order:  order,
					Width:  (order + 1) / 2,
				})
			}
		}
	}

	return segments
}

// deterministicUUID builds a v4-shaped UUID from the segment id stream so
// repeated generations agree byte for byte.
func deterministicUUID(stream *rng.Stream) uuid.UUID {
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

func waterCoverage(layer *Layer) float64 {
	wet := 0
	for _, t := range layer.Tiles {
		if t.WaterDepth > 0 {
			wet++
		}
	}
	return 100 * float64(wet) / float64(len(layer.Tiles))
}

func maxMoisture(a, b Moisture) Moisture {
	if a > b {
		return a
	}
	return b
}
