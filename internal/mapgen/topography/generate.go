// Package topography builds the elevation model on top of the geology layer:
// a three-layer noise stack, differential erosion against rock resistance,
// rock-specific relief carving, variable smoothing, and slope/aspect/ridge
// classification.
package topography

import (
	"math"

	"tacmap-backend/internal/errors"
	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/grid"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/rng"
)

const (
	macroSalt   = 0x701
	tacticSalt  = 0x702
	textureSalt = 0x703
	erosionSalt = 0x704
	wetnessSalt = 0x705
	reliefSalt  = 0x706
)

// zoneReliefFactor scales relief by the map's elevation zone.
var zoneReliefFactor = map[tactical.ElevationZone]float64{
	tactical.ZoneLowland:   0.3,
	tactical.ZoneFoothills: 0.6,
	tactical.ZoneHighland:  0.8,
	tactical.ZoneAlpine:    1.0,
}

// wetnessBaseline approximates ground wetness before hydrology exists; the
// erosion pass needs it.
var wetnessBaseline = map[tactical.Hydrology]float64{
	tactical.HydrologyArid:     0.15,
	tactical.HydrologySeasonal: 0.35,
	tactical.HydrologyStream:   0.5,
	tactical.HydrologyRiver:    0.6,
	tactical.HydrologyLake:     0.6,
	tactical.HydrologyCoastal:  0.6,
	tactical.HydrologyWetland:  0.9,
}

// Generate produces the topography layer from geology.
func Generate(geo *geology.Layer, ctx tactical.Context, seedValue uint32, cfg config.Config) (*Layer, error) {
	if geo == nil || len(geo.Tiles) == 0 {
		return nil, errors.Dependency("topography", "geology layer is nil or empty")
	}

	dims := geo.Dims
	layer := &Layer{
		Dims:  dims,
		Tiles: make([]Tile, dims.Count()),
	}

	ruggedness := cfg.TerrainRuggedness

	// Scale parameters. Physical size in feet decides the category, the
	// category stretches the macro gradient on bigger maps.
	minDimFeet := math.Min(float64(dims.Width), float64(dims.Height)) * FeetPerTile
	layer.Scale = categorize(minDimFeet)

	relief := minDimFeet * 0.4 * cfg.ElevationVariance
	relief *= zoneReliefFactor[ctx.Elevation]
	relief *= 0.4 + 0.6*ruggedness
	layer.MaxElevation = relief
	layer.MinElevation = 0

	elevations := buildElevationStack(geo, layer, seedValue, ruggedness)

	susceptibility := applyDifferentialErosion(geo, ctx, elevations, dims, seedValue, relief, ruggedness)

	if ruggedness >= 1.5 {
		applyFeatureRelief(geo, elevations, dims, seedValue, relief)
	}

	applyVariableSmoothing(elevations, susceptibility, dims, ruggedness, relief)

	for i, elev := range elevations {
		layer.Tiles[i].Elevation = elev
	}

	computeSlopeAspect(layer)
	classifyRidgesValleys(layer)
	finalizeStats(layer)

	return layer, nil
}

func categorize(minDimFeet float64) ScaleCategory {
	switch {
	case minDimFeet < 300:
		return ScaleTactical
	case minDimFeet < 1000:
		return ScaleOperational
	default:
		return ScaleStrategic
	}
}

// macroScaleFactor keeps the macro gradient proportionally smooth as the map
// grows past the tactical band.
var macroScaleFactor = map[ScaleCategory]float64{
	ScaleTactical:    1.0,
	ScaleOperational: 0.7,
	ScaleStrategic:   0.5,
}

// buildElevationStack sums the macro gradient, tactical undulations and
// geological texture into the raw elevation field.
func buildElevationStack(geo *geology.Layer, layer *Layer, seedValue uint32, ruggedness float64) []float64 {
	dims := layer.Dims
	relief := layer.MaxElevation

	macroNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, macroSalt))
	tacticNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, tacticSalt))
	textureNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, textureSalt))

	// Ruggedness trades macro smoothness for tactical detail.
	rugFraction := (ruggedness - 0.5) / 1.5
	macroWeight := 0.7 - 0.4*rugFraction
	tacticWeight := 0.15 + 0.4*rugFraction
	textureWeight := 0.02 + 0.08*rugFraction

	macroScale := 0.001 * macroScaleFactor[layer.Scale]
	tacticScale := 0.015 * (0.7 + 0.6*ruggedness)
	textureScale := 0.02 * (0.5 + 0.75*ruggedness)

	tacticOctaves := int(math.Round(1 + 1.5*ruggedness))
	if tacticOctaves < 1 {
		tacticOctaves = 1
	}
	if tacticOctaves > 4 {
		tacticOctaves = 4
	}

	elevations := make([]float64, dims.Count())
	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			fx := float64(x) * FeetPerTile
			fy := float64(y) * FeetPerTile

			// Large smooth gradient across the whole map.
			macro := macroNoise.Octaves(fx*macroScale, fy*macroScale, 2, 0.6) * relief * macroWeight

			// Hills and hollows at fighting scale, centered on zero.
			tactic := tacticNoise.OctavesSigned(fx*tacticScale, fy*tacticScale, tacticOctaves, 0.5) *
				relief * tacticWeight

			// Fine texture following the rock underneath.
			props := geology.Properties(geo.FormationAt(x, y))
			texture := textureNoise.Signed(fx*textureScale, fy*textureScale) *
				props.TextureIntensity * relief * textureWeight

			elev := macro + tactic + texture
			if elev < 0 {
				elev = 0
			}
			elevations[dims.Index(x, y)] = elev
		}
	}

	return elevations
}

// applyDifferentialErosion lowers soft, fractured, wet and gentle terrain
// more than hard dry rock. Returns the per-tile susceptibility for the
// smoothing pass.
func applyDifferentialErosion(geo *geology.Layer, ctx tactical.Context, elevations []float64,
	dims grid.Dims, seedValue uint32, relief, ruggedness float64) []float64 {

	erosionNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, erosionSalt))
	wetnessNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, wetnessSalt))
	baseline := wetnessBaseline[ctx.Hydrology]

	susceptibility := make([]float64, dims.Count())

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			idx := dims.Index(x, y)
			props := geology.Properties(geo.FormationAt(x, y))
			geoTile := geo.Tiles[idx]

			slopeFactor := provisionalSlope(elevations, dims, x, y) / 45.0
			if slopeFactor > 1 {
				slopeFactor = 1
			}

			wetness := clamp01(baseline + (wetnessNoise.At(float64(x)*0.08, float64(y)*0.08)-0.5)*0.4)

			s := 0.3*(1-props.ErosionResistance) +
				0.2*slopeFactor +
				0.2*geoTile.FractureIntensity +
				0.15*(wetness-0.5) +
				0.15*(1-ruggedness)
			s = clamp01(s)
			susceptibility[idx] = s

			variation := 0.7 + 0.6*erosionNoise.At(float64(x)*0.11, float64(y)*0.11)
			amount := s * variation * relief / 50.0 * 8.0

			elevations[idx] -= amount
			if elevations[idx] < 0 {
				elevations[idx] = 0
			}
		}
	}

	return susceptibility
}

// provisionalSlope estimates slope in degrees from the raw elevation stack,
// before the final slope pass exists.
func provisionalSlope(elevations []float64, dims grid.Dims, x, y int) float64 {
	at := func(px, py int) float64 {
		if px < 0 {
			px = 0
		}
		if px >= dims.Width {
			px = dims.Width - 1
		}
		if py < 0 {
			py = 0
		}
		if py >= dims.Height {
			py = dims.Height - 1
		}
		return elevations[dims.Index(px, py)]
	}

	dx := (at(x+1, y) - at(x-1, y)) / (2 * FeetPerTile)
	dy := (at(x, y+1) - at(x, y-1)) / (2 * FeetPerTile)
	return math.Atan(math.Sqrt(dx*dx+dy*dy)) * 180 / math.Pi
}

// applyVariableSmoothing runs more 5-tap smoothing passes over erodible
// ground than over resistant rock. Valley floors collect sediment and get an
// extra pass; ridge crests keep their edge.
func applyVariableSmoothing(elevations, susceptibility []float64, dims grid.Dims, ruggedness, relief float64) {
	maxPasses := int(math.Round(6 - 3*ruggedness))
	if maxPasses < 0 {
		maxPasses = 0
	}
	if maxPasses == 0 {
		return
	}

	// Relative position in the current elevation range stands in for the
	// ridge/valley classification that does not exist yet.
	minElev, maxElev := minMax(elevations)
	span := maxElev - minElev
	if span <= 0 {
		return
	}

	passes := make([]int, dims.Count())
	for i := range elevations {
		p := int(susceptibility[i] * float64(maxPasses))
		rel := (elevations[i]-minElev)/span*2 - 1
		if rel < -0.3 {
			p++ // sediment settles in low ground
		}
		if rel > 0.3 {
			p--
		}
		if p < 0 {
			p = 0
		}
		if p > maxPasses+1 {
			p = maxPasses + 1
		}
		passes[i] = p
	}

	buffer := make([]float64, len(elevations))
	maxNeeded := 0
	for _, p := range passes {
		if p > maxNeeded {
			maxNeeded = p
		}
	}

	for pass := 0; pass < maxNeeded; pass++ {
		copy(buffer, elevations)
		for y := 0; y < dims.Height; y++ {
			for x := 0; x < dims.Width; x++ {
				idx := dims.Index(x, y)
				if passes[idx] <= pass {
					continue
				}

				// Weighted 5-tap mean, center weight 4.
				sum := buffer[idx] * 4
				weight := 4.0
				for _, n := range grid.Neighbors4 {
					nx, ny := x+n.X, y+n.Y
					if dims.InBounds(nx, ny) {
						sum += buffer[dims.Index(nx, ny)]
						weight++
					}
				}
				elevations[idx] = sum / weight
			}
		}
	}
}

// computeSlopeAspect fills slope (degrees) and aspect (octant) per tile via
// central differences over the 5 ft grid.
func computeSlopeAspect(layer *Layer) {
	dims := layer.Dims
	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			tile := layer.TileAt(x, y)

			dx := (layer.ElevationAt(x+1, y) - layer.ElevationAt(x-1, y)) / (2 * FeetPerTile)
			dy := (layer.ElevationAt(x, y+1) - layer.ElevationAt(x, y-1)) / (2 * FeetPerTile)

			tile.Slope = math.Atan(math.Sqrt(dx*dx+dy*dy)) * 180 / math.Pi
			tile.Aspect = aspectOf(dx, dy)
		}
	}
}

// aspectOf maps the elevation gradient (dx = east minus west, dy = south
// minus north), i.e. the direction in which the ground rises, to a compass
// octant. The grid's +y axis points south.
func aspectOf(dx, dy float64) Aspect {
	if dx == 0 && dy == 0 {
		return AspectFlat
	}

	angle := math.Atan2(dy, dx) * 180 / math.Pi // -180..180, 0 = east, 90 = south
	octant := int(math.Round(angle/45.0)) & 7

	switch octant {
	case 0:
		return AspectEast
	case 1:
		return AspectSoutheast
	case 2:
		return AspectSouth
	case 3:
		return AspectSouthwest
	case 4:
		return AspectWest
	case 5:
		return AspectNorthwest
	case 6:
		return AspectNorth
	default:
		return AspectNortheast
	}
}

// classifyRidgesValleys marks ridge and valley tiles from their 3x3
// neighborhood and flags drainage channels.
func classifyRidgesValleys(layer *Layer) {
	dims := layer.Dims

	minElev, maxElev := math.MaxFloat64, -math.MaxFloat64
	for _, t := range layer.Tiles {
		minElev = math.Min(minElev, t.Elevation)
		maxElev = math.Max(maxElev, t.Elevation)
	}
	span := maxElev - minElev

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			tile := layer.TileAt(x, y)

			if span > 0 {
				tile.RelativeElevation = (tile.Elevation-minElev)/span*2 - 1
			}

			lower, higher := 0, 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if !dims.InBounds(nx, ny) {
						continue
					}
					n := layer.ElevationAt(nx, ny)
					if n < tile.Elevation {
						lower++
					} else if n > tile.Elevation {
						higher++
					}
				}
			}

			if lower >= 6 {
				tile.IsRidge = true
			}
			if higher >= 6 {
				tile.IsValley = true
				tile.IsDrainage = true
			}
			if tile.Slope > 30 && tile.RelativeElevation < -0.3 {
				tile.IsDrainage = true
			}
		}
	}
}

func finalizeStats(layer *Layer) {
	observed := 0.0
	slopeSum := 0.0
	for _, t := range layer.Tiles {
		observed = math.Max(observed, t.Elevation)
		slopeSum += t.Slope
	}
	layer.ObservedMax = observed
	layer.AverageSlope = slopeSum / float64(len(layer.Tiles))
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
