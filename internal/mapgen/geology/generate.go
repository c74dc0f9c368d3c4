// Package geology generates the bedrock layer: rock formations, weathering
// features, soil depth and permeability. It is the first stage of the
// pipeline and reads nothing but the context and seed.
package geology

import (
	"tacmap-backend/internal/errors"
	"tacmap-backend/internal/mapgen/grid"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/rng"
)

const (
	formationSalt = 0x6e01
	fractureSalt  = 0x6e02
	soilSalt      = 0x6e03
	featureSalt   = 0x6e04

	// secondaryChance is the probability of a second formation appearing.
	secondaryChance = 0.35
	// secondaryNoiseCut keeps the primary formation at roughly 70% coverage.
	secondaryNoiseCut = 0.68

	formationNoiseScale = 0.07
	fractureNoiseScale  = 0.23
	soilNoiseScale      = 0.15
)

// Generate produces the geology layer for a map.
func Generate(width, height int, ctx tactical.Context, seedValue uint32) (*Layer, error) {
	candidates := CandidateFormations(ctx)
	if len(candidates) == 0 {
		return nil, errors.Wrap(errors.ErrNoRockTypes,
			"no rock formations available for biome "+string(ctx.Biome), nil)
	}

	dims := grid.Dims{Width: width, Height: height}
	layer := &Layer{
		Dims:  dims,
		Tiles: make([]Tile, dims.Count()),
	}

	// Formation selection. Primary dominates; with some probability a
	// compatible secondary forms contiguous patches.
	stream := rng.NewStream(rng.Hash(seedValue, formationSalt))
	layer.PrimaryFormation = candidates[stream.IntN(len(candidates))]

	if len(candidates) > 1 && stream.Float64() < secondaryChance {
		secondary := candidates[stream.IntN(len(candidates))]
		for secondary == layer.PrimaryFormation {
			secondary = candidates[stream.IntN(len(candidates))]
		}
		layer.SecondaryFormation = &secondary
	}

	formationNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, formationSalt))
	fractureNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, fractureSalt))
	soilNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, soilSalt))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tile := layer.TileAt(x, y)
			fx, fy := float64(x), float64(y)

			// Assign formation via low-frequency noise so the secondary
			// forms contiguous patches rather than salt-and-pepper.
			tile.Formation = layer.PrimaryFormation
			if layer.SecondaryFormation != nil {
				if formationNoise.At(fx*formationNoiseScale, fy*formationNoiseScale) > secondaryNoiseCut {
					tile.Formation = *layer.SecondaryFormation
				}
			}
			props := Properties(tile.Formation)

			// Fracture intensity: high-frequency noise scaled by how readily
			// the rock fractures.
			tile.FractureIntensity = fractureNoise.At(fx*fractureNoiseScale, fy*fractureNoiseScale) * props.FractureTendency

			// Soil accumulates where rock weathers fast and is not shattered.
			tile.SoilDepth = props.WeatheringRate * (1 - tile.FractureIntensity) *
				soilNoise.At(fx*soilNoiseScale, fy*soilNoiseScale) * 10.0

			tile.Permeability = props.Permeability

			// Weathering products, drawn per tile so output depends only on
			// (seed, x, y).
			tileStream := rng.NewStream(rng.TileSeed(seedValue, x, y, featureSalt))
			for _, feature := range props.WeatheringProducts {
				chance := props.WeatheringRate * tile.FractureIntensity * tileStream.Float64()
				if chance > 0.15 {
					tile.Features = append(tile.Features, feature)
					if IsPositiveRelief(feature) && tile.SoilDepth > 1 {
						tile.SoilDepth = 1
					}
				}
			}
		}
	}

	markTransitionZones(layer)

	return layer, nil
}

// markTransitionZones flags every tile whose formation differs from at least
// one 4-neighbor. Transition zones are where hydrology looks for springs.
func markTransitionZones(layer *Layer) {
	dims := layer.Dims
	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			tile := layer.TileAt(x, y)
			for _, n := range grid.Neighbors4 {
				nx, ny := x+n.X, y+n.Y
				if !dims.InBounds(nx, ny) {
					continue
				}
				if layer.FormationAt(nx, ny) != tile.Formation {
					tile.IsTransition = true
					layer.TransitionZones = append(layer.TransitionZones, grid.Point{X: x, Y: y})
					break
				}
			}
		}
	}
}
