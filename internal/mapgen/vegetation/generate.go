// Package vegetation populates the map with plant life: contiguous zones
// chosen from moisture, slope and biome, then individual plants generated
// per tile from position-derived seeds.
package vegetation

import (
	"math"

	"tacmap-backend/internal/errors"
	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/grid"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/rng"
)

const (
	plantSalt = 0x7604

	// denseCanopyCut is the tile canopy coverage above which trees read as
	// dense woodland.
	denseCanopyCut = 0.55
	// canopyReferenceArea normalizes canopy coverage: a mature crown shades
	// its own tile and spills into the neighbors, so coverage references a
	// two-by-two tile footprint.
	canopyReferenceArea = 4 * topography.FeetPerTile * topography.FeetPerTile
)

// Generate produces the vegetation layer from hydrology, topography and
// geology.
func Generate(hydro *hydrology.Layer, topo *topography.Layer, geo *geology.Layer,
	ctx tactical.Context, seedValue uint32, cfg config.Config) (*Layer, error) {

	if hydro == nil || len(hydro.Tiles) == 0 {
		return nil, errors.Dependency("vegetation", "hydrology layer is nil or empty")
	}
	if topo == nil || len(topo.Tiles) == 0 {
		return nil, errors.Dependency("vegetation", "topography layer is nil or empty")
	}
	if geo == nil || len(geo.Tiles) == 0 {
		return nil, errors.Dependency("vegetation", "geology layer is nil or empty")
	}
	if hydro.Dims != topo.Dims || topo.Dims != geo.Dims {
		return nil, errors.Dependency("vegetation", "layer dimensions disagree")
	}

	dims := hydro.Dims
	layer := &Layer{
		Dims:  dims,
		Tiles: make([]Tile, dims.Count()),
	}

	kinds := selectZoneKinds(geo, topo, hydro, ctx, seedValue, cfg)
	buildZones(layer, kinds, ctx, seedValue)
	carveClearings(layer, seedValue)
	populateTiles(layer, hydro, topo, ctx, seedValue, cfg)
	aggregate(layer, hydro)

	return layer, nil
}

// populateTiles generates plant instances for every zoned tile. Each tile
// derives its own seed from (master, x, y, zone), so output is independent
// of iteration order.
func populateTiles(layer *Layer, hydro *hydrology.Layer, topo *topography.Layer,
	ctx tactical.Context, seedValue uint32, cfg config.Config) {

	dims := layer.Dims
	seasonFactor := seasonDensityFactor[ctx.Season]

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			tile := layer.TileAt(x, y)
			if tile.ZoneID < 0 {
				continue
			}

			zone := layer.Zones[tile.ZoneID]
			profile := zoneProfiles[zone.Kind]
			stream := rng.NewStream(rng.TileSeed(seedValue, x, y, rng.Hash(plantSalt, uint32(zone.ID))))

			modifier := densityModifier(layer, hydro, topo, profile, x, y)

			for _, stratum := range strataOrder {
				base, ok := profile.Density[stratum]
				if !ok {
					continue
				}
				if tile.IsClearing && stratum != StratumGroundCover {
					continue
				}
				if stratum == StratumAquatic && hydro.TileAt(x, y).Moisture < hydrology.MoistureWet {
					continue
				}

				density := base * modifier * cfg.VegetationMultiplier
				if stratum == StratumHerbs || stratum == StratumGroundCover {
					density *= seasonFactor
				}

				count := int(density * (0.7 + 0.6*stream.Float64()))
				for i := 0; i < count; i++ {
					tile.Plants = append(tile.Plants, growPlant(profile.Species[stratum], stratum, stream))
				}
			}
		}
	}
}

// densityModifier folds the environmental factors for one tile: zone edges,
// steep ground and moisture extremes thin growth; wet ground thickens it.
// Wet meadow profiles invert the moisture bias.
func densityModifier(layer *Layer, hydro *hydrology.Layer, topo *topography.Layer,
	profile zoneProfile, x, y int) float64 {

	dims := layer.Dims
	tile := layer.TileAt(x, y)
	modifier := 1.0

	for _, n := range grid.Neighbors4 {
		nx, ny := x+n.X, y+n.Y
		if !dims.InBounds(nx, ny) || layer.TileAt(nx, ny).ZoneID != tile.ZoneID {
			modifier *= 0.6 // zone edge
			break
		}
	}

	if topo.TileAt(x, y).Slope > 20 {
		modifier *= 0.7
	}

	moisture := hydro.TileAt(x, y).Moisture
	dryGround := moisture < hydrology.MoistureModerate
	wetGround := moisture > hydrology.MoistureWet
	if profile.WetMeadow {
		dryGround, wetGround = wetGround, dryGround
	}
	if dryGround {
		modifier *= 0.5
	}
	if wetGround {
		modifier *= 1.2
	}

	return modifier
}

// growPlant samples one plant from a stratum's species list.
func growPlant(species []speciesSpec, stratum Stratum, stream *rng.Stream) Plant {
	spec := species[stream.IntN(len(species))]

	age := stream.Range(spec.MinAge, spec.MaxAge)
	growth := math.Min(1, age/spec.MaxAge)
	size := growth * (1 - spec.Variation + 2*spec.Variation*stream.Float64())
	if size > 1 {
		size = 1
	}

	height := spec.MinHeight + size*(spec.MaxHeight-spec.MinHeight)

	plant := Plant{
		Species: spec.Name,
		Stratum: stratum,
		Age:     age,
		Height:  height,
		Health:  stream.Range(0.6, 1.0),
	}
	if spec.IsTree {
		plant.TrunkDiameter = height * 0.035
		plant.CanopyRadius = height * 0.22
	} else {
		plant.CanopyRadius = height * 0.4
	}
	return plant
}

// aggregate derives the per-tile summary fields and the layer statistics
// from the generated plants.
func aggregate(layer *Layer, hydro *hydrology.Layer) {
	coverageSum := 0.0

	for i := range layer.Tiles {
		tile := &layer.Tiles[i]

		trees, shrubs, herbs, cover := 0, 0, 0, 0
		canopyArea := 0.0
		for _, p := range tile.Plants {
			switch p.Stratum {
			case StratumTrees:
				trees++
				canopyArea += math.Pi * p.CanopyRadius * p.CanopyRadius
				if p.Height > tile.CanopyHeight {
					tile.CanopyHeight = p.Height
				}
			case StratumShrubs:
				shrubs++
			case StratumHerbs:
				herbs++
			case StratumGroundCover:
				cover++
			}
		}

		tile.CanopyCoverage = math.Min(1, canopyArea/canopyReferenceArea)
		layer.TotalTreeCount += trees

		zoneKind := ZoneKind("")
		if tile.ZoneID >= 0 {
			zoneKind = layer.Zones[tile.ZoneID].Kind
		}

		switch {
		case zoneKind == ZoneWetland:
			tile.Type = TypeWetland
		case trees > 0 && tile.CanopyCoverage > denseCanopyCut:
			tile.Type = TypeDense
		case trees > 0:
			tile.Type = TypeSparse
		case shrubs > 0:
			tile.Type = TypeShrubs
		case herbs > 0:
			tile.Type = TypeTallGrass
		case cover > 0:
			tile.Type = TypeShortGrass
		default:
			tile.Type = TypeNone
		}

		tile.ProvidesCover = tile.Type == TypeDense || tile.Type == TypeShrubs
		tile.ProvidesConcealment = tile.Type == TypeDense || tile.Type == TypeSparse ||
			tile.Type == TypeShrubs || tile.Type == TypeTallGrass || tile.Type == TypeWetland

		impassableWetland := tile.Type == TypeWetland && hydro.Tiles[i].WaterDepth > 0.5
		tile.IsPassable = !(tile.Type == TypeDense || impassableWetland)

		coverageSum += tile.CanopyCoverage
	}

	layer.AverageCanopyCoverage = coverageSum / float64(len(layer.Tiles))
}
