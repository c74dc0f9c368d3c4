package vegetation

import (
	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/grid"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/rng"
)

const (
	zoneNoiseSalt = 0x7601
	subtypeSalt   = 0x7602
	clearingSalt  = 0x7603

	zoneNoiseScale = 0.06
	steepRockSlope = 40.0
)

// selectZoneKinds assigns a candidate zone kind to every tile from
// low-frequency noise biased by biome, moisture, slope and elevation. Water
// tiles and impassable rock carry no zone.
func selectZoneKinds(geo *geology.Layer, topo *topography.Layer, hydro *hydrology.Layer,
	ctx tactical.Context, seedValue uint32, cfg config.Config) []ZoneKind {

	dims := geo.Dims
	noise := rng.NewNoiseGenerator(rng.Hash(seedValue, zoneNoiseSalt))
	kinds := make([]ZoneKind, dims.Count())

	// An explicit terrain weight vector shifts how much of the map reads as
	// forest versus open grass.
	forestBias := 0.0
	if cfg.TerrainWeights != nil {
		forestBias = (cfg.TerrainWeights.Forest - 0.2) * 0.5
	}

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			idx := dims.Index(x, y)
			topoTile := topo.TileAt(x, y)
			hydroTile := hydro.TileAt(x, y)

			// Excluded ground: open water and bare rock.
			if hydroTile.WaterDepth > 0 || topoTile.Slope > steepRockSlope {
				continue
			}
			if hasPositiveRelief(geo, x, y) {
				continue
			}

			n := noise.At(float64(x)*zoneNoiseScale, float64(y)*zoneNoiseScale)
			kinds[idx] = pickZoneKind(ctx, topoTile, hydroTile, n+forestBias, cfg)
		}
	}

	return kinds
}

func hasPositiveRelief(geo *geology.Layer, x, y int) bool {
	for _, f := range geo.TileAt(x, y).Features {
		if geology.IsPositiveRelief(f) {
			return true
		}
	}
	return false
}

// pickZoneKind resolves the candidate kind for one tile. The empty string
// means bare ground.
func pickZoneKind(ctx tactical.Context, topoTile *topography.Tile, hydroTile *hydrology.Tile,
	n float64, cfg config.Config) ZoneKind {

	saturatedGround := hydroTile.Moisture >= hydrology.MoistureWet
	highGround := ctx.Elevation == tactical.ZoneAlpine || topoTile.RelativeElevation > 0.5

	switch ctx.Biome {
	case tactical.BiomeUnderground:
		// Only moisture supports growth away from the sun.
		if saturatedGround {
			return ZoneWetland
		}
		return ""

	case tactical.BiomeDesert:
		switch {
		case n > 0.75:
			return ZoneShrubland
		case n > 0.62 && hydroTile.Moisture >= hydrology.MoistureDry:
			return ZoneGrassland
		default:
			return ""
		}

	case tactical.BiomeSwamp:
		switch {
		case saturatedGround || n > 0.5:
			return ZoneWetland
		case n > 0.35 && cfg.GenerateForests:
			return ZoneForest
		default:
			return ZoneMeadow
		}

	case tactical.BiomeMountain:
		if highGround {
			if n > 0.35 {
				return ZoneAlpineMeadow
			}
			return ZoneShrubland
		}
		if n > 0.55 && cfg.GenerateForests {
			return ZoneForest
		}
		if n > 0.4 {
			return ZoneShrubland
		}
		return ZoneMeadow

	case tactical.BiomeForest:
		if saturatedGround {
			return ZoneWetland
		}
		if highGround && ctx.Elevation == tactical.ZoneAlpine {
			return ZoneAlpineMeadow
		}
		if cfg.GenerateForests && n > 0.35 {
			return ZoneForest
		}
		if n > 0.22 {
			return ZoneMeadow
		}
		return ZoneShrubland

	case tactical.BiomePlains:
		switch {
		case n > 0.85 && cfg.GenerateForests:
			return ZoneForest
		case n > 0.75:
			return ZoneShrubland
		case n > 0.6:
			return ZoneMeadow
		default:
			return ZoneGrassland
		}

	case tactical.BiomeCoastal:
		switch {
		case saturatedGround:
			return ZoneWetland
		case n > 0.8:
			return ZoneShrubland
		case n > 0.6:
			return ZoneMeadow
		default:
			return ZoneGrassland
		}
	}

	return ""
}

// buildZones flood-fills contiguous same-kind tiles into zones. Discovery
// runs row-major, so zone ids are stable for a given kind field.
func buildZones(layer *Layer, kinds []ZoneKind, ctx tactical.Context, seedValue uint32) {
	dims := layer.Dims
	visited := make([]bool, dims.Count())

	for i := range layer.Tiles {
		layer.Tiles[i].ZoneID = -1
	}

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			start := dims.Index(x, y)
			if visited[start] || kinds[start] == "" {
				continue
			}

			kind := kinds[start]
			zoneID := len(layer.Zones)
			zone := Zone{ID: zoneID, Kind: kind}

			// Flood fill over 4-neighbors of the same kind.
			stack := []grid.Point{{X: x, Y: y}}
			visited[start] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				zone.Tiles = append(zone.Tiles, p)
				layer.Tiles[dims.Index(p.X, p.Y)].ZoneID = zoneID

				for _, n := range grid.Neighbors4 {
					nx, ny := p.X+n.X, p.Y+n.Y
					if !dims.InBounds(nx, ny) {
						continue
					}
					ni := dims.Index(nx, ny)
					if !visited[ni] && kinds[ni] == kind {
						visited[ni] = true
						stack = append(stack, grid.Point{X: nx, Y: ny})
					}
				}
			}

			zone.Subtype = pickSubtype(kind, ctx, seedValue, zoneID)
			layer.Zones = append(layer.Zones, zone)
			if kind == ZoneForest {
				layer.ForestPatches = append(layer.ForestPatches, zoneID)
			}
		}
	}
}

// pickSubtype chooses a biome-appropriate subtype for a zone.
func pickSubtype(kind ZoneKind, ctx tactical.Context, seedValue uint32, zoneID int) string {
	profile := zoneProfiles[kind]
	if len(profile.Subtypes) == 0 {
		return ""
	}

	// Context forces the obvious picks before the random draw.
	if kind == ZoneMeadow {
		if ctx.Hydrology == tactical.HydrologyWetland {
			return "wet"
		}
		if ctx.Elevation == tactical.ZoneAlpine {
			return "alpine"
		}
	}
	if kind == ZoneForest && ctx.Season == tactical.SeasonWinter && ctx.Elevation == tactical.ZoneAlpine {
		return "boreal"
	}

	stream := rng.NewStream(rng.Hash(seedValue, subtypeSalt, uint32(zoneID)))
	return profile.Subtypes[stream.IntN(len(profile.Subtypes))]
}

// carveClearings samples small circular gaps inside forest zones. Clearing
// tiles keep their zone but grow only ground cover.
func carveClearings(layer *Layer, seedValue uint32) {
	dims := layer.Dims

	for _, zoneID := range layer.ForestPatches {
		zone := layer.Zones[zoneID]
		count := len(zone.Tiles) / 50
		if count == 0 {
			continue
		}

		stream := rng.NewStream(rng.Hash(seedValue, clearingSalt, uint32(zoneID)))
		for i := 0; i < count; i++ {
			center := zone.Tiles[stream.IntN(len(zone.Tiles))]
			radius := stream.Range(1.0, 2.5)
			layer.Clearings = append(layer.Clearings, Clearing{Center: center, Radius: radius})

			r := int(radius) + 1
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					px, py := center.X+dx, center.Y+dy
					if !dims.InBounds(px, py) {
						continue
					}
					if float64(dx*dx+dy*dy) > radius*radius {
						continue
					}
					tile := layer.TileAt(px, py)
					if tile.ZoneID == zoneID {
						tile.IsClearing = true
					}
				}
			}
		}
	}
}
