package orchestrator

import (
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/vegetation"
)

// assembleTiles flattens the six layer outputs into the serialized tile
// array, row-major (y outer, x inner) by contract.
func assembleTiles(layers *LayerOutputs, ctx tactical.Context) []MapTile {
	dims := layers.Geology.Dims
	tiles := make([]MapTile, 0, dims.Count())

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			tile := MapTile{
				X:         x,
				Y:         y,
				Terrain:   terrainOf(layers, ctx, x, y),
				Elevation: layers.Topography.TileAt(x, y).Elevation,
				Features:  tileFeatures(layers, x, y),
			}
			tiles = append(tiles, tile)
		}
	}

	return tiles
}

// terrainOf derives the dominant terrain string from water depth,
// vegetation and rock exposure.
func terrainOf(layers *LayerOutputs, ctx tactical.Context, x, y int) string {
	if layers.Hydrology.TileAt(x, y).WaterDepth > 0 {
		return "water"
	}

	vegTile := layers.Vegetation.TileAt(x, y)
	switch vegTile.Type {
	case vegetation.TypeDense, vegetation.TypeSparse:
		return "forest"
	case vegetation.TypeWetland:
		return "swamp"
	}

	// Bare ground: rock exposure or biome decides.
	geoTile := layers.Geology.TileAt(x, y)
	topoTile := layers.Topography.TileAt(x, y)
	if topoTile.Slope > 30 && geoTile.SoilDepth < 1 {
		return "mountain"
	}
	if vegTile.Type == vegetation.TypeNone {
		switch ctx.Biome {
		case tactical.BiomeDesert:
			return "desert"
		case tactical.BiomeMountain, tactical.BiomeUnderground:
			return "mountain"
		case tactical.BiomeSwamp:
			return "swamp"
		}
	}

	return "grassland"
}

// tileFeatures lists the tile's feature strings: vegetation type, structure
// type, cover class and any gameplay feature.
func tileFeatures(layers *LayerOutputs, x, y int) []string {
	features := []string{}

	vegTile := layers.Vegetation.TileAt(x, y)
	if vegTile.Type != vegetation.TypeNone {
		features = append(features, string(vegTile.Type))
	}

	strTile := layers.Structures.TileAt(x, y)
	if strTile.HasStructure {
		features = append(features, strTile.StructureType)
	}

	if cover := coverClass(layers, x, y); cover != "" {
		features = append(features, cover)
	}

	featTile := layers.Features.TileAt(x, y)
	if featTile.HasFeature {
		features = append(features, featTile.FeatureType)
	}

	return features
}

// coverClass grades the protection a tile offers: structures give full
// cover, heavy vegetation partial, light vegetation concealment only.
func coverClass(layers *LayerOutputs, x, y int) string {
	strTile := layers.Structures.TileAt(x, y)
	vegTile := layers.Vegetation.TileAt(x, y)

	switch {
	case strTile.ProvidesCover:
		return "cover_full"
	case vegTile.ProvidesCover:
		return "cover_partial"
	case vegTile.ProvidesConcealment:
		return "concealment"
	default:
		return ""
	}
}
