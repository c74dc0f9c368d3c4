// Package features tags the finished terrain with gameplay: hazards,
// harvestable resources, landmarks and tactical features. It reads every
// earlier layer and is the last stage of the pipeline.
package features

import (
	"tacmap-backend/internal/errors"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/grid"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/structures"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/mapgen/vegetation"
	"tacmap-backend/internal/rng"
)

const (
	featureSalt = 0xfe01

	highGroundFraction   = 0.8
	ancientTreeHeight    = 55.0
	battlefieldRadius    = 3
	steepUnstableSlope   = 50.0
)

// Inputs bundles the five upstream layers the feature pass reads.
type Inputs struct {
	Geology    *geology.Layer
	Topography *topography.Layer
	Hydrology  *hydrology.Layer
	Vegetation *vegetation.Layer
	Structures *structures.Layer
}

// Generate produces the features layer.
func Generate(in Inputs, ctx tactical.Context, seedValue uint32) (*Layer, error) {
	if in.Geology == nil || in.Topography == nil || in.Hydrology == nil ||
		in.Vegetation == nil || in.Structures == nil {
		return nil, errors.Dependency("features", "one or more upstream layers are nil")
	}
	dims := in.Geology.Dims
	if in.Topography.Dims != dims || in.Hydrology.Dims != dims ||
		in.Vegetation.Dims != dims || in.Structures.Dims != dims {
		return nil, errors.Dependency("features", "layer dimensions disagree")
	}

	layer := &Layer{
		Dims:  dims,
		Tiles: make([]Tile, dims.Count()),
	}
	for i := range layer.Tiles {
		layer.Tiles[i].HazardLevel = HazardNone
	}

	ruinedSites := collectRuinedSites(in.Structures)

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			stream := rng.NewStream(rng.TileSeed(seedValue, x, y, featureSalt))

			// Priority: landmark > hazard > resource > tactical. The first
			// category that claims the tile wins; a tile carries at most one
			// feature.
			feature := detectLandmark(in, ruinedSites, x, y, stream)
			if feature == nil {
				feature = detectHazard(in, x, y, stream)
			}
			if feature == nil {
				feature = detectResource(in, x, y, stream)
			}
			if feature == nil {
				feature = detectTactical(in, x, y, stream)
			}
			if feature == nil {
				continue
			}

			placeFeature(layer, *feature)
		}
	}

	layer.TotalFeatureCount = len(layer.Hazards) + len(layer.Resources) +
		len(layer.Landmarks) + len(layer.TacticalFeatures)

	return layer, nil
}

func placeFeature(layer *Layer, f Feature) {
	tile := layer.TileAt(f.Position.X, f.Position.Y)
	tile.HasFeature = true
	tile.FeatureType = f.Type
	tile.HazardLevel = f.HazardLevel
	tile.ResourceValue = f.Value
	tile.Visibility = f.Visibility
	tile.Interaction = f.Interaction
	tile.Description = f.Description

	switch f.Category {
	case CategoryLandmark:
		layer.Landmarks = append(layer.Landmarks, f)
	case CategoryHazard:
		layer.Hazards = append(layer.Hazards, f)
	case CategoryResource:
		layer.Resources = append(layer.Resources, f)
	case CategoryTactical:
		layer.TacticalFeatures = append(layer.TacticalFeatures, f)
	}
}

func collectRuinedSites(str *structures.Layer) []grid.Point {
	var sites []grid.Point
	for _, b := range str.Buildings {
		if b.Condition == structures.ConditionRuined {
			sites = append(sites, b.Origin)
		}
	}
	return sites
}

func detectLandmark(in Inputs, ruinedSites []grid.Point, x, y int, stream *rng.Stream) *Feature {
	topoTile := in.Topography.TileAt(x, y)
	vegTile := in.Vegetation.TileAt(x, y)
	geoTile := in.Geology.TileAt(x, y)

	// Battlefield remains gather near ruined buildings.
	for _, site := range ruinedSites {
		dx, dy := site.X-x, site.Y-y
		if dx*dx+dy*dy <= battlefieldRadius*battlefieldRadius && stream.Float64() > 0.9 {
			return &Feature{
				Type: "battlefield_remains", Category: CategoryLandmark,
				Position:    grid.Point{X: x, Y: y},
				Visibility:  VisibilityNoticeable,
				Interaction: InteractionInvestigate,
				Description: "rusted weapons and splintered shields half-buried in the soil",
			}
		}
	}

	if vegTile.CanopyHeight > ancientTreeHeight && stream.Float64() > 0.92 {
		return &Feature{
			Type: "ancient_tree", Category: CategoryLandmark,
			Position:    grid.Point{X: x, Y: y},
			Visibility:  VisibilityObvious,
			Interaction: InteractionInvestigate,
			Description: "a tree of immense girth, older than any settlement nearby",
		}
	}

	if topoTile.IsRidge && stream.Float64() > 0.96 {
		return &Feature{
			Type: "standing_stones", Category: CategoryLandmark,
			Position:    grid.Point{X: x, Y: y},
			Visibility:  VisibilityObvious,
			Interaction: InteractionInvestigate,
			Description: "a ring of weathered monoliths crowning the ridge",
		}
	}

	for _, f := range geoTile.Features {
		if f == geology.FeatureCaveEntrance && stream.Float64() > 0.5 {
			return &Feature{
				Type: "cave_entrance", Category: CategoryLandmark,
				Position:    grid.Point{X: x, Y: y},
				Visibility:  VisibilityNoticeable,
				Interaction: InteractionInvestigate,
				Description: "a dark opening breathing cold air from below",
			}
		}
	}

	return nil
}

func detectHazard(in Inputs, x, y int, stream *rng.Stream) *Feature {
	topoTile := in.Topography.TileAt(x, y)
	hydroTile := in.Hydrology.TileAt(x, y)
	vegTile := in.Vegetation.TileAt(x, y)
	geoTile := in.Geology.TileAt(x, y)

	if hydroTile.Moisture == hydrology.MoistureSaturated && topoTile.Slope < 5 && stream.Float64() > 0.93 {
		return &Feature{
			Type: "quicksand", Category: CategoryHazard,
			Position:    grid.Point{X: x, Y: y},
			HazardLevel: HazardSevere,
			Visibility:  VisibilityHidden,
			Interaction: InteractionAvoid,
			Description: "ground that looks firm but swallows whatever steps on it",
		}
	}

	if topoTile.Slope > steepUnstableSlope && hasGeoFeature(geoTile, geology.FeatureTalusSlope) {
		return &Feature{
			Type: "unstable_ground", Category: CategoryHazard,
			Position:    grid.Point{X: x, Y: y},
			HazardLevel: HazardModerate,
			Visibility:  VisibilityNoticeable,
			Interaction: InteractionAvoid,
			Description: "loose talus ready to slide under weight",
		}
	}

	if vegTile.Type == vegetation.TypeDense && stream.Float64() > 0.95 {
		return &Feature{
			Type: "poison_plants", Category: CategoryHazard,
			Position:    grid.Point{X: x, Y: y},
			HazardLevel: HazardMinor,
			Visibility:  VisibilityHidden,
			Interaction: InteractionAvoid,
			Description: "glossy leaves that blister skin on contact",
		}
	}

	if hasGeoFeature(geoTile, geology.FeatureCaveEntrance) && stream.Float64() > 0.85 {
		return &Feature{
			Type: "animal_den", Category: CategoryHazard,
			Position:    grid.Point{X: x, Y: y},
			HazardLevel: HazardModerate,
			Visibility:  VisibilityHidden,
			Interaction: InteractionAvoid,
			Description: "fresh tracks and gnawed bones around a burrow mouth",
		}
	}

	return nil
}

func detectResource(in Inputs, x, y int, stream *rng.Stream) *Feature {
	hydroTile := in.Hydrology.TileAt(x, y)
	vegTile := in.Vegetation.TileAt(x, y)
	geoTile := in.Geology.TileAt(x, y)

	if hydroTile.IsSpring {
		return &Feature{
			Type: "fresh_water", Category: CategoryResource,
			Position:    grid.Point{X: x, Y: y},
			Value:       0.9,
			Visibility:  VisibilityObvious,
			Interaction: InteractionHarvest,
			Description: "clear water welling up between the stones",
		}
	}

	if vegTile.IsClearing && stream.Float64() > 0.7 {
		return &Feature{
			Type: "medicinal_herbs", Category: CategoryResource,
			Position:    grid.Point{X: x, Y: y},
			Value:       stream.Range(0.4, 0.8),
			Visibility:  VisibilityNoticeable,
			Interaction: InteractionHarvest,
			Description: "low herbs prized by healers growing in the open light",
		}
	}

	if isForestEdge(in.Vegetation, x, y) && stream.Float64() > 0.8 {
		return &Feature{
			Type: "berry_bushes", Category: CategoryResource,
			Position:    grid.Point{X: x, Y: y},
			Value:       stream.Range(0.2, 0.5),
			Visibility:  VisibilityObvious,
			Interaction: InteractionHarvest,
			Description: "brambles heavy with ripe berries along the treeline",
		}
	}

	if geoTile.SoilDepth < 0.5 && len(geoTile.Features) > 0 && stream.Float64() > 0.85 {
		return &Feature{
			Type: "mineral_deposit", Category: CategoryResource,
			Position:    grid.Point{X: x, Y: y},
			Value:       stream.Range(0.3, 1.0),
			Visibility:  VisibilityHidden,
			Interaction: InteractionHarvest,
			Description: "a vein of ore glinting in exposed rock",
		}
	}

	return nil
}

func detectTactical(in Inputs, x, y int, stream *rng.Stream) *Feature {
	topoTile := in.Topography.TileAt(x, y)
	vegTile := in.Vegetation.TileAt(x, y)
	strTile := in.Structures.TileAt(x, y)

	observedMax := in.Topography.ObservedMax
	if observedMax > 0 && topoTile.Elevation >= observedMax*highGroundFraction && stream.Float64() > 0.7 {
		return &Feature{
			Type: "high_ground", Category: CategoryTactical,
			Position:    grid.Point{X: x, Y: y},
			Visibility:  VisibilityObvious,
			Interaction: InteractionPassive,
			Description: "a commanding rise overlooking the field",
		}
	}

	if topoTile.IsValley && impassableNeighborCount(in, x, y) >= 2 {
		return &Feature{
			Type: "choke_point", Category: CategoryTactical,
			Position:    grid.Point{X: x, Y: y},
			Visibility:  VisibilityObvious,
			Interaction: InteractionPassive,
			Description: "a narrow passage the terrain funnels everything through",
		}
	}

	if vegTile.ProvidesConcealment && adjacentToRoad(in.Structures, x, y) && stream.Float64() > 0.85 {
		return &Feature{
			Type: "ambush_site", Category: CategoryTactical,
			Position:    grid.Point{X: x, Y: y},
			Visibility:  VisibilityHidden,
			Interaction: InteractionPassive,
			Description: "thick growth within a stone's throw of the road",
		}
	}

	if strTile.StructureType == string(structures.BuildingTower) ||
		strTile.StructureType == string(structures.BuildingWatchtower) {
		return &Feature{
			Type: "vantage_point", Category: CategoryTactical,
			Position:    grid.Point{X: x, Y: y},
			Visibility:  VisibilityObvious,
			Interaction: InteractionPassive,
			Description: "a tower with sightlines over every approach",
		}
	}

	return nil
}

func hasGeoFeature(tile *geology.Tile, feature geology.TerrainFeature) bool {
	for _, f := range tile.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// isForestEdge reports whether (x, y) is inside a forest zone but touches a
// non-forest 4-neighbor.
func isForestEdge(veg *vegetation.Layer, x, y int) bool {
	tile := veg.TileAt(x, y)
	if tile.ZoneID < 0 || veg.Zones[tile.ZoneID].Kind != vegetation.ZoneForest {
		return false
	}
	for _, n := range grid.Neighbors4 {
		nx, ny := x+n.X, y+n.Y
		if !veg.Dims.InBounds(nx, ny) {
			continue
		}
		neighbor := veg.TileAt(nx, ny)
		if neighbor.ZoneID != tile.ZoneID {
			return true
		}
	}
	return false
}

// impassableNeighborCount counts 4-neighbors nothing can move through.
func impassableNeighborCount(in Inputs, x, y int) int {
	count := 0
	for _, n := range grid.Neighbors4 {
		nx, ny := x+n.X, y+n.Y
		if !in.Geology.Dims.InBounds(nx, ny) {
			continue
		}
		if !in.Vegetation.TileAt(nx, ny).IsPassable ||
			!in.Structures.TileAt(nx, ny).IsPassable ||
			in.Hydrology.TileAt(nx, ny).WaterDepth > 1 ||
			in.Topography.TileAt(nx, ny).Slope > 45 {
			count++
		}
	}
	return count
}

func adjacentToRoad(str *structures.Layer, x, y int) bool {
	for _, n := range grid.Neighbors8 {
		nx, ny := x+n.X, y+n.Y
		if !str.Dims.InBounds(nx, ny) {
			continue
		}
		t := str.TileAt(nx, ny)
		if t.StructureType == "road" || t.StructureType == "bridge" {
			return true
		}
	}
	return false
}
