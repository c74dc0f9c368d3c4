package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/structures"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/mapgen/vegetation"
)

func buildInputs(t *testing.T, biome tactical.Biome, zone tactical.ElevationZone,
	hydroKind tactical.Hydrology, dev tactical.Development, width, height int, seed uint32) (Inputs, tactical.Context) {
	t.Helper()

	ctx, err := tactical.New(biome, zone, hydroKind, dev, tactical.SeasonSummer)
	require.NoError(t, err)
	geo, err := geology.Generate(width, height, ctx, seed)
	require.NoError(t, err)
	topo, err := topography.Generate(geo, ctx, seed, config.Default())
	require.NoError(t, err)
	hydro, err := hydrology.Generate(topo, geo, ctx, seed, config.Default())
	require.NoError(t, err)
	veg, err := vegetation.Generate(hydro, topo, geo, ctx, seed, config.Default())
	require.NoError(t, err)
	str, err := structures.Generate(veg, hydro, topo, ctx, seed, config.Default())
	require.NoError(t, err)

	return Inputs{Geology: geo, Topography: topo, Hydrology: hydro, Vegetation: veg, Structures: str}, ctx
}

func TestGenerateRejectsMissingLayers(t *testing.T) {
	in, ctx := buildInputs(t, tactical.BiomeForest, tactical.ZoneFoothills,
		tactical.HydrologyStream, tactical.DevelopmentSettled, 20, 20, 1)

	broken := in
	broken.Hydrology = nil
	_, err := Generate(broken, ctx, 1)
	assert.Error(t, err)
}

func TestOneFeaturePerTile(t *testing.T) {
	in, ctx := buildInputs(t, tactical.BiomeForest, tactical.ZoneFoothills,
		tactical.HydrologyStream, tactical.DevelopmentSettled, 50, 50, 12345)

	layer, err := Generate(in, ctx, 12345)
	require.NoError(t, err)

	claimed := make(map[int]Category)
	check := func(features []Feature, cat Category) {
		for _, f := range features {
			idx := layer.Dims.Index(f.Position.X, f.Position.Y)
			_, taken := claimed[idx]
			require.False(t, taken, "tile (%d,%d) carries two features", f.Position.X, f.Position.Y)
			claimed[idx] = cat
			assert.Equal(t, cat, f.Category)
		}
	}
	check(layer.Landmarks, CategoryLandmark)
	check(layer.Hazards, CategoryHazard)
	check(layer.Resources, CategoryResource)
	check(layer.TacticalFeatures, CategoryTactical)

	assert.Equal(t, len(claimed), layer.TotalFeatureCount)
}

func TestTileFieldsMatchFeatureLists(t *testing.T) {
	in, ctx := buildInputs(t, tactical.BiomeForest, tactical.ZoneFoothills,
		tactical.HydrologyStream, tactical.DevelopmentSettled, 50, 50, 777)

	layer, err := Generate(in, ctx, 777)
	require.NoError(t, err)

	tagged := 0
	for _, tile := range layer.Tiles {
		if tile.HasFeature {
			tagged++
			assert.NotEmpty(t, tile.FeatureType)
			assert.NotEmpty(t, tile.Description)
		} else {
			assert.Equal(t, HazardNone, tile.HazardLevel)
		}
	}
	assert.Equal(t, layer.TotalFeatureCount, tagged)
}

func TestSpringsBecomeFreshWater(t *testing.T) {
	// Scan seeds until a map with springs appears, then check each spring
	// tile carries fresh water unless a higher-priority feature claimed it.
	for seed := uint32(1); seed <= 30; seed++ {
		in, ctx := buildInputs(t, tactical.BiomeMountain, tactical.ZoneHighland,
			tactical.HydrologyRiver, tactical.DevelopmentWilderness, 50, 50, seed)
		if len(in.Hydrology.Springs) == 0 {
			continue
		}

		layer, err := Generate(in, ctx, seed)
		require.NoError(t, err)

		for _, p := range in.Hydrology.Springs {
			tile := layer.TileAt(p.X, p.Y)
			require.True(t, tile.HasFeature, "spring tile (%d,%d) must carry a feature", p.X, p.Y)
			if tile.FeatureType == "fresh_water" {
				assert.Equal(t, VisibilityObvious, tile.Visibility)
				assert.Equal(t, InteractionHarvest, tile.Interaction)
			}
		}
		return
	}
	t.Skip("no seed produced springs in 30 tries")
}

func TestHazardLevels(t *testing.T) {
	in, ctx := buildInputs(t, tactical.BiomeSwamp, tactical.ZoneLowland,
		tactical.HydrologyWetland, tactical.DevelopmentWilderness, 50, 50, 31337)

	layer, err := Generate(in, ctx, 31337)
	require.NoError(t, err)

	for _, h := range layer.Hazards {
		assert.NotEqual(t, HazardNone, h.HazardLevel)
		assert.Equal(t, InteractionAvoid, h.Interaction)
	}
}

func TestResourceValuesInRange(t *testing.T) {
	in, ctx := buildInputs(t, tactical.BiomeForest, tactical.ZoneFoothills,
		tactical.HydrologyStream, tactical.DevelopmentRural, 60, 60, 2024)

	layer, err := Generate(in, ctx, 2024)
	require.NoError(t, err)

	for _, r := range layer.Resources {
		assert.Greater(t, r.Value, 0.0)
		assert.LessOrEqual(t, r.Value, 1.0)
		assert.Equal(t, InteractionHarvest, r.Interaction)
	}
}

func TestDeterminism(t *testing.T) {
	in, ctx := buildInputs(t, tactical.BiomeForest, tactical.ZoneFoothills,
		tactical.HydrologyStream, tactical.DevelopmentSettled, 40, 40, 6022)

	a, err := Generate(in, ctx, 6022)
	require.NoError(t, err)
	b, err := Generate(in, ctx, 6022)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
