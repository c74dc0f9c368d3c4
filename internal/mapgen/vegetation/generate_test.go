package vegetation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
)

type fixture struct {
	ctx   tactical.Context
	geo   *geology.Layer
	topo  *topography.Layer
	hydro *hydrology.Layer
}

func build(t *testing.T, biome tactical.Biome, zone tactical.ElevationZone, hydroKind tactical.Hydrology,
	season tactical.Season, width, height int, seed uint32) fixture {
	t.Helper()

	ctx, err := tactical.New(biome, zone, hydroKind, tactical.DevelopmentWilderness, season)
	require.NoError(t, err)
	geo, err := geology.Generate(width, height, ctx, seed)
	require.NoError(t, err)
	topo, err := topography.Generate(geo, ctx, seed, config.Default())
	require.NoError(t, err)
	hydro, err := hydrology.Generate(topo, geo, ctx, seed, config.Default())
	require.NoError(t, err)

	return fixture{ctx: ctx, geo: geo, topo: topo, hydro: hydro}
}

func TestGenerateRejectsMissingLayers(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonSpring, 20, 20, 1)

	_, err := Generate(nil, f.topo, f.geo, f.ctx, 1, config.Default())
	assert.Error(t, err)
	_, err = Generate(f.hydro, nil, f.geo, f.ctx, 1, config.Default())
	assert.Error(t, err)
	_, err = Generate(f.hydro, f.topo, nil, f.ctx, 1, config.Default())
	assert.Error(t, err)
}

func TestForestBiomeGrowsForest(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonSpring, 50, 50, 12345)

	layer, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 12345, config.Default())
	require.NoError(t, err)

	assert.NotEmpty(t, layer.ForestPatches, "forest biome should contain forest zones")
	assert.Greater(t, layer.TotalTreeCount, 0)
	assert.Greater(t, layer.AverageCanopyCoverage, 0.0)
}

func TestZoneDisjointness(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonSummer, 40, 40, 777)

	layer, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 777, config.Default())
	require.NoError(t, err)

	claimed := make(map[int]int)
	for _, zone := range layer.Zones {
		for _, p := range zone.Tiles {
			idx := layer.Dims.Index(p.X, p.Y)
			_, taken := claimed[idx]
			require.False(t, taken, "tile (%d,%d) claimed by two zones", p.X, p.Y)
			claimed[idx] = zone.ID
		}
	}

	// Tile back-references agree with zone membership.
	for idx, zoneID := range claimed {
		assert.Equal(t, zoneID, layer.Tiles[idx].ZoneID)
	}
}

func TestZonesExcludeWater(t *testing.T) {
	f := build(t, tactical.BiomeSwamp, tactical.ZoneLowland, tactical.HydrologyWetland, tactical.SeasonSummer, 30, 30, 31337)

	layer, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 31337, config.Default())
	require.NoError(t, err)

	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			if f.hydro.TileAt(x, y).WaterDepth > 0 {
				assert.Equal(t, -1, layer.TileAt(x, y).ZoneID,
					"water tile (%d,%d) must carry no vegetation zone", x, y)
			}
		}
	}
}

func TestSwampGrowsWetlandVegetation(t *testing.T) {
	f := build(t, tactical.BiomeSwamp, tactical.ZoneLowland, tactical.HydrologyWetland, tactical.SeasonSummer, 30, 30, 999)

	layer, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 999, config.Default())
	require.NoError(t, err)

	wetland := 0
	for _, tile := range layer.Tiles {
		if tile.Type == TypeWetland {
			wetland++
		}
	}
	assert.Greater(t, wetland, 0, "swamp wetland map must grow wetland vegetation")
}

func TestDesertStaysSparse(t *testing.T) {
	f := build(t, tactical.BiomeDesert, tactical.ZoneLowland, tactical.HydrologyArid, tactical.SeasonSummer, 50, 50, 4242)

	layer, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 4242, config.Default())
	require.NoError(t, err)

	assert.Less(t, layer.AverageCanopyCoverage, 0.2, "deserts carry almost no canopy")
}

func TestClearingsOnlyGroundCover(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonSpring, 60, 60, 2718)

	layer, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 2718, config.Default())
	require.NoError(t, err)

	clearingTiles := 0
	for _, tile := range layer.Tiles {
		if !tile.IsClearing {
			continue
		}
		clearingTiles++
		for _, p := range tile.Plants {
			assert.Equal(t, StratumGroundCover, p.Stratum,
				"clearings grow only ground cover, got %s", p.Stratum)
		}
	}
	if len(layer.Clearings) > 0 {
		assert.Greater(t, clearingTiles, 0)
	}
}

func TestVegetationMultiplier(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonSummer, 40, 40, 55)

	none := config.Default()
	none.VegetationMultiplier = 0

	bare, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 55, none)
	require.NoError(t, err)
	assert.Equal(t, 0, bare.TotalTreeCount)

	lush := config.Default()
	lush.VegetationMultiplier = 2.0
	dense, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 55, lush)
	require.NoError(t, err)

	normal, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 55, config.Default())
	require.NoError(t, err)
	assert.Greater(t, dense.TotalTreeCount, normal.TotalTreeCount)
}

func TestWinterThinsGrowth(t *testing.T) {
	summer := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonSummer, 40, 40, 808)
	winter := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonWinter, 40, 40, 808)

	summerLayer, err := Generate(summer.hydro, summer.topo, summer.geo, summer.ctx, 808, config.Default())
	require.NoError(t, err)
	winterLayer, err := Generate(winter.hydro, winter.topo, winter.geo, winter.ctx, 808, config.Default())
	require.NoError(t, err)

	summerPlants, winterPlants := 0, 0
	for i := range summerLayer.Tiles {
		summerPlants += len(summerLayer.Tiles[i].Plants)
		winterPlants += len(winterLayer.Tiles[i].Plants)
	}
	assert.Greater(t, summerPlants, winterPlants)
}

func TestPlantAttributes(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonSpring, 40, 40, 1618)

	layer, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 1618, config.Default())
	require.NoError(t, err)

	checked := 0
	for _, tile := range layer.Tiles {
		for _, p := range tile.Plants {
			checked++
			assert.NotEmpty(t, p.Species)
			assert.Greater(t, p.Height, 0.0)
			assert.GreaterOrEqual(t, p.Health, 0.6)
			assert.LessOrEqual(t, p.Health, 1.0)
		}
	}
	assert.Greater(t, checked, 0)
}

func TestDeterminism(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonSpring, 30, 30, 6022)

	a, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 6022, config.Default())
	require.NoError(t, err)
	b, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 6022, config.Default())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDensePassability(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream, tactical.SeasonSummer, 50, 50, 90210)

	lush := config.Default()
	lush.VegetationMultiplier = 2.0
	layer, err := Generate(f.hydro, f.topo, f.geo, f.ctx, 90210, lush)
	require.NoError(t, err)

	for _, tile := range layer.Tiles {
		if tile.Type == TypeDense {
			assert.False(t, tile.IsPassable)
			assert.True(t, tile.ProvidesCover)
			assert.True(t, tile.ProvidesConcealment)
		}
	}
}
