package structures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/hydrology"
	"tacmap-backend/internal/mapgen/tactical"
	"tacmap-backend/internal/mapgen/topography"
	"tacmap-backend/internal/mapgen/vegetation"
)

type fixture struct {
	ctx   tactical.Context
	topo  *topography.Layer
	hydro *hydrology.Layer
	veg   *vegetation.Layer
}

func build(t *testing.T, biome tactical.Biome, zone tactical.ElevationZone, hydroKind tactical.Hydrology,
	dev tactical.Development, width, height int, seed uint32) fixture {
	t.Helper()

	ctx, err := tactical.New(biome, zone, hydroKind, dev, tactical.SeasonSpring)
	require.NoError(t, err)
	geo, err := geology.Generate(width, height, ctx, seed)
	require.NoError(t, err)
	topo, err := topography.Generate(geo, ctx, seed, config.Default())
	require.NoError(t, err)
	hydro, err := hydrology.Generate(topo, geo, ctx, seed, config.Default())
	require.NoError(t, err)
	veg, err := vegetation.Generate(hydro, topo, geo, ctx, seed, config.Default())
	require.NoError(t, err)

	return fixture{ctx: ctx, topo: topo, hydro: hydro, veg: veg}
}

func TestWildernessHasNoBuildings(t *testing.T) {
	f := build(t, tactical.BiomeDesert, tactical.ZoneLowland, tactical.HydrologyArid,
		tactical.DevelopmentWilderness, 50, 50, 4242)

	layer, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 4242, config.Default())
	require.NoError(t, err)

	assert.Empty(t, layer.Buildings)
	assert.Empty(t, layer.Roads.Segments)
	assert.Equal(t, 0.0, layer.Roads.TotalLength)
}

func TestSettledVillage(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream,
		tactical.DevelopmentSettled, 50, 50, 12345)

	layer, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 12345, config.Default())
	require.NoError(t, err)

	require.NotEmpty(t, layer.Buildings, "settled forest map must build")
	assert.LessOrEqual(t, len(layer.Buildings), 10)
	if len(layer.Buildings) >= 2 {
		assert.NotEmpty(t, layer.Roads.Segments)
		assert.Greater(t, layer.Roads.TotalLength, 0.0)
	}
}

func TestBuildingPlacementInvariant(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream,
		tactical.DevelopmentUrban, 60, 60, 777)

	layer, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 777, config.Default())
	require.NoError(t, err)

	for _, b := range layer.Buildings {
		for _, p := range b.Footprint {
			assert.Equal(t, 0.0, f.hydro.TileAt(p.X, p.Y).WaterDepth,
				"building %s stands in water at (%d,%d)", b.Type, p.X, p.Y)
			assert.NotEqual(t, vegetation.TypeDense, f.veg.TileAt(p.X, p.Y).Type,
				"building %s stands in dense trees at (%d,%d)", b.Type, p.X, p.Y)
		}
	}
}

func TestBuildingSpacing(t *testing.T) {
	f := build(t, tactical.BiomePlains, tactical.ZoneLowland, tactical.HydrologyStream,
		tactical.DevelopmentSettled, 50, 50, 31337)

	layer, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 31337, config.Default())
	require.NoError(t, err)

	spacing := minBuildingSpacing[tactical.DevelopmentSettled]
	for i := range layer.Buildings {
		for j := i + 1; j < len(layer.Buildings); j++ {
			dx := float64(layer.Buildings[i].Origin.X - layer.Buildings[j].Origin.X)
			dy := float64(layer.Buildings[i].Origin.Y - layer.Buildings[j].Origin.Y)
			dist := dx*dx + dy*dy
			assert.GreaterOrEqual(t, dist, spacing*spacing-1e-9,
				"buildings %d and %d closer than the minimum spacing", i, j)
		}
	}
}

func TestRoadsConnectAndAvoidDeepWater(t *testing.T) {
	f := build(t, tactical.BiomePlains, tactical.ZoneLowland, tactical.HydrologyRiver,
		tactical.DevelopmentSettled, 50, 50, 2024)

	layer, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 2024, config.Default())
	require.NoError(t, err)

	for _, seg := range layer.Roads.Segments {
		require.GreaterOrEqual(t, len(seg.Points), 2)

		// Terminal road tiles must connect to a building footprint.
		first, last := seg.Points[0], seg.Points[len(seg.Points)-1]
		assert.True(t, touchesBuilding(layer, first.X, first.Y), "segment start (%d,%d) dangles", first.X, first.Y)
		assert.True(t, touchesBuilding(layer, last.X, last.Y), "segment end (%d,%d) dangles", last.X, last.Y)

		for i, p := range seg.Points {
			hydroTile := f.hydro.TileAt(p.X, p.Y)
			if hydroTile.WaterDepth > 0 {
				assert.True(t, hydroTile.IsStream && hydroTile.StreamOrder >= minBridgeOrder,
					"road crosses unbridgeable water at (%d,%d)", p.X, p.Y)
			}
			if i > 0 {
				dx := p.X - seg.Points[i-1].X
				dy := p.Y - seg.Points[i-1].Y
				assert.LessOrEqual(t, dx*dx+dy*dy, 2, "road must be 8-connected")
			}
		}
	}
}

func touchesBuilding(layer *Layer, x, y int) bool {
	for _, b := range layer.Buildings {
		for _, p := range b.Footprint {
			if p.X == x && p.Y == y {
				return true
			}
		}
	}
	return false
}

func TestBridgesSitOnStreams(t *testing.T) {
	f := build(t, tactical.BiomeMountain, tactical.ZoneHighland, tactical.HydrologyRiver,
		tactical.DevelopmentSettled, 60, 60, 999)

	layer, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 999, config.Default())
	require.NoError(t, err)

	for _, bridge := range layer.Bridges {
		hydroTile := f.hydro.TileAt(bridge.Position.X, bridge.Position.Y)
		assert.True(t, hydroTile.IsStream)
		assert.GreaterOrEqual(t, hydroTile.StreamOrder, minBridgeOrder)
		assert.GreaterOrEqual(t, bridge.Span, 1)
		assert.Contains(t, []string{"ns", "ew"}, bridge.Orientation)
	}
}

func TestRuinsForceRuinedCondition(t *testing.T) {
	f := build(t, tactical.BiomePlains, tactical.ZoneLowland, tactical.HydrologyStream,
		tactical.DevelopmentRuins, 50, 50, 808)

	layer, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 808, config.Default())
	require.NoError(t, err)

	require.NotEmpty(t, layer.Buildings)
	for _, b := range layer.Buildings {
		assert.Equal(t, ConditionRuined, b.Condition)
	}
}

func TestUrbanWalls(t *testing.T) {
	f := build(t, tactical.BiomePlains, tactical.ZoneLowland, tactical.HydrologyStream,
		tactical.DevelopmentUrban, 60, 60, 171717)

	layer, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 171717, config.Default())
	require.NoError(t, err)

	if len(layer.Buildings) >= 3 {
		assert.NotEmpty(t, layer.Walls, "urban settlements raise walls")
		for _, wall := range layer.Walls {
			for _, p := range wall.Points {
				tile := layer.TileAt(p.X, p.Y)
				assert.Equal(t, "wall", tile.StructureType)
				assert.False(t, tile.IsPassable)
			}
		}
	}
}

func TestGenerateBuildingsToggle(t *testing.T) {
	f := build(t, tactical.BiomePlains, tactical.ZoneLowland, tactical.HydrologyStream,
		tactical.DevelopmentUrban, 40, 40, 55)

	cfg := config.Default()
	cfg.GenerateBuildings = false

	layer, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 55, cfg)
	require.NoError(t, err)
	assert.Empty(t, layer.Buildings)
	assert.Empty(t, layer.Roads.Segments)
}

func TestDeterminism(t *testing.T) {
	f := build(t, tactical.BiomeForest, tactical.ZoneFoothills, tactical.HydrologyStream,
		tactical.DevelopmentSettled, 40, 40, 6022)

	a, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 6022, config.Default())
	require.NoError(t, err)
	b, err := Generate(f.veg, f.hydro, f.topo, f.ctx, 6022, config.Default())
	require.NoError(t, err)
	require.Equal(t, a, b)
}
