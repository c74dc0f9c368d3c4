package tactical

import (
	"fmt"

	"tacmap-backend/internal/errors"
	"tacmap-backend/internal/rng"
)

// Forbidden (biome, hydrology) pairs. A desert map cannot carry a river; a
// coastal map is never arid; underground water is never tidal.
var forbiddenHydrology = map[Biome][]Hydrology{
	BiomeDesert:      {HydrologyRiver, HydrologyLake, HydrologyWetland, HydrologyCoastal},
	BiomeSwamp:       {HydrologyArid},
	BiomeCoastal:     {HydrologyArid},
	BiomeMountain:    {HydrologyCoastal, HydrologyWetland},
	BiomeUnderground: {HydrologyCoastal, HydrologySeasonal},
	BiomePlains:      {HydrologyCoastal},
	BiomeForest:      {HydrologyCoastal},
}

// Forbidden (biome, elevation zone) pairs. Swamps pond in low ground; coasts
// sit at sea level.
var forbiddenElevation = map[Biome][]ElevationZone{
	BiomeSwamp:   {ZoneHighland, ZoneAlpine},
	BiomeCoastal: {ZoneHighland, ZoneAlpine},
	BiomeDesert:  {ZoneAlpine},
}

// New validates and constructs a tactical context. Forbidden combinations
// return ErrContextInvalid.
func New(biome Biome, zone ElevationZone, hydro Hydrology, dev Development, season Season) (Context, error) {
	if !contains(Biomes, biome) {
		return Context{}, errors.Wrap(errors.ErrContextInvalid, fmt.Sprintf("unknown biome %q", biome), nil)
	}
	if !contains(ElevationZones, zone) {
		return Context{}, errors.Wrap(errors.ErrContextInvalid, fmt.Sprintf("unknown elevation zone %q", zone), nil)
	}
	if !contains(Hydrologies, hydro) {
		return Context{}, errors.Wrap(errors.ErrContextInvalid, fmt.Sprintf("unknown hydrology %q", hydro), nil)
	}
	if !contains(Developments, dev) {
		return Context{}, errors.Wrap(errors.ErrContextInvalid, fmt.Sprintf("unknown development %q", dev), nil)
	}
	if !contains(Seasons, season) {
		return Context{}, errors.Wrap(errors.ErrContextInvalid, fmt.Sprintf("unknown season %q", season), nil)
	}

	if contains(forbiddenHydrology[biome], hydro) {
		return Context{}, errors.Wrap(errors.ErrContextInvalid,
			fmt.Sprintf("%s biome cannot have %s hydrology", biome, hydro), nil)
	}
	if contains(forbiddenElevation[biome], zone) {
		return Context{}, errors.Wrap(errors.ErrContextInvalid,
			fmt.Sprintf("%s biome cannot sit in the %s zone", biome, zone), nil)
	}

	return Context{
		Biome:       biome,
		Elevation:   zone,
		Hydrology:   hydro,
		Development: dev,
		Season:      season,
	}, nil
}

// Compatible reports whether the combination would pass New.
func Compatible(biome Biome, zone ElevationZone, hydro Hydrology) bool {
	return !contains(forbiddenHydrology[biome], hydro) && !contains(forbiddenElevation[biome], zone)
}

// DeriveFromSeed deterministically picks a valid context for callers that
// supply no explicit one. Invalid hydrology/elevation draws reroll against
// the same stream, so the result is always constructible.
func DeriveFromSeed(masterSeed uint32) Context {
	stream := rng.NewStream(rng.Hash(masterSeed, 0x7ac71ca1))

	biome := Biomes[stream.IntN(len(Biomes))]

	zone := ElevationZones[stream.IntN(len(ElevationZones))]
	for contains(forbiddenElevation[biome], zone) {
		zone = ElevationZones[stream.IntN(len(ElevationZones))]
	}

	hydro := Hydrologies[stream.IntN(len(Hydrologies))]
	for contains(forbiddenHydrology[biome], hydro) {
		hydro = Hydrologies[stream.IntN(len(Hydrologies))]
	}

	dev := Developments[stream.IntN(len(Developments))]
	season := Seasons[stream.IntN(len(Seasons))]

	ctx, err := New(biome, zone, hydro, dev, season)
	if err != nil {
		// Unreachable: every draw above was filtered against the tables.
		panic(err)
	}
	return ctx
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
