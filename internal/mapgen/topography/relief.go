package topography

import (
	"math"

	"tacmap-backend/internal/mapgen/geology"
	"tacmap-backend/internal/mapgen/grid"
	"tacmap-backend/internal/rng"
)

// applyFeatureRelief carves rock-type-specific relief into dramatic terrain.
// Only runs when ruggedness is 1.5 or higher; every offset scales with
// relief/50 so small maps stay traversable.
func applyFeatureRelief(geo *geology.Layer, elevations []float64, dims grid.Dims, seedValue uint32, relief float64) {
	unit := relief / 50.0
	reliefNoise := rng.NewNoiseGenerator(rng.Hash(seedValue, reliefSalt))

	// Pit and needle centers are sparse; collect them first so the radial
	// falloff applies around each center in a single deterministic sweep.
	type center struct {
		x, y   int
		amount float64
		radius float64
	}
	var pits []center
	var needles []center

	span := 0.0
	for _, e := range elevations {
		span = math.Max(span, e)
	}

	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			idx := dims.Index(x, y)
			formation := geo.FormationAt(x, y)
			stream := rng.NewStream(rng.TileSeed(seedValue, x, y, reliefSalt))

			switch formation {
			case geology.FormationCarbonate:
				// Dissolution pits: rare, round, with radial falloff.
				if stream.Float64() > 0.985 {
					pits = append(pits, center{
						x: x, y: y,
						amount: unit * stream.Range(3, 6),
						radius: stream.Range(2, 3.5),
					})
				}

			case geology.FormationGranitic:
				if span > 0 && elevations[idx] > span*0.6 {
					// Needles on the high ground.
					if stream.Float64() > 0.97 {
						needles = append(needles, center{
							x: x, y: y,
							amount: unit * stream.Range(4, 8),
							radius: stream.Range(1, 2),
						})
					}
				} else if elevations[idx] < span*0.3 {
					// Broad exfoliation domes below.
					dome := reliefNoise.At(float64(x)*0.06, float64(y)*0.06)
					if dome > 0.75 {
						elevations[idx] += unit * (dome - 0.75) * 8
					}
				}

			case geology.FormationClastic:
				// Soft clastic rock cuts into badlands gullies.
				if geology.Properties(formation).ErosionResistance < 0.4 {
					gully := math.Abs(reliefNoise.Signed(float64(x)*0.3, float64(y)*0.12))
					elevations[idx] -= unit * gully * 3
				}

			case geology.FormationMetamorphic:
				// Alternating saw-tooth along the foliation strike.
				phase := float64(x+y)*0.8 + reliefNoise.At(float64(x)*0.05, float64(y)*0.05)*2
				tooth := math.Abs(math.Mod(phase, 2)-1)*2 - 1 // triangle wave -1..1
				elevations[idx] += unit * tooth * 1.5
			}

			if elevations[idx] < 0 {
				elevations[idx] = 0
			}
		}
	}

	for _, pit := range pits {
		stampRadial(elevations, dims, pit.x, pit.y, -pit.amount, pit.radius)
	}
	for _, needle := range needles {
		stampRadial(elevations, dims, needle.x, needle.y, needle.amount, needle.radius)
	}
}

// stampRadial applies amount at the center, falling off linearly to zero at
// radius. Negative amounts dig, positive amounts build.
func stampRadial(elevations []float64, dims grid.Dims, cx, cy int, amount, radius float64) {
	r := int(math.Ceil(radius))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			x, y := cx+dx, cy+dy
			if !dims.InBounds(x, y) {
				continue
			}
			dist := math.Sqrt(float64(dx*dx + dy*dy))
			if dist > radius {
				continue
			}
			falloff := 1 - dist/radius
			idx := dims.Index(x, y)
			elevations[idx] += amount * falloff
			if elevations[idx] < 0 {
				elevations[idx] = 0
			}
		}
	}
}
