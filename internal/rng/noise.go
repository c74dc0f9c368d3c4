package rng

import (
	"github.com/aquilax/go-perlin"
)

// NoiseGenerator generates 2D value noise in [0, 1]
type NoiseGenerator struct {
	p *perlin.Perlin
}

// NewNoiseGenerator creates a new generator with a seed
func NewNoiseGenerator(seed uint32) *NoiseGenerator {
	// alpha, beta, n (iterations)
	// alpha: weight when sum is formed (default 2)
	// beta: harmonic scaling/lacunarity (default 2)
	// n: number of octaves (default 3)
	p := perlin.NewPerlin(2, 2, 3, int64(seed))
	return &NoiseGenerator{p: p}
}

// At returns noise at (x, y) normalized to [0, 1].
func (g *NoiseGenerator) At(x, y float64) float64 {
	return clamp01((g.p.Noise2D(x, y) + 1.0) / 2.0)
}

// Signed returns raw noise at (x, y) in [-1, 1].
func (g *NoiseGenerator) Signed(x, y float64) float64 {
	n := g.p.Noise2D(x, y)
	if n > 1 {
		return 1
	}
	if n < -1 {
		return -1
	}
	return n
}

// Octaves sums octave levels with amplitude persistence^i and frequency
// doubling, normalized to [0, 1].
func (g *NoiseGenerator) Octaves(x, y float64, octaves int, persistence float64) float64 {
	total := 0.0
	maxAmplitude := 0.0
	amplitude := 1.0
	frequency := 1.0

	for i := 0; i < octaves; i++ {
		total += g.p.Noise2D(x*frequency, y*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	if maxAmplitude == 0 {
		return 0.5
	}
	return clamp01((total/maxAmplitude + 1.0) / 2.0)
}

// OctavesSigned is Octaves without the [0, 1] remap; values center on 0.
func (g *NoiseGenerator) OctavesSigned(x, y float64, octaves int, persistence float64) float64 {
	total := 0.0
	maxAmplitude := 0.0
	amplitude := 1.0
	frequency := 1.0

	for i := 0; i < octaves; i++ {
		total += g.p.Noise2D(x*frequency, y*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	if maxAmplitude == 0 {
		return 0
	}
	n := total / maxAmplitude
	if n > 1 {
		return 1
	}
	if n < -1 {
		return -1
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
