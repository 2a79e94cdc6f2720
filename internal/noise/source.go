package noise

import (
	"math"
	"math/bits"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Source evaluates a single octave of 2D noise, roughly in [-1, 1].
type Source interface {
	Eval2(x, y float64) float64
}

// NewSource returns the single-octave evaluator for kind seeded with seed.
func NewSource(kind Kind, seed int64) Source {
	switch kind {
	case Simplex:
		return opensimplex.New(seed)
	case Value:
		return valueSource{seed: seed}
	case Cellular:
		return cellularSource{seed: seed}
	default:
		// alpha and beta are irrelevant with a single iteration.
		return perlinSource{p: perlin.NewPerlin(2, 2, 1, seed)}
	}
}

type perlinSource struct {
	p *perlin.Perlin
}

func (s perlinSource) Eval2(x, y float64) float64 {
	return s.p.Noise2D(x, y)
}

// valueSource interpolates hashed lattice values with a quintic fade.
type valueSource struct {
	seed int64
}

func (s valueSource) Eval2(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)

	fx := fade(x - x0)
	fy := fade(y - y0)

	ix, iy := int64(x0), int64(y0)
	v00 := lattice(ix, iy, s.seed)
	v10 := lattice(ix+1, iy, s.seed)
	v01 := lattice(ix, iy+1, s.seed)
	v11 := lattice(ix+1, iy+1, s.seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fy)
}

// cellularSource is Worley F1 noise: distance to the nearest feature point,
// one jittered point per unit cell, remapped from [0, 1] to [-1, 1].
type cellularSource struct {
	seed int64
}

func (s cellularSource) Eval2(x, y float64) float64 {
	cx := int64(math.Floor(x))
	cy := int64(math.Floor(y))

	minDist := math.MaxFloat64
	for dy := int64(-1); dy <= 1; dy++ {
		for dx := int64(-1); dx <= 1; dx++ {
			h := hash2(cx+dx, cy+dy, s.seed)
			px := float64(cx+dx) + unit(h)
			py := float64(cy+dy) + unit(bits.RotateLeft64(h, 32))
			d := math.Hypot(px-x, py-y)
			if d < minDist {
				minDist = d
			}
		}
	}

	return math.Min(minDist, 1)*2 - 1
}

// hash2 is a SplitMix64 style integer hash, stable across runs.
func hash2(x, y, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// unit maps the low 32 bits of h to [0, 1].
func unit(h uint64) float64 {
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// lattice returns the value at an integer lattice point in [-1, 1].
func lattice(x, y, seed int64) float64 {
	return unit(hash2(x, y, seed))*2 - 1
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
