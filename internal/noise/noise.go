// Package noise generates deterministic 2D scalar fields used to drive
// terrain elevation.
package noise

import (
	"fmt"
	"math"

	"github.com/Faultbox/meshgen/internal/errdefs"
)

// MaxSamples caps the number of samples in one field.
const MaxSamples = 1 << 26

// Params describes a noise field. The seed is the only source of entropy.
type Params struct {
	Kind        Kind
	Width       int
	Height      int
	Scale       float64 // divides input coordinates; larger is smoother
	Octaves     int
	Persistence float64 // amplitude multiplier per octave
	Lacunarity  float64 // frequency multiplier per octave
	Seed        int64
}

// Validate reports the first out-of-range parameter.
func (p Params) Validate() error {
	switch {
	case p.Kind < Perlin || p.Kind > Cellular:
		return fmt.Errorf("noise kind %d: %w", int(p.Kind), errdefs.ErrInvalidParameter)
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("noise size %dx%d: %w", p.Width, p.Height, errdefs.ErrInvalidParameter)
	case p.Width > MaxSamples/p.Height:
		return fmt.Errorf("noise size %dx%d exceeds %d samples: %w", p.Width, p.Height, MaxSamples, errdefs.ErrInvalidParameter)
	case !(p.Scale > 0) || math.IsInf(p.Scale, 0):
		return fmt.Errorf("noise scale %v must be positive: %w", p.Scale, errdefs.ErrInvalidParameter)
	case p.Octaves <= 0:
		return fmt.Errorf("noise octaves %d must be positive: %w", p.Octaves, errdefs.ErrInvalidParameter)
	case !(p.Persistence > 0) || math.IsInf(p.Persistence, 0):
		return fmt.Errorf("noise persistence %v must be positive: %w", p.Persistence, errdefs.ErrInvalidParameter)
	case !(p.Lacunarity > 0) || math.IsInf(p.Lacunarity, 0):
		return fmt.Errorf("noise lacunarity %v must be positive: %w", p.Lacunarity, errdefs.ErrInvalidParameter)
	}
	return nil
}

// Field is a width x height grid of samples stored row-major.
type Field struct {
	Width  int
	Height int
	Data   []float64
}

// At returns the sample at column x, row y.
func (f *Field) At(x, y int) float64 {
	return f.Data[y*f.Width+x]
}

// MinMax returns the smallest and largest sample.
func (f *Field) MinMax() (lo, hi float64) {
	if len(f.Data) == 0 {
		return 0, 0
	}
	lo, hi = f.Data[0], f.Data[0]
	for _, v := range f.Data[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Generate evaluates the layered noise described by p.
//
// Octave k samples its own source (seeded seed+k) at
// (x, y) * lacunarity^k / scale with amplitude persistence^k; the sum is
// divided by the total amplitude so the field stays within the source range.
func Generate(p Params) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	sources := make([]Source, p.Octaves)
	amplitudes := make([]float64, p.Octaves)
	frequencies := make([]float64, p.Octaves)
	var total float64
	for k := range p.Octaves {
		sources[k] = NewSource(p.Kind, p.Seed+int64(k))
		amplitudes[k] = math.Pow(p.Persistence, float64(k))
		frequencies[k] = math.Pow(p.Lacunarity, float64(k)) / p.Scale
		total += amplitudes[k]
		if math.IsInf(frequencies[k], 0) || math.IsNaN(frequencies[k]) {
			return nil, fmt.Errorf("octave %d frequency overflows (lacunarity %v, scale %v): %w", k, p.Lacunarity, p.Scale, errdefs.ErrInvalidParameter)
		}
	}
	if math.IsInf(total, 0) {
		return nil, fmt.Errorf("persistence %v over %d octaves overflows: %w", p.Persistence, p.Octaves, errdefs.ErrInvalidParameter)
	}

	f := &Field{
		Width:  p.Width,
		Height: p.Height,
		Data:   make([]float64, p.Width*p.Height),
	}
	for y := range p.Height {
		for x := range p.Width {
			var sum float64
			for k, src := range sources {
				sum += amplitudes[k] * src.Eval2(float64(x)*frequencies[k], float64(y)*frequencies[k])
			}
			v := sum / total
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("sample (%d, %d) is not finite: %w", x, y, errdefs.ErrInvalidParameter)
			}
			f.Data[y*p.Width+x] = v
		}
	}

	return f, nil
}
