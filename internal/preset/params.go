package preset

import (
	"fmt"
	"math"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/noise"
	"github.com/Faultbox/meshgen/internal/objects"
	"github.com/Faultbox/meshgen/internal/pipeline"
	"github.com/Faultbox/meshgen/internal/terrain"
)

// Slider units per world unit.
const (
	elevationUnit = 200.0
	scaleUnit     = 100.0
)

// Params converts the control-surface values to pipeline parameters:
// elevations are divided by 200, object scales by 100 and densities become
// instance counts. The result is validated.
func (p *Preset) Params() (pipeline.Params, error) {
	kind, err := noise.ParseKind(p.NoiseType)
	if err != nil {
		return pipeline.Params{}, err
	}
	if p.MinHeight > p.MaxHeight {
		return pipeline.Params{}, fmt.Errorf("min height %v exceeds max height %v: %w",
			p.MinHeight, p.MaxHeight, errdefs.ErrInvalidParameter)
	}

	out := pipeline.Params{
		Noise: noise.Params{
			Kind:        kind,
			Width:       round(p.Width),
			Height:      round(p.Height),
			Scale:       p.Scale,
			Octaves:     round(p.Octaves),
			Persistence: p.Persistence,
			Lacunarity:  p.Lacunarity,
			Seed:        p.Seed,
		},
		Terrain: terrain.Params{
			ResolutionFactor: p.ResolutionFactor,
			BaseElevation:    p.BaseElevation / elevationUnit,
			HeightScale:      (p.MaxHeight - p.MinHeight) / elevationUnit,
			MinHeight:        p.MinHeight / elevationUnit,
		},
		Objects: objects.Params{
			Rocks: objects.CategorySpec{
				Enabled:       bool(p.AddRocks),
				Count:         round(p.RocksDensity),
				ScaleMin:      p.RocksMin / scaleUnit,
				ScaleMax:      p.RocksMax / scaleUnit,
				PointsPerRock: round(p.RocksPoint),
			},
			Trees:     single(p.AddTrees, p.TreesDensity, p.TreesScale),
			Mushrooms: single(p.AddMushroom, p.MushroomDensity, p.MushroomScale),
			Anthills:  single(p.AddVolcano, p.VolcanoDensity, p.VolcanoScale),
		},
	}
	if err := out.Validate(); err != nil {
		return pipeline.Params{}, err
	}
	return out, nil
}

// single builds the spec of a category with one scale knob.
func single(on Switch, density, scale float64) objects.CategorySpec {
	return objects.CategorySpec{
		Enabled:  bool(on),
		Count:    round(density),
		ScaleMin: scale / scaleUnit,
		ScaleMax: scale / scaleUnit,
	}
}

// round maps non-finite values to -1 so validation rejects them.
func round(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return -1
	}
	return int(math.Round(v))
}
