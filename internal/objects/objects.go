// Package objects scatters procedurally generated props over a terrain
// surface.
package objects

import (
	"fmt"
	"math"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/pkg/formats"
	vmath "github.com/Faultbox/meshgen/pkg/math"
)

// MinPointsPerRock is the smallest point cloud that can span a solid hull.
const MinPointsPerRock = 4

// Surface is the height field objects are placed on.
type Surface interface {
	Extent() (minX, minY, maxX, maxY float64)
	HeightAt(x, y float64) (float64, error)
}

// CategorySpec configures one category. Categories with a single scale knob
// set ScaleMin == ScaleMax.
type CategorySpec struct {
	Enabled       bool
	Count         int
	ScaleMin      float64
	ScaleMax      float64
	PointsPerRock int // rocks only
}

// Validate checks the spec of an enabled category.
func (s CategorySpec) Validate(c Category) error {
	if !s.Enabled {
		return nil
	}
	switch {
	case s.Count < 0:
		return fmt.Errorf("%s count %d must not be negative: %w", c, s.Count, errdefs.ErrInvalidParameter)
	case s.Count == 0:
		return nil
	case math.IsNaN(s.ScaleMin) || math.IsNaN(s.ScaleMax) || math.IsInf(s.ScaleMax, 0):
		return fmt.Errorf("%s scale must be finite: %w", c, errdefs.ErrInvalidParameter)
	case s.ScaleMin > s.ScaleMax:
		return fmt.Errorf("%s scale min %v exceeds max %v: %w", c, s.ScaleMin, s.ScaleMax, errdefs.ErrInvalidParameter)
	case s.ScaleMin <= 0:
		return fmt.Errorf("%s scale %v must be positive: %w", c, s.ScaleMin, errdefs.ErrInvalidParameter)
	case c == Rock && s.PointsPerRock < MinPointsPerRock:
		return fmt.Errorf("points per rock %d below %d: %w", s.PointsPerRock, MinPointsPerRock, errdefs.ErrInvalidParameter)
	}
	return nil
}

// Params configures every category.
type Params struct {
	Rocks     CategorySpec
	Trees     CategorySpec
	Mushrooms CategorySpec
	Anthills  CategorySpec
	Workers   int // goroutines synthesizing prototypes; <= 0 means GOMAXPROCS
}

// Spec returns the spec of one category.
func (p Params) Spec(c Category) CategorySpec {
	switch c {
	case Rock:
		return p.Rocks
	case Tree:
		return p.Trees
	case Mushroom:
		return p.Mushrooms
	case Anthill:
		return p.Anthills
	}
	return CategorySpec{}
}

// Validate checks every category.
func (p Params) Validate() error {
	for _, c := range Categories() {
		if err := p.Spec(c).Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// Instance is one placed object. Triangles are in world space and owned by
// the instance.
type Instance struct {
	Category        Category
	Position        vmath.Vec3 // anchor on the terrain surface
	Scale           float64
	Yaw             float64
	PrototypeRadius float64 // bounding radius of the unscaled prototype
	Triangles       []formats.Triangle
}

// BoundingRadius returns the largest distance of a vertex from the anchor.
func (in *Instance) BoundingRadius() float64 {
	var r float64
	for _, t := range in.Triangles {
		for _, v := range t.Vertices {
			r = max(r, vmath.FromF32(v).Distance(in.Position))
		}
	}
	return r
}
