// Package terrain builds height-mapped triangle meshes from heightmap rasters
// and answers surface height queries.
package terrain

import (
	"fmt"
	"math"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/pkg/formats"
	vmath "github.com/Faultbox/meshgen/pkg/math"
)

// Params controls how a raster is turned into a mesh.
type Params struct {
	ResolutionFactor float64 // grid vertices per raster pixel along each axis
	BaseElevation    float64
	HeightScale      float64 // elevation range covered by intensities 0..255
	MinHeight        float64
	Workers          int // goroutines used for per-row work; <= 0 means GOMAXPROCS
}

// Validate reports the first out-of-range parameter.
func (p Params) Validate() error {
	switch {
	case !(p.ResolutionFactor > 0) || math.IsInf(p.ResolutionFactor, 0):
		return fmt.Errorf("resolution factor %v must be positive: %w", p.ResolutionFactor, errdefs.ErrInvalidParameter)
	case !finite(p.BaseElevation) || !finite(p.MinHeight) || !finite(p.HeightScale):
		return fmt.Errorf("elevation parameters must be finite: %w", errdefs.ErrInvalidParameter)
	case p.HeightScale < 0:
		return fmt.Errorf("height scale %v must not be negative: %w", p.HeightScale, errdefs.ErrInvalidParameter)
	}
	return nil
}

// Floor returns the elevation of intensity 0.
func (p Params) Floor() float64 {
	return p.BaseElevation + p.MinHeight
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min vmath.Vec3
	Max vmath.Vec3
}

// Mesh is a regular grid surface. Vertex (i, j) sits at
// (OriginX + i*Spacing, OriginY + j*Spacing, Heights[j*ResX+i]).
type Mesh struct {
	ResX, ResY int
	Spacing    float64
	OriginX    float64
	OriginY    float64
	Heights    []float64
	Triangles  []formats.Triangle
	Bounds     Bounds
}

// TriangleCount returns the number of triangles the grid produces.
func TriangleCount(resX, resY int) int {
	if resX < 2 || resY < 2 {
		return 0
	}
	return 2 * (resX - 1) * (resY - 1)
}

// Extent returns the horizontal extent of the surface.
func (m *Mesh) Extent() (minX, minY, maxX, maxY float64) {
	return m.OriginX, m.OriginY,
		m.OriginX + float64(m.ResX-1)*m.Spacing,
		m.OriginY + float64(m.ResY-1)*m.Spacing
}

// Vertex returns the position of grid vertex (i, j).
func (m *Mesh) Vertex(i, j int) vmath.Vec3 {
	return vmath.Vec3{
		X: m.OriginX + float64(i)*m.Spacing,
		Y: m.OriginY + float64(j)*m.Spacing,
		Z: m.Heights[j*m.ResX+i],
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
