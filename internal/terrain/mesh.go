package terrain

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/heightmap"
	"github.com/Faultbox/meshgen/pkg/formats"
	vmath "github.com/Faultbox/meshgen/pkg/math"
)

// MaxVertices caps the grid size Build accepts.
const MaxVertices = 1 << 24

// Build creates a terrain mesh from a raster.
//
// The grid has round(W*factor) x round(H*factor) vertices spaced 1/factor
// apart. Each vertex samples the raster bilinearly at its normalized position
// and gets z = BaseElevation + MinHeight + intensity/255 * HeightScale.
//
// Every cell a=(i,j) b=(i+1,j) c=(i,j+1) d=(i+1,j+1) is split along the b-c
// diagonal into (a,b,c) and (b,d,c), both counter-clockwise seen from +z.
// Triangles are ordered row by row.
func Build(r *heightmap.Raster, p Params) (*Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if r == nil || r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("empty raster: %w", errdefs.ErrInvalidParameter)
	}

	fx := math.Round(float64(r.Width) * p.ResolutionFactor)
	fy := math.Round(float64(r.Height) * p.ResolutionFactor)
	if fx*fy > MaxVertices {
		return nil, fmt.Errorf("grid %.0fx%.0f exceeds %d vertices: %w", fx, fy, MaxVertices, errdefs.ErrInvalidParameter)
	}
	resX, resY := int(fx), int(fy)
	if resX < 2 || resY < 2 {
		return nil, fmt.Errorf("grid %dx%d has no cells: %w", resX, resY, errdefs.ErrDegenerateGeometry)
	}

	m := &Mesh{
		ResX:    resX,
		ResY:    resY,
		Spacing: 1 / p.ResolutionFactor,
		Heights: make([]float64, resX*resY),
	}

	floor := p.Floor()
	uStep := float64(r.Width-1) / float64(resX-1)
	vStep := float64(r.Height-1) / float64(resY-1)

	forEachRow(resY, p.Workers, func(j int) {
		v := float64(j) * vStep
		row := m.Heights[j*resX : (j+1)*resX]
		for i := range row {
			intensity := r.Sample(float64(i)*uStep, v)
			row[i] = floor + intensity/255*p.HeightScale
		}
	})

	m.Triangles = make([]formats.Triangle, TriangleCount(resX, resY))
	forEachRow(resY-1, p.Workers, func(j int) {
		base := j * (resX - 1) * 2
		for i := 0; i < resX-1; i++ {
			a := m.Vertex(i, j).F32()
			b := m.Vertex(i+1, j).F32()
			c := m.Vertex(i, j+1).F32()
			d := m.Vertex(i+1, j+1).F32()
			m.Triangles[base+2*i] = formats.NewTriangle(a, b, c)
			m.Triangles[base+2*i+1] = formats.NewTriangle(b, d, c)
		}
	})

	m.Bounds = computeBounds(m)
	return m, nil
}

// forEachRow runs fn for rows [0, n) on up to workers goroutines. Each call
// must write only the output slots of its own row.
func forEachRow(n, workers int, fn func(row int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for j := range n {
		g.Go(func() error {
			fn(j)
			return nil
		})
	}
	_ = g.Wait()
}

func computeBounds(m *Mesh) Bounds {
	minX, minY, maxX, maxY := m.Extent()
	b := Bounds{
		Min: vmath.Vec3{X: minX, Y: minY, Z: m.Heights[0]},
		Max: vmath.Vec3{X: maxX, Y: maxY, Z: m.Heights[0]},
	}
	for _, h := range m.Heights {
		if h < b.Min.Z {
			b.Min.Z = h
		}
		if h > b.Max.Z {
			b.Max.Z = h
		}
	}
	return b
}
