package terrain

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/pkg/formats"
)

// STLHeader tags terrain files written by Save.
const STLHeader = "meshgen terrain"

// Save writes the terrain triangles to path as binary STL.
func (m *Mesh) Save(path string) error {
	err := formats.WriteSTLFile(path, formats.NewSTL(STLHeader, m.Triangles))
	return errdefs.IO("writing terrain "+path, err)
}

// Load reads a terrain STL written by Save and rebuilds its height grid.
func Load(path string) (*Mesh, error) {
	s, err := formats.ParseSTLFile(path)
	if err != nil {
		return nil, errdefs.IO("reading terrain", err)
	}
	return FromTriangles(s.Triangles)
}

// FromTriangles rebuilds a grid mesh from its triangle soup. The soup must
// describe a full regular grid: every distinct x and y vertex coordinate
// forms a grid line and every grid vertex appears with a single height.
// The triangles are kept as given.
func FromTriangles(tris []formats.Triangle) (*Mesh, error) {
	if len(tris) == 0 {
		return nil, fmt.Errorf("terrain has no triangles: %w", errdefs.ErrDegenerateGeometry)
	}

	xIndex := make(map[float32]int)
	yIndex := make(map[float32]int)
	for _, t := range tris {
		for _, v := range t.Vertices {
			xIndex[v[0]] = 0
			yIndex[v[1]] = 0
		}
	}
	xs := sortedKeys(xIndex)
	ys := sortedKeys(yIndex)

	resX, resY := len(xs), len(ys)
	if want := TriangleCount(resX, resY); want != len(tris) {
		return nil, fmt.Errorf("%d triangles do not form a %dx%d grid (want %d): %w",
			len(tris), resX, resY, want, errdefs.ErrDegenerateGeometry)
	}

	m := &Mesh{
		ResX:    resX,
		ResY:    resY,
		Spacing: float64(xs[resX-1]-xs[0]) / float64(resX-1),
		OriginX: float64(xs[0]),
		OriginY: float64(ys[0]),
		Heights: make([]float64, resX*resY),
	}
	if ySpacing := float64(ys[resY-1]-ys[0]) / float64(resY-1); !nearlyEqual(ySpacing, m.Spacing) {
		return nil, fmt.Errorf("grid spacing differs between axes (%v, %v): %w",
			m.Spacing, ySpacing, errdefs.ErrDegenerateGeometry)
	}

	seen := make([]bool, len(m.Heights))
	filled := 0
	for _, t := range tris {
		for _, v := range t.Vertices {
			idx := yIndex[v[1]]*resX + xIndex[v[0]]
			z := float64(v[2])
			if seen[idx] {
				if m.Heights[idx] != z {
					return nil, fmt.Errorf("grid vertex (%v, %v) has two heights: %w", v[0], v[1], errdefs.ErrDegenerateGeometry)
				}
				continue
			}
			seen[idx] = true
			m.Heights[idx] = z
			filled++
		}
	}
	if filled != len(m.Heights) {
		return nil, fmt.Errorf("%d of %d grid vertices missing: %w", len(m.Heights)-filled, len(m.Heights), errdefs.ErrDegenerateGeometry)
	}

	m.Triangles = tris
	m.Bounds = computeBounds(m)
	return m, nil
}

// sortedKeys returns the keys of idx in ascending order and stores each key's
// position back into idx.
func sortedKeys(idx map[float32]int) []float32 {
	keys := make([]float32, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp.Compare[float32])
	for i, k := range keys {
		idx[k] = i
	}
	return keys
}

func nearlyEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 1e-5*max(1, a, b)
}
