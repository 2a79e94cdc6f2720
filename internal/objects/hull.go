package objects

import (
	"fmt"

	"github.com/Faultbox/meshgen/internal/errdefs"
	vmath "github.com/Faultbox/meshgen/pkg/math"
)

// hullEpsilon is the distance above a face plane at which a point counts as
// outside the face.
const hullEpsilon = 1e-10

type hullFace struct {
	v      [3]int
	normal vmath.Vec3
	offset float64 // plane: normal . p == offset
}

func newHullFace(pts []vmath.Vec3, a, b, c int) hullFace {
	n := pts[b].Sub(pts[a]).Cross(pts[c].Sub(pts[a])).Normalize()
	return hullFace{v: [3]int{a, b, c}, normal: n, offset: n.Dot(pts[a])}
}

func (f *hullFace) distance(p vmath.Vec3) float64 {
	return f.normal.Dot(p) - f.offset
}

type hullEdge struct{ from, to int }

// convexHull returns the triangles of the convex hull of pts, wound
// counter-clockwise seen from outside.
//
// Points are added one at a time: faces that see the new point are removed
// and the hole is closed by fanning the horizon edges to the point.
func convexHull(pts []vmath.Vec3) ([][3]vmath.Vec3, error) {
	seed, err := hullSeed(pts)
	if err != nil {
		return nil, err
	}

	inner := pts[seed[0]].Add(pts[seed[1]]).Add(pts[seed[2]]).Add(pts[seed[3]]).Scale(0.25)
	faces := make([]hullFace, 0, 4)
	for _, tri := range [4][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}} {
		f := newHullFace(pts, seed[tri[0]], seed[tri[1]], seed[tri[2]])
		if f.distance(inner) > 0 {
			f = newHullFace(pts, seed[tri[0]], seed[tri[2]], seed[tri[1]])
		}
		faces = append(faces, f)
	}

	used := make(map[int]bool, 4)
	for _, s := range seed {
		used[s] = true
	}

	visible := make(map[hullEdge]bool)
	var edges []hullEdge
	for i, p := range pts {
		if used[i] {
			continue
		}
		clear(visible)
		edges = edges[:0]
		kept := faces[:0:0]
		for _, f := range faces {
			if f.distance(p) > hullEpsilon {
				for k := range 3 {
					e := hullEdge{f.v[k], f.v[(k+1)%3]}
					visible[e] = true
					edges = append(edges, e)
				}
				continue
			}
			kept = append(kept, f)
		}
		if len(edges) == 0 {
			continue
		}
		// A visible edge whose twin is not visible lies on the horizon.
		for _, e := range edges {
			if !visible[hullEdge{e.to, e.from}] {
				kept = append(kept, newHullFace(pts, e.from, e.to, i))
			}
		}
		faces = kept
	}

	tris := make([][3]vmath.Vec3, len(faces))
	for i, f := range faces {
		tris[i] = [3]vmath.Vec3{pts[f.v[0]], pts[f.v[1]], pts[f.v[2]]}
	}
	return tris, nil
}

// hullSeed picks four affinely independent points spanning a large
// tetrahedron.
func hullSeed(pts []vmath.Vec3) ([4]int, error) {
	var seed [4]int
	if len(pts) < 4 {
		return seed, fmt.Errorf("hull needs 4 points, got %d: %w", len(pts), errdefs.ErrDegenerateGeometry)
	}

	farthest := func(score func(p vmath.Vec3) float64) (int, float64) {
		best, bestScore := 0, -1.0
		for i, p := range pts {
			if s := score(p); s > bestScore {
				best, bestScore = i, s
			}
		}
		return best, bestScore
	}

	a := pts[0]
	seed[1], _ = farthest(func(p vmath.Vec3) float64 { return p.Distance(a) })
	b := pts[seed[1]]
	ab := b.Sub(a)
	var d float64
	seed[2], d = farthest(func(p vmath.Vec3) float64 { return ab.Cross(p.Sub(a)).Length() })
	if d <= hullEpsilon {
		return seed, fmt.Errorf("hull points are collinear: %w", errdefs.ErrDegenerateGeometry)
	}
	n := ab.Cross(pts[seed[2]].Sub(a)).Normalize()
	seed[3], d = farthest(func(p vmath.Vec3) float64 {
		dist := n.Dot(p.Sub(a))
		if dist < 0 {
			return -dist
		}
		return dist
	})
	if d <= hullEpsilon {
		return seed, fmt.Errorf("hull points are coplanar: %w", errdefs.ErrDegenerateGeometry)
	}
	return seed, nil
}
