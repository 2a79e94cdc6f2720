package objects

import (
	"math"
	"math/rand/v2"
	"sync"

	vmath "github.com/Faultbox/meshgen/pkg/math"
)

// lathe segments around the vertical axis
const primitiveSegments = 12

// shape is a closed triangle set in a prototype's local frame: origin on the
// ground point, +z up.
type shape [][3]vmath.Vec3

// radius returns the largest distance of a vertex from the origin.
func (s shape) radius() float64 {
	var r float64
	for _, t := range s {
		for _, v := range t {
			r = max(r, v.Length())
		}
	}
	return r
}

// ring is one point of a lathe profile: a circle of radius r at height z.
type ring struct{ r, z float64 }

// lathe sweeps a bottom-to-top profile around +z. A profile end with
// non-zero radius is closed with a flat cap, so the result is watertight and
// every triangle is wound counter-clockwise seen from outside.
func lathe(profile []ring, segments int) shape {
	at := func(p ring, k int) vmath.Vec3 {
		a := 2 * math.Pi * float64(k%segments) / float64(segments)
		return vmath.Vec3{X: p.r * math.Cos(a), Y: p.r * math.Sin(a), Z: p.z}
	}

	var s shape
	if first := profile[0]; first.r > 0 {
		c := vmath.Vec3{Z: first.z}
		for k := range segments {
			s = append(s, [3]vmath.Vec3{c, at(first, k+1), at(first, k)})
		}
	}
	for n := 0; n+1 < len(profile); n++ {
		lo, hi := profile[n], profile[n+1]
		for k := range segments {
			p0, p1 := at(lo, k), at(lo, k+1)
			p2, p3 := at(hi, k+1), at(hi, k)
			if lo.r > 0 {
				s = append(s, [3]vmath.Vec3{p0, p1, p2})
			}
			if hi.r > 0 {
				s = append(s, [3]vmath.Vec3{p0, p2, p3})
			}
		}
	}
	if last := profile[len(profile)-1]; last.r > 0 {
		c := vmath.Vec3{Z: last.z}
		for k := range segments {
			s = append(s, [3]vmath.Vec3{c, at(last, k), at(last, k+1)})
		}
	}
	return s
}

// dome returns a hemispherical profile of the given radius and height
// standing on z0, approximated by stacks frusta.
func dome(radius, height, z0 float64, stacks int) []ring {
	profile := make([]ring, 0, stacks+1)
	for i := range stacks {
		phi := math.Pi / 2 * float64(i) / float64(stacks)
		profile = append(profile, ring{r: radius * math.Cos(phi), z: z0 + height*math.Sin(phi)})
	}
	return append(profile, ring{r: 0, z: z0 + height})
}

var (
	treePrototype = sync.OnceValue(func() shape {
		s := lathe([]ring{{0.08, 0}, {0.06, 0.4}}, primitiveSegments)
		s = append(s, lathe([]ring{{0.4, 0.3}, {0, 0.8}}, primitiveSegments)...)
		return append(s, lathe([]ring{{0.3, 0.6}, {0, 1.0}}, primitiveSegments)...)
	})

	mushroomPrototype = sync.OnceValue(func() shape {
		s := lathe([]ring{{0.1, 0}, {0.08, 0.35}}, primitiveSegments)
		return append(s, lathe(dome(0.35, 0.25, 0.3, 4), primitiveSegments)...)
	})

	anthillPrototype = sync.OnceValue(func() shape {
		return lathe(dome(0.5, 0.35, 0, 5), primitiveSegments)
	})
)

// rockPrototype returns the convex hull of n points drawn uniformly from the
// unit ball.
func rockPrototype(n int, seed uint64) (shape, error) {
	rng := rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
	pts := make([]vmath.Vec3, 0, n)
	for len(pts) < n {
		p := vmath.Vec3{X: 2*rng.Float64() - 1, Y: 2*rng.Float64() - 1, Z: 2*rng.Float64() - 1}
		if p.Dot(p) <= 1 {
			pts = append(pts, p)
		}
	}
	return convexHull(pts)
}

// prototype synthesizes the local-frame mesh of one instance.
func prototype(c Category, spec CategorySpec, seed uint64) (shape, error) {
	switch c {
	case Rock:
		return rockPrototype(spec.PointsPerRock, seed)
	case Tree:
		return treePrototype(), nil
	case Mushroom:
		return mushroomPrototype(), nil
	default:
		return anthillPrototype(), nil
	}
}
