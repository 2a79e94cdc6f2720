package objects

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/pkg/formats"
	vmath "github.com/Faultbox/meshgen/pkg/math"
)

// site holds the random draws of one instance.
type site struct {
	pos   vmath.Vec3
	scale float64
	yaw   float64
	seed  uint64
}

// Scatter places spec.Count instances of category c uniformly over the
// horizontal extent of s. Every random value comes from rng, so a seeded rng
// gives reproducible placement.
func Scatter(s Surface, c Category, spec CategorySpec, rng *rand.Rand) ([]Instance, error) {
	return scatter(s, c, spec, rng, 0)
}

func scatter(s Surface, c Category, spec CategorySpec, rng *rand.Rand, workers int) ([]Instance, error) {
	if err := spec.Validate(c); err != nil {
		return nil, err
	}
	if !spec.Enabled || spec.Count == 0 {
		return []Instance{}, nil
	}
	if rng == nil {
		return nil, fmt.Errorf("%s scatter needs a random source: %w", c, errdefs.ErrInvalidParameter)
	}

	minX, minY, maxX, maxY := s.Extent()
	sites := make([]site, spec.Count)
	for i := range sites {
		st := &sites[i]
		st.pos.X = minX + rng.Float64()*(maxX-minX)
		st.pos.Y = minY + rng.Float64()*(maxY-minY)
		st.scale = spec.ScaleMin + rng.Float64()*(spec.ScaleMax-spec.ScaleMin)
		st.yaw = rng.Float64() * 2 * math.Pi
		st.seed = rng.Uint64()

		z, err := s.HeightAt(st.pos.X, st.pos.Y)
		if err != nil {
			return nil, fmt.Errorf("placing %s %d: %w", c, i, err)
		}
		st.pos.Z = z
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Instance, len(sites))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, st := range sites {
		g.Go(func() error {
			proto, err := prototype(c, spec, st.seed)
			if err != nil {
				return fmt.Errorf("%s %d prototype: %w", c, i, err)
			}
			out[i] = place(c, proto, st)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// place moves a prototype into world space.
func place(c Category, proto shape, st site) Instance {
	m := vmath.Placement(st.pos, vmath.Yaw(st.yaw), st.scale)
	tris := make([]formats.Triangle, len(proto))
	for i, t := range proto {
		a := m.TransformPoint(t[0])
		b := m.TransformPoint(t[1])
		d := m.TransformPoint(t[2])
		tris[i] = formats.Triangle{
			Normal:   b.Sub(a).Cross(d.Sub(a)).Normalize().F32(),
			Vertices: [3][3]float32{a.F32(), b.F32(), d.F32()},
		}
	}
	return Instance{
		Category:        c,
		Position:        st.pos,
		Scale:           st.scale,
		Yaw:             st.yaw,
		PrototypeRadius: proto.radius(),
		Triangles:       tris,
	}
}

// PlaceAll scatters every category. Category i draws from its own stream
// rand.NewPCG(seed, i), so changing one category leaves the others in place.
func PlaceAll(s Surface, p Params, seed uint64) (map[Category][]Instance, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	placed := make(map[Category][]Instance, len(Categories()))
	for _, c := range Categories() {
		rng := rand.New(rand.NewPCG(seed, uint64(c)))
		inst, err := scatter(s, c, p.Spec(c), rng, p.Workers)
		if err != nil {
			return nil, err
		}
		placed[c] = inst
	}
	return placed, nil
}
