package terrain

import (
	"fmt"
	"math"

	"github.com/Faultbox/meshgen/internal/errdefs"
)

// HeightAt returns the bilinearly interpolated surface height at a world
// position. Positions outside the mesh extent are an error rather than being
// clamped so that placement bugs surface.
func (m *Mesh) HeightAt(x, y float64) (float64, error) {
	minX, minY, maxX, maxY := m.Extent()
	if !(x >= minX && x <= maxX && y >= minY && y <= maxY) {
		return 0, fmt.Errorf("height query (%v, %v) outside [%v, %v]x[%v, %v]: %w",
			x, y, minX, maxX, minY, maxY, errdefs.ErrOutOfBounds)
	}

	// Convert world coordinates to grid cell coordinates
	gx := (x - minX) / m.Spacing
	gy := (y - minY) / m.Spacing

	cellX := min(int(gx), m.ResX-2)
	cellY := min(int(gy), m.ResY-2)

	fracX := clampf(gx-float64(cellX), 0, 1)
	fracY := clampf(gy-float64(cellY), 0, 1)

	h00 := m.Heights[cellY*m.ResX+cellX]
	h10 := m.Heights[cellY*m.ResX+cellX+1]
	h01 := m.Heights[(cellY+1)*m.ResX+cellX]
	h11 := m.Heights[(cellY+1)*m.ResX+cellX+1]

	south := h00*(1-fracX) + h10*fracX
	north := h01*(1-fracX) + h11*fracX
	return south*(1-fracY) + north*fracY, nil
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
