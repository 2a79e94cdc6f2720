package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/heightmap"
)

func rampMesh(t *testing.T) *Mesh {
	t.Helper()
	// Intensity rises left to right: 0, 51, 102, ..., 255 -> z = 0..5
	r := &heightmap.Raster{Width: 6, Height: 2, Pix: []uint8{
		0, 51, 102, 153, 204, 255,
		0, 51, 102, 153, 204, 255,
	}}
	m, err := Build(r, Params{ResolutionFactor: 1, HeightScale: 5})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m
}

func TestHeightAtMatchesVertices(t *testing.T) {
	m, err := Build(scenarioRaster(t), scenarioParams())
	if err != nil {
		t.Fatal(err)
	}
	for _, ij := range [][2]int{{0, 0}, {10, 20}, {149, 149}, {149, 0}, {0, 149}, {75, 33}} {
		v := m.Vertex(ij[0], ij[1])
		h, err := m.HeightAt(v.X, v.Y)
		if err != nil {
			t.Fatalf("HeightAt(%v, %v) failed: %v", v.X, v.Y, err)
		}
		if math.Abs(h-v.Z) > 1e-9 {
			t.Errorf("HeightAt vertex (%d, %d) = %v, want %v", ij[0], ij[1], h, v.Z)
		}
	}
}

func TestHeightAtInterpolates(t *testing.T) {
	m := rampMesh(t)

	tests := []struct {
		x, y float64
		want float64
	}{
		{0, 0, 0},
		{0.5, 0, 0.5},
		{2.25, 0.5, 2.25},
		{5, 1, 5},
		{4.9, 0.1, 4.9},
	}
	for _, tt := range tests {
		got, err := m.HeightAt(tt.x, tt.y)
		if err != nil {
			t.Fatalf("HeightAt(%v, %v) failed: %v", tt.x, tt.y, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HeightAt(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestHeightAtOutOfBounds(t *testing.T) {
	m := rampMesh(t)

	for _, p := range [][2]float64{{-0.01, 0}, {0, -1}, {5.01, 0}, {0, 1.5}, {math.NaN(), 0}} {
		if _, err := m.HeightAt(p[0], p[1]); !errors.Is(err, errdefs.ErrOutOfBounds) {
			t.Errorf("HeightAt(%v, %v): expected ErrOutOfBounds, got %v", p[0], p[1], err)
		}
	}
}

func TestExtent(t *testing.T) {
	m, err := Build(scenarioRaster(t), scenarioParams())
	if err != nil {
		t.Fatal(err)
	}
	minX, minY, maxX, maxY := m.Extent()
	if minX != 0 || minY != 0 {
		t.Errorf("origin (%v, %v), want (0, 0)", minX, minY)
	}
	if math.Abs(maxX-14.9) > 1e-9 || math.Abs(maxY-14.9) > 1e-9 {
		t.Errorf("max extent (%v, %v), want (14.9, 14.9)", maxX, maxY)
	}
}
