package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/noise"
	"github.com/Faultbox/meshgen/internal/objects"
	"github.com/Faultbox/meshgen/internal/terrain"
	"github.com/Faultbox/meshgen/pkg/formats"
)

func scenarioParams() Params {
	return Params{
		Noise: noise.Params{
			Kind: noise.Perlin, Width: 15, Height: 15,
			Scale: 100, Octaves: 5, Persistence: 5, Lacunarity: 5, Seed: 42,
		},
		Terrain: terrain.Params{ResolutionFactor: 10, BaseElevation: 1, HeightScale: 1, MinHeight: 0.5},
	}
}

func withObjects(p Params) Params {
	p.Objects = objects.Params{
		Rocks:     objects.CategorySpec{Enabled: true, Count: 3, ScaleMin: 0.1, ScaleMax: 0.15, PointsPerRock: 100},
		Trees:     objects.CategorySpec{Enabled: true, Count: 4, ScaleMin: 0.1, ScaleMax: 0.1},
		Mushrooms: objects.CategorySpec{Enabled: true, Count: 2, ScaleMin: 0.1, ScaleMax: 0.1},
		Anthills:  objects.CategorySpec{Enabled: true, Count: 1, ScaleMin: 0.1, ScaleMax: 0.1},
	}
	return p
}

func TestRunWithoutObjects(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(context.Background(), scenarioParams(), Options{OutputDir: dir}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := terrain.TriangleCount(150, 150)
	if res.Triangles != want {
		t.Errorf("expected %d triangles, got %d", want, res.Triangles)
	}
	for _, p := range []string{res.RasterPath, res.TerrainPath, res.MeshPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("artifact missing: %v", err)
		}
	}

	s, err := formats.ParseSTLFile(res.MeshPath)
	if err != nil {
		t.Fatalf("ParseSTLFile failed: %v", err)
	}
	if len(s.Triangles) != want {
		t.Errorf("combined file holds %d triangles, want %d", len(s.Triangles), want)
	}
}

func TestRunProgress(t *testing.T) {
	var stages []string
	var fractions []float64
	_, err := Run(context.Background(), withObjects(scenarioParams()), Options{OutputDir: t.TempDir()},
		func(stage string, f float64) {
			stages = append(stages, stage)
			fractions = append(fractions, f)
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantStages := []string{StageNoise, StageTerrain, StagePlacement, StageCombine}
	wantFractions := []float64{0.3, 0.6, 0.8, 1.0}
	if len(stages) != len(wantStages) {
		t.Fatalf("progress reported %v", stages)
	}
	for i := range wantStages {
		if stages[i] != wantStages[i] || fractions[i] != wantFractions[i] {
			t.Errorf("progress %d = (%s, %v), want (%s, %v)", i, stages[i], fractions[i], wantStages[i], wantFractions[i])
		}
	}
}

func TestRunHandoffModes(t *testing.T) {
	p := withObjects(scenarioParams())

	disk, err := Run(context.Background(), p, Options{OutputDir: t.TempDir(), Handoff: HandoffDisk}, nil)
	if err != nil {
		t.Fatalf("disk run failed: %v", err)
	}
	mem, err := Run(context.Background(), p, Options{OutputDir: t.TempDir(), Handoff: HandoffMemory, Workers: 2}, nil)
	if err != nil {
		t.Fatalf("memory run failed: %v", err)
	}

	if disk.Triangles != mem.Triangles {
		t.Fatalf("triangle counts differ: disk %d, memory %d", disk.Triangles, mem.Triangles)
	}
	for i := range disk.Sections {
		if disk.Sections[i] != mem.Sections[i] {
			t.Errorf("section %d differs: %+v vs %+v", i, disk.Sections[i], mem.Sections[i])
		}
	}

	a, err := formats.ParseSTLFile(disk.MeshPath)
	if err != nil {
		t.Fatal(err)
	}
	b, err := formats.ParseSTLFile(mem.MeshPath)
	if err != nil {
		t.Fatal(err)
	}
	terrainLen := disk.Sections[0].Length
	for i := 0; i < terrainLen; i++ {
		if a.Triangles[i] != b.Triangles[i] {
			t.Fatalf("terrain triangle %d differs between handoff modes", i)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	p := withObjects(scenarioParams())
	opts := Options{Handoff: HandoffMemory}

	opts.OutputDir = t.TempDir()
	first, err := Run(context.Background(), p, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	opts.OutputDir = t.TempDir()
	second, err := Run(context.Background(), p, opts, nil)
	if err != nil {
		t.Fatal(err)
	}

	a, err := os.ReadFile(first.MeshPath)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second.MeshPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("identical runs produced different files")
	}
}

func TestRunInvalidParamsWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"octaves", func(p *Params) { p.Noise.Octaves = 0 }},
		{"factor", func(p *Params) { p.Terrain.ResolutionFactor = -1 }},
		{"scale range", func(p *Params) {
			p.Objects.Trees = objects.CategorySpec{Enabled: true, Count: 1, ScaleMin: 2, ScaleMax: 1}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scenarioParams()
			tt.modify(&p)
			_, err := Run(context.Background(), p, Options{OutputDir: dir}, nil)
			if !errors.Is(err, errdefs.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			if _, err := os.Stat(dir); !os.IsNotExist(err) {
				t.Errorf("output directory created for invalid params")
			}
		})
	}
}

func TestRunUnsupportedRasterFormat(t *testing.T) {
	_, err := Run(context.Background(), scenarioParams(), Options{OutputDir: t.TempDir(), RasterFile: "h.jpg"}, nil)
	if !errors.Is(err, errdefs.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	var reported []string
	_, err := Run(ctx, scenarioParams(), Options{OutputDir: dir}, func(stage string, _ float64) {
		reported = append(reported, stage)
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(reported) != 1 || reported[0] != StageNoise {
		t.Errorf("progress after cancel: %v", reported)
	}

	// Earlier artifacts stay, the combined mesh never appears.
	if _, err := os.Stat(filepath.Join(dir, DefaultTerrainFile)); err != nil {
		t.Errorf("terrain artifact missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultCombinedFile)); !os.IsNotExist(err) {
		t.Errorf("combined mesh written after cancel")
	}
}

func TestParseHandoff(t *testing.T) {
	tests := []struct {
		in   string
		want Handoff
	}{
		{"", HandoffDisk},
		{"disk", HandoffDisk},
		{" Memory ", HandoffMemory},
	}
	for _, tt := range tests {
		got, err := ParseHandoff(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseHandoff(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseHandoff("tape"); !errors.Is(err, errdefs.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
