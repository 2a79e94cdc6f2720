// Package pipeline runs the generation stages in order: noise, heightmap,
// terrain mesh, object placement and the combined export.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/heightmap"
	"github.com/Faultbox/meshgen/internal/logger"
	"github.com/Faultbox/meshgen/internal/noise"
	"github.com/Faultbox/meshgen/internal/objects"
	"github.com/Faultbox/meshgen/internal/scene"
	"github.com/Faultbox/meshgen/internal/terrain"
)

// Default artifact names.
const (
	DefaultRasterFile   = "heightmap.png"
	DefaultTerrainFile  = "exported_mesh.stl"
	DefaultCombinedFile = "combined_terrain_with_objects.stl"
)

// Stage names reported to ProgressFunc.
const (
	StageNoise     = "noise"
	StageTerrain   = "terrain"
	StagePlacement = "placement"
	StageCombine   = "combine"
)

// ProgressFunc receives the name of a finished stage and the overall
// completion fraction.
type ProgressFunc func(stage string, fraction float64)

// Options controls where artifacts go and how the stages run.
type Options struct {
	OutputDir    string
	RasterFile   string // extension selects the image format
	TerrainFile  string
	CombinedFile string
	Handoff      Handoff
	Workers      int         // <= 0 means GOMAXPROCS
	Logger       *zap.Logger // defaults to the global logger
}

func (o Options) withDefaults() Options {
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.RasterFile == "" {
		o.RasterFile = DefaultRasterFile
	}
	if o.TerrainFile == "" {
		o.TerrainFile = DefaultTerrainFile
	}
	if o.CombinedFile == "" {
		o.CombinedFile = DefaultCombinedFile
	}
	if o.Logger == nil {
		o.Logger = logger.Named("pipeline")
	}
	return o
}

// Result describes the artifacts of a finished run.
type Result struct {
	RasterPath  string          `json:"raster_path"`
	TerrainPath string          `json:"terrain_path"`
	MeshPath    string          `json:"path"`
	Triangles   int             `json:"triangles"`
	Sections    []scene.Section `json:"sections"`
	Elapsed     time.Duration   `json:"elapsed_ns"`
}

// Run executes one generation. Parameters are validated before anything is
// written. Cancellation is checked between stages; a cancelled or failed run
// leaves the artifacts of completed stages on disk.
func Run(ctx context.Context, p Params, opts Options, progress ProgressFunc) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if progress == nil {
		progress = func(string, float64) {}
	}
	if p.Terrain.Workers == 0 {
		p.Terrain.Workers = opts.Workers
	}
	if p.Objects.Workers == 0 {
		p.Objects.Workers = opts.Workers
	}
	if _, err := heightmap.FormatFromPath(opts.RasterFile); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errdefs.IO("creating output directory", err)
	}

	r := &run{
		log:   opts.Logger.With(zap.Int64("seed", p.Noise.Seed), zap.Stringer("handoff", opts.Handoff)),
		start: time.Now(),
		res: &Result{
			RasterPath:  filepath.Join(opts.OutputDir, opts.RasterFile),
			TerrainPath: filepath.Join(opts.OutputDir, opts.TerrainFile),
			MeshPath:    filepath.Join(opts.OutputDir, opts.CombinedFile),
		},
	}

	raster, err := r.heightmap(p.Noise, opts.Handoff)
	if err != nil {
		return nil, err
	}
	if err := r.done(ctx, StageNoise, 0.3, progress); err != nil {
		return nil, err
	}

	surface, err := r.terrain(raster, p.Terrain, opts.Handoff)
	if err != nil {
		return nil, err
	}
	if err := r.done(ctx, StageTerrain, 0.6, progress); err != nil {
		return nil, err
	}

	placed, err := objects.PlaceAll(surface, p.Objects, uint64(p.Noise.Seed))
	if err != nil {
		return nil, err
	}
	if err := r.done(ctx, StagePlacement, 0.8, progress); err != nil {
		return nil, err
	}

	combined, err := scene.Combine(surface.Triangles, placed)
	if err != nil {
		return nil, err
	}
	if err := scene.Serialize(combined, r.res.MeshPath); err != nil {
		return nil, err
	}
	r.res.Triangles = len(combined.Triangles)
	r.res.Sections = combined.Sections
	r.res.Elapsed = time.Since(r.start)
	r.log.Info("run finished",
		zap.String("path", r.res.MeshPath),
		zap.Int("triangles", r.res.Triangles),
		zap.Duration("elapsed", r.res.Elapsed))
	progress(StageCombine, 1.0)
	return r.res, nil
}

type run struct {
	log   *zap.Logger
	start time.Time
	mark  time.Time
	res   *Result
}

// done logs a finished stage, then reports progress unless ctx was
// cancelled in the meantime.
func (r *run) done(ctx context.Context, stage string, fraction float64, progress ProgressFunc) error {
	since := r.start
	if !r.mark.IsZero() {
		since = r.mark
	}
	r.mark = time.Now()
	r.log.Debug("stage finished", zap.String("stage", stage), zap.Duration("took", r.mark.Sub(since)))

	if err := ctx.Err(); err != nil {
		r.log.Warn("run cancelled", zap.String("after", stage), zap.Error(err))
		return err
	}
	progress(stage, fraction)
	return nil
}

func (r *run) heightmap(p noise.Params, h Handoff) (*heightmap.Raster, error) {
	field, err := noise.Generate(p)
	if err != nil {
		return nil, err
	}
	raster := heightmap.Encode(field)
	if err := heightmap.Write(r.res.RasterPath, raster); err != nil {
		return nil, err
	}
	if h == HandoffMemory {
		return raster, nil
	}
	return heightmap.Decode(r.res.RasterPath)
}

func (r *run) terrain(raster *heightmap.Raster, p terrain.Params, h Handoff) (*terrain.Mesh, error) {
	m, err := terrain.Build(raster, p)
	if err != nil {
		return nil, err
	}
	if err := m.Save(r.res.TerrainPath); err != nil {
		return nil, err
	}
	r.log.Debug("terrain saved",
		zap.String("path", r.res.TerrainPath),
		zap.Int("triangles", len(m.Triangles)),
		zap.Float64("min_z", m.Bounds.Min.Z),
		zap.Float64("max_z", m.Bounds.Max.Z))
	if h == HandoffMemory {
		return m, nil
	}
	return terrain.Load(r.res.TerrainPath)
}
