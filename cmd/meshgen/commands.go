package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/meshgen/internal/config"
	"github.com/Faultbox/meshgen/internal/httpapi"
	"github.com/Faultbox/meshgen/internal/logger"
	"github.com/Faultbox/meshgen/internal/noise"
	"github.com/Faultbox/meshgen/internal/pipeline"
	"github.com/Faultbox/meshgen/internal/preset"
	"github.com/Faultbox/meshgen/pkg/formats"
	vmath "github.com/Faultbox/meshgen/pkg/math"
)

var errUsage = errors.New("invalid usage")

// randomSeeds is the number of seeds -random-seed chooses from.
const randomSeeds = 100

func pickSeed() int64 {
	return rand.Int64N(randomSeeds)
}

func cmdGenerate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	src := fs.String("preset", cfg.Pipeline.Preset, "Preset file or URL")
	seed := fs.Int64("seed", -1, "Seed (-1 keeps the preset's seed)")
	randomSeed := fs.Bool("random-seed", false, "Pick a seed in [0, 99]")
	kind := fs.String("noise", "", "Override the noise kind ("+kindNames()+")")
	fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := resolvePreset(ctx, cfg, *src)
	if err != nil {
		return err
	}
	if *randomSeed && *seed >= 0 {
		logger.Warn("-random-seed overrides -seed", zap.Int64("seed", *seed))
	}
	switch {
	case *randomSeed:
		p.Seed = pickSeed()
	case *seed >= 0:
		p.Seed = *seed
	}
	if *kind != "" {
		p.NoiseType = *kind
	}

	params, err := p.Params()
	if err != nil {
		return err
	}
	opts, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}
	opts.Logger = logger.Named("pipeline")

	res, err := pipeline.Run(ctx, params, opts, func(stage string, fraction float64) {
		fmt.Fprintf(os.Stderr, "%-10s %3.0f%%\n", stage, fraction*100)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Mesh:      %s\n", res.MeshPath)
	fmt.Printf("Terrain:   %s\n", res.TerrainPath)
	fmt.Printf("Heightmap: %s\n", res.RasterPath)
	fmt.Printf("Seed:      %d\n", p.Seed)
	fmt.Printf("Triangles: %d\n", res.Triangles)
	for _, s := range res.Sections {
		fmt.Printf("  %-10s %d\n", s.Name, s.Length)
	}
	fmt.Printf("Elapsed:   %v\n", res.Elapsed)
	return nil
}

func cmdPreset(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshgen preset init <file> | meshgen preset show <src>")
		return errUsage
	}

	switch args[0] {
	case "init":
		if err := preset.Default().Save(args[1]); err != nil {
			return err
		}
		fmt.Printf("Wrote default preset to %s\n", args[1])
		return nil
	case "show":
		p, err := resolvePreset(context.Background(), cfg, args[1])
		if err != nil {
			return err
		}
		params, err := p.Params()
		if err != nil {
			return err
		}
		n, t := params.Noise, params.Terrain
		fmt.Printf("Noise:    %s %dx%d scale=%g octaves=%d persistence=%g lacunarity=%g seed=%d\n",
			n.Kind, n.Width, n.Height, n.Scale, n.Octaves, n.Persistence, n.Lacunarity, n.Seed)
		fmt.Printf("Terrain:  factor=%g base=%g min=%g range=%g\n",
			t.ResolutionFactor, t.BaseElevation, t.MinHeight, t.HeightScale)
		o := params.Objects
		fmt.Printf("Rocks:    on=%v count=%d scale=[%g, %g] points=%d\n",
			o.Rocks.Enabled, o.Rocks.Count, o.Rocks.ScaleMin, o.Rocks.ScaleMax, o.Rocks.PointsPerRock)
		fmt.Printf("Trees:    on=%v count=%d scale=%g\n", o.Trees.Enabled, o.Trees.Count, o.Trees.ScaleMin)
		fmt.Printf("Mushroom: on=%v count=%d scale=%g\n", o.Mushrooms.Enabled, o.Mushrooms.Count, o.Mushrooms.ScaleMin)
		fmt.Printf("Anthill:  on=%v count=%d scale=%g\n", o.Anthills.Enabled, o.Anthills.Count, o.Anthills.ScaleMin)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Unknown preset command: %s\n", args[0])
	return errUsage
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshgen config save [file]")
		return errUsage
	}

	switch args[0] {
	case "save":
		if len(args) > 1 {
			if err := cfg.SaveTo(args[1]); err != nil {
				return err
			}
			fmt.Printf("Wrote config to %s\n", args[1])
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Wrote config to %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return nil
	}
	fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
	return errUsage
}

func cmdInspect(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshgen inspect <file.stl>")
		return errUsage
	}

	s, err := formats.ParseSTLFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Header:    %q\n", strings.TrimRight(string(s.Header[:]), "\x00 "))
	fmt.Printf("Triangles: %d\n", len(s.Triangles))
	if len(s.Triangles) == 0 {
		return nil
	}

	lo := vmath.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := vmath.Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	degenerate := 0
	for _, t := range s.Triangles {
		for _, v := range t.Vertices {
			p := vmath.FromF32(v)
			lo = lo.Min(p)
			hi = hi.Max(p)
		}
		if t.Normal == [3]float32{} {
			degenerate++
		}
	}
	fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	if degenerate > 0 {
		fmt.Printf("Degenerate: %d\n", degenerate)
	}
	return nil
}

func cmdServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Server.Addr, "Listen address")
	fs.Parse(args)

	opts, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.New(httpapi.Config{
		Addr:         *addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, opts, logger.Named("http"))
	return srv.ListenAndServe(ctx)
}

// resolvePreset loads a preset from a local file or a go-getter URL. An
// empty source yields the defaults.
func resolvePreset(ctx context.Context, cfg *config.Config, src string) (*preset.Preset, error) {
	if src == "" {
		return preset.Default(), nil
	}
	if strings.Contains(src, "::") || strings.Contains(src, "://") {
		local, err := preset.Fetch(ctx, src, cfg.Pipeline.PresetCache)
		if err != nil {
			return nil, err
		}
		logger.Debug("preset fetched", zap.String("src", src), zap.String("local", local))
		src = local
	}
	return preset.Load(src)
}

func kindNames() string {
	names := make([]string, 0, len(noise.Kinds()))
	for _, k := range noise.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}
