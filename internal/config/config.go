// Package config handles application configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/meshgen/internal/pipeline"
)

// Config holds all application settings.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// OutputConfig holds artifact locations.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	RasterFile   string `yaml:"raster_file"` // .png, .tif/.tiff or .bmp
	TerrainFile  string `yaml:"terrain_file"`
	CombinedFile string `yaml:"combined_file"`
	Handoff      string `yaml:"handoff"` // "disk" or "memory"
}

// PipelineConfig holds generation settings.
type PipelineConfig struct {
	Workers     int    `yaml:"workers"`      // 0 uses every CPU
	Preset      string `yaml:"preset"`       // default preset path or go-getter URL
	PresetCache string `yaml:"preset_cache"` // where fetched presets are stored
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"` // console or json
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:          ".",
			RasterFile:   pipeline.DefaultRasterFile,
			TerrainFile:  pipeline.DefaultTerrainFile,
			CombinedFile: pipeline.DefaultCombinedFile,
			Handoff:      "disk",
		},
		Pipeline: PipelineConfig{
			Workers:     0,
			PresetCache: "presets",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Minute,
			MaxBodyBytes: 1 << 20,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			LogFile: "",
		},
	}
}

// PipelineOptions returns the run options described by the config.
func (c *Config) PipelineOptions() (pipeline.Options, error) {
	handoff, err := pipeline.ParseHandoff(c.Output.Handoff)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		OutputDir:    c.Output.Dir,
		RasterFile:   c.Output.RasterFile,
		TerrainFile:  c.Output.TerrainFile,
		CombinedFile: c.Output.CombinedFile,
		Handoff:      handoff,
		Workers:      c.Pipeline.Workers,
	}, nil
}
