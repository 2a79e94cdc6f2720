// Package preset reads and writes generation presets: flat records of
// control-surface values (slider positions and on/off switches) that map to
// pipeline parameters.
package preset

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meshgen/internal/errdefs"
)

// Switch is an on/off control. It is stored as "on" or "off".
type Switch bool

// MarshalText implements encoding.TextMarshaler.
func (s Switch) MarshalText() ([]byte, error) {
	if s {
		return []byte("on"), nil
	}
	return []byte("off"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Switch) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "on", "true", "yes", "1":
		*s = true
	case "off", "false", "no", "0", "":
		*s = false
	default:
		return fmt.Errorf("switch value %q is not on/off: %w", text, errdefs.ErrInvalidParameter)
	}
	return nil
}

// Preset holds control-surface values. Distances and elevations are in
// slider units; Params converts them.
type Preset struct {
	NoiseType        string  `json:"noise_type" yaml:"noise_type"`
	Width            float64 `json:"width" yaml:"width"`
	Height           float64 `json:"height" yaml:"height"`
	Scale            float64 `json:"scale" yaml:"scale"`
	Octaves          float64 `json:"octaves" yaml:"octaves"`
	Persistence      float64 `json:"persistence" yaml:"persistence"`
	Lacunarity       float64 `json:"lacunarity" yaml:"lacunarity"`
	ResolutionFactor float64 `json:"resolution_factor" yaml:"resolution_factor"`
	BaseElevation    float64 `json:"base_elevation" yaml:"base_elevation"`
	MinHeight        float64 `json:"min_height" yaml:"min_height"`
	MaxHeight        float64 `json:"max_height" yaml:"max_height"`
	Seed             int64   `json:"seed" yaml:"seed"`

	AddTrees     Switch  `json:"add_trees" yaml:"add_trees"`
	TreesDensity float64 `json:"trees_density" yaml:"trees_density"`
	TreesScale   float64 `json:"trees_scale" yaml:"trees_scale"`

	AddRocks     Switch  `json:"add_rocks" yaml:"add_rocks"`
	RocksMin     float64 `json:"rocks_min" yaml:"rocks_min"`
	RocksMax     float64 `json:"rocks_max" yaml:"rocks_max"`
	RocksPoint   float64 `json:"rocks_point" yaml:"rocks_point"`
	RocksDensity float64 `json:"rocks_density" yaml:"rocks_density"`

	AddMushroom     Switch  `json:"add_mushroom" yaml:"add_mushroom"`
	MushroomDensity float64 `json:"mushroom_density" yaml:"mushroom_density"`
	MushroomScale   float64 `json:"mushroom_scale" yaml:"mushroom_scale"`

	// Anthills; the record keeps the historical "volcano" key names.
	AddVolcano     Switch  `json:"add_volcano" yaml:"add_volcano"`
	VolcanoDensity float64 `json:"volcano_density" yaml:"volcano_density"`
	VolcanoScale   float64 `json:"volcano_scale" yaml:"volcano_scale"`
}

// Default returns the control surface's initial positions.
func Default() *Preset {
	return &Preset{
		NoiseType:        "Perlin",
		Width:            15,
		Height:           15,
		Scale:            100,
		Octaves:          5,
		Persistence:      5,
		Lacunarity:       5,
		ResolutionFactor: 10,
		BaseElevation:    200,
		MinHeight:        100,
		MaxHeight:        300,

		AddTrees:     true,
		TreesDensity: 30,
		TreesScale:   10,

		AddRocks:     true,
		RocksMin:     10,
		RocksMax:     15,
		RocksPoint:   1000,
		RocksDensity: 15,

		AddMushroom:     true,
		MushroomDensity: 15,
		MushroomScale:   10,

		AddVolcano:     true,
		VolcanoDensity: 10,
		VolcanoScale:   10,
	}
}

// fields maps every record key to its destination.
func (p *Preset) fields() map[string]any {
	return map[string]any{
		"noise_type":        &p.NoiseType,
		"width":             &p.Width,
		"height":            &p.Height,
		"scale":             &p.Scale,
		"octaves":           &p.Octaves,
		"persistence":       &p.Persistence,
		"lacunarity":        &p.Lacunarity,
		"resolution_factor": &p.ResolutionFactor,
		"base_elevation":    &p.BaseElevation,
		"min_height":        &p.MinHeight,
		"max_height":        &p.MaxHeight,
		"seed":              &p.Seed,
		"add_trees":         &p.AddTrees,
		"trees_density":     &p.TreesDensity,
		"trees_scale":       &p.TreesScale,
		"add_rocks":         &p.AddRocks,
		"rocks_min":         &p.RocksMin,
		"rocks_max":         &p.RocksMax,
		"rocks_point":       &p.RocksPoint,
		"rocks_density":     &p.RocksDensity,
		"add_mushroom":      &p.AddMushroom,
		"mushroom_density":  &p.MushroomDensity,
		"mushroom_scale":    &p.MushroomScale,
		"add_volcano":       &p.AddVolcano,
		"volcano_density":   &p.VolcanoDensity,
		"volcano_scale":     &p.VolcanoScale,
	}
}
