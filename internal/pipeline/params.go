package pipeline

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/noise"
	"github.com/Faultbox/meshgen/internal/objects"
	"github.com/Faultbox/meshgen/internal/terrain"
)

// Params is everything a run needs. Noise.Seed also seeds object placement.
type Params struct {
	Noise   noise.Params
	Terrain terrain.Params
	Objects objects.Params
}

// Validate checks every stage's parameters up front.
func (p Params) Validate() error {
	if err := p.Noise.Validate(); err != nil {
		return err
	}
	if err := p.Terrain.Validate(); err != nil {
		return err
	}
	return p.Objects.Validate()
}

// Handoff selects how the terrain reaches the placement stage.
type Handoff int

const (
	// HandoffDisk re-reads the raster and terrain from their files.
	HandoffDisk Handoff = iota
	// HandoffMemory passes them on directly.
	HandoffMemory
)

func (h Handoff) String() string {
	if h == HandoffMemory {
		return "memory"
	}
	return "disk"
}

// ParseHandoff resolves "disk" or "memory".
func ParseHandoff(s string) (Handoff, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "disk":
		return HandoffDisk, nil
	case "memory":
		return HandoffMemory, nil
	}
	return HandoffDisk, fmt.Errorf("unknown handoff %q: %w", s, errdefs.ErrInvalidParameter)
}
