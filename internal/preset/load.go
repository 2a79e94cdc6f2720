package preset

import (
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/logger"
)

// Load reads a preset file (JSON or YAML) on top of the defaults.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.IO("reading preset", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a preset record on top of the defaults. JSON is accepted as
// YAML. Unknown keys are ignored; a recognized key with a value of the wrong
// type is an error.
func Parse(data []byte) (*Preset, error) {
	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding preset: %v: %w", err, errdefs.ErrInvalidParameter)
	}
	p := Default()
	if err := p.Apply(raw); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply overwrites the fields named in raw.
func (p *Preset) Apply(raw map[string]any) error {
	fields := p.fields()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		dst, ok := fields[key]
		if !ok {
			logger.Debug("ignoring unknown preset key", zap.String("key", key))
			continue
		}
		if err := assign(dst, raw[key]); err != nil {
			return fmt.Errorf("preset key %q: %w", key, err)
		}
	}
	return nil
}

func assign(dst, v any) error {
	switch d := dst.(type) {
	case *string:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("want a string, got %T: %w", v, errdefs.ErrInvalidParameter)
		}
		*d = s
	case *float64:
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		*d = f
	case *int64:
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return fmt.Errorf("want an integer, got %v: %w", v, errdefs.ErrInvalidParameter)
		}
		*d = int64(f)
	case *Switch:
		switch b := v.(type) {
		case bool:
			*d = Switch(b)
		case string:
			return d.UnmarshalText([]byte(b))
		default:
			return fmt.Errorf("want on/off, got %T: %w", v, errdefs.ErrInvalidParameter)
		}
	default:
		return fmt.Errorf("unsupported field type %T", dst)
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("want a number, got %q: %w", n, errdefs.ErrInvalidParameter)
		}
		return f, nil
	}
	return 0, fmt.Errorf("want a number, got %T: %w", v, errdefs.ErrInvalidParameter)
}
