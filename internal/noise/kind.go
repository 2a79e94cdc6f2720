package noise

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meshgen/internal/errdefs"
)

// Kind selects the noise algorithm.
type Kind int

// Supported noise algorithms.
const (
	Perlin Kind = iota
	Simplex
	Value
	Cellular
)

var kindNames = [...]string{
	Perlin:   "Perlin",
	Simplex:  "Simplex",
	Value:    "Value",
	Cellular: "Cellular",
}

// Kinds lists every supported algorithm in declaration order.
func Kinds() []Kind {
	return []Kind{Perlin, Simplex, Value, Cellular}
}

// String returns the display name of the algorithm.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a case-insensitive algorithm name into a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown noise type %q: %w", s, errdefs.ErrInvalidParameter)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("noise kind %d: %w", int(k), errdefs.ErrInvalidParameter)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
