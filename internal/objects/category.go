package objects

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meshgen/internal/errdefs"
)

// Category identifies a kind of scattered object.
type Category int

// Categories in combine order.
const (
	Rock Category = iota
	Tree
	Mushroom
	Anthill
)

var categoryNames = [...]string{
	Rock:     "rock",
	Tree:     "tree",
	Mushroom: "mushroom",
	Anthill:  "anthill",
}

// Categories returns every category in declared order.
func Categories() []Category {
	return []Category{Rock, Tree, Mushroom, Anthill}
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory resolves a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown object category %q: %w", s, errdefs.ErrInvalidParameter)
}
