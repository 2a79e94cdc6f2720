// Package scene merges the terrain and placed objects into one triangle soup
// and writes it out.
package scene

import (
	"fmt"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/internal/objects"
	"github.com/Faultbox/meshgen/pkg/formats"
)

// STLHeader tags combined files written by Serialize.
const STLHeader = "meshgen scene"

// TerrainSection names the terrain block.
const TerrainSection = "terrain"

// Section is a contiguous block of triangles.
type Section struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// Mesh is the combined triangle soup.
type Mesh struct {
	Triangles []formats.Triangle
	Sections  []Section
}

// Combine concatenates the terrain triangles and then every category in
// declared order, instances in generation order. Every category gets a
// section, empty ones included.
func Combine(terrain []formats.Triangle, instances map[objects.Category][]objects.Instance) (*Mesh, error) {
	total := len(terrain)
	for _, c := range objects.Categories() {
		for _, in := range instances[c] {
			total += len(in.Triangles)
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("combined mesh has no triangles: %w", errdefs.ErrDegenerateGeometry)
	}

	m := &Mesh{
		Triangles: make([]formats.Triangle, 0, total),
		Sections:  make([]Section, 0, 1+len(objects.Categories())),
	}
	m.add(TerrainSection, terrain)
	for _, c := range objects.Categories() {
		start := len(m.Triangles)
		for _, in := range instances[c] {
			m.Triangles = append(m.Triangles, in.Triangles...)
		}
		m.Sections = append(m.Sections, Section{Name: c.String(), Offset: start, Length: len(m.Triangles) - start})
	}
	return m, nil
}

func (m *Mesh) add(name string, tris []formats.Triangle) {
	m.Sections = append(m.Sections, Section{Name: name, Offset: len(m.Triangles), Length: len(tris)})
	m.Triangles = append(m.Triangles, tris...)
}

// Section returns the block with the given name.
func (m *Mesh) Section(name string) (Section, bool) {
	for _, s := range m.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Counts maps section names to triangle counts.
func (m *Mesh) Counts() map[string]int {
	counts := make(map[string]int, len(m.Sections))
	for _, s := range m.Sections {
		counts[s.Name] = s.Length
	}
	return counts
}

// Serialize writes m to path as binary STL. The file appears only once it is
// complete; on failure any previous file at path is left untouched.
func Serialize(m *Mesh, path string) error {
	if m == nil || len(m.Triangles) == 0 {
		return fmt.Errorf("nothing to serialize: %w", errdefs.ErrDegenerateGeometry)
	}
	err := formats.WriteSTLFile(path, formats.NewSTL(STLHeader, m.Triangles))
	return errdefs.IO("writing combined mesh "+path, err)
}
