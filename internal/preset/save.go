package preset

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshgen/internal/errdefs"
	"github.com/Faultbox/meshgen/pkg/formats"
)

// Save writes the preset to path: JSON for a .json extension, YAML
// otherwise. The file is replaced atomically.
func (p *Preset) Save(path string) error {
	err := formats.WriteFileAtomic(path, func(w io.Writer) error {
		return p.Encode(w, strings.EqualFold(filepath.Ext(path), ".json"))
	})
	return errdefs.IO("saving preset", err)
}

// Encode writes the preset as indented JSON or as YAML.
func (p *Preset) Encode(w io.Writer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(p)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}
