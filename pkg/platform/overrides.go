package platform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OverrideFile is the YAML shape for descriptor overrides. Platforms change
// their pages more often than this module is released, so URLs, locators and
// label maps can be patched from a local file without rebuilding.
type OverrideFile struct {
	Platforms []*Descriptor `yaml:"platforms"`
}

// LoadOverrides reads a YAML override file and applies it to the registry.
// Each listed platform replaces the built-in descriptor of the same name, or
// is added as a new platform when no built-in exists.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read override file: %w", err)
	}

	var f OverrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}
	if len(f.Platforms) == 0 {
		return fmt.Errorf("override file %s lists no platforms", path)
	}

	for _, d := range f.Platforms {
		// A replaced built-in keeps its calendar driver; YAML cannot carry
		// behaviour.
		if existing, ok := r.descriptors[d.Name]; ok && d.Calendar == nil {
			d.Calendar = existing.Calendar
		}
		if err := r.Register(d); err != nil {
			return fmt.Errorf("override for %s: %w", d.Name, err)
		}
	}
	return nil
}
