package category

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Renames is the lookup table of category renames, keyed by field then by
// historical name. It replaces ad-hoc string matching: a historical audit
// value is mapped to its current name exactly once, in the registry.
//
// File format (YAML):
//
//	status:
//	  TRIAGED: ASSIGNED
//	resolution:
//	  LATER: WONTFIX
type Renames map[string]map[string]string

// LoadRenames reads a rename table from a YAML file. A missing path is not
// an error; it yields an empty table (no renames configured).
func LoadRenames(path string) (Renames, error) {
	if path == "" {
		return Renames{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Renames{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read renames file: %w", err)
	}

	var r Renames
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse renames file %s: %w", path, err)
	}
	if r == nil {
		r = Renames{}
	}
	return r, nil
}

// Canonical maps a historical value to its current name for a field.
// Values without a rename entry pass through unchanged.
func (r Renames) Canonical(field, name string) string {
	if m, ok := r[field]; ok {
		if current, ok := m[name]; ok {
			return current
		}
	}
	return name
}
