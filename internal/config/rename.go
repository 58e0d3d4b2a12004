package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

var ErrEmptyRename = errors.New("rename target must not be empty")

// RenameTable maps source field names to output column names.
// It is immutable once built; the zero value renames nothing.
type RenameTable struct {
	names map[string]string
}

// NewRenameTable copies m into a new table.
func NewRenameTable(m map[string]string) RenameTable {
	return RenameTable{names: maps.Clone(m)}
}

// Lookup returns the output name for name, or name itself when it has no entry.
func (t RenameTable) Lookup(name string) string {
	if renamed, ok := t.names[name]; ok {
		return renamed
	}

	return name
}

// Len returns the number of entries.
func (t RenameTable) Len() int {
	return len(t.names)
}

// Sources returns the source names in sorted order.
func (t RenameTable) Sources() []string {
	return slices.Sorted(maps.Keys(t.names))
}

// UnmarshalYAML replaces the table with the mapping node contents.
func (t *RenameTable) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]string
	if err := value.Decode(&m); err != nil {
		return err
	}

	*t = NewRenameTable(m)
	return nil
}

// MarshalYAML emits the table as a plain mapping.
func (t RenameTable) MarshalYAML() (any, error) {
	return t.names, nil
}

func (t RenameTable) validate() error {
	for _, src := range t.Sources() {
		if t.names[src] == "" {
			return fmt.Errorf("%w: %q", ErrEmptyRename, src)
		}
	}

	return nil
}
