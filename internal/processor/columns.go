package processor

import (
	"maps"
	"slices"
)

// Columns returns the union of all row keys sorted ascending, with the
// geometry column moved to the end when any row has it.
func Columns(rows []Row, geometry string) []string {
	set := make(map[string]struct{})
	for _, row := range rows {
		for name := range row {
			set[name] = struct{}{}
		}
	}

	_, hasGeometry := set[geometry]
	delete(set, geometry)

	columns := slices.Sorted(maps.Keys(set))
	if hasGeometry {
		columns = append(columns, geometry)
	}

	return columns
}
