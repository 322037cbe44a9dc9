package diff

import (
	"sort"

	"github.com/existflow/tablero/internal/model"
)

// NormalizedNames reduces a label set to its sorted comparison form:
// trimmed, lower-cased names. Display casing is untouched; the write
// payload always carries the original names.
func NormalizedNames(labels []model.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, model.NormalizeLabel(l.Name))
	}
	sort.Strings(names)
	return names
}

// LabelsChanged reports whether two label sets differ in content.
// Sets differing only in element casing, ordering, or representation
// (bare string vs decorated object) are unchanged. The decision to
// write is delta-based even though the wire operation is a full
// association replace.
func LabelsChanged(prev, next []model.Label) bool {
	a, b := NormalizedNames(prev), NormalizedNames(next)
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

// Names extracts the display names of a label set for the write path.
func Names(labels []model.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}
