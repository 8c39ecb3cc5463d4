package directory

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Sort returns a copy of records ordered by name with byte-wise comparison.
// Equal names keep their relative order.
func Sort(records []ContactRecord) []ContactRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b ContactRecord) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Filter returns the records whose name contains query, ignoring case. A blank
// query returns canonical as is. canonical is never modified.
func Filter(canonical []ContactRecord, query string) []ContactRecord {
	if strings.TrimSpace(query) == "" {
		return canonical
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]ContactRecord, 0, len(canonical))
	for _, record := range canonical {
		if strings.Contains(fold.String(record.Name), needle) {
			out = append(out, record)
		}
	}
	return out
}
