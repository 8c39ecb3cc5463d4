package directory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func records(names ...string) []ContactRecord {
	out := make([]ContactRecord, 0, len(names))
	for _, n := range names {
		out = append(out, ContactRecord{Name: n})
	}
	return out
}

func TestSortOrdersByName(t *testing.T) {
	in := records("carl", "Bob", "Ann", "bob", "Zoe")
	got := Sort(in)
	assert.Equal(t, records("Ann", "Bob", "Zoe", "bob", "carl"), got)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Name, got[i].Name)
	}
}

func TestSortIsStableAndLeavesInputAlone(t *testing.T) {
	in := []ContactRecord{
		{Name: "Bob", Email: "first@example.com"},
		{Name: "Ann"},
		{Name: "Bob", Email: "second@example.com"},
	}
	snapshot := append([]ContactRecord(nil), in...)

	got := Sort(in)
	assert.Equal(t, snapshot, in)
	assert.Equal(t, "Ann", got[0].Name)
	assert.Equal(t, "first@example.com", got[1].Email)
	assert.Equal(t, "second@example.com", got[2].Email)
}

func TestSortIdempotent(t *testing.T) {
	once := Sort(records("b", "a", "c", "a"))
	assert.Equal(t, once, Sort(once))
}

func TestFilterScenario(t *testing.T) {
	canonical := records("Ann", "Bob", "Carl")
	assert.Equal(t, records("Ann"), Filter(canonical, "an"))
}

func TestFilterBlankQueryReturnsCanonical(t *testing.T) {
	canonical := records("Ann", "Bob", "Carl")
	for _, q := range []string{"", " ", "\t\n"} {
		assert.Equal(t, canonical, Filter(canonical, q), "query %q", q)
	}
}

func TestFilterMatchesNameOnly(t *testing.T) {
	canonical := []ContactRecord{
		{Name: "Ann", Email: "zed@example.com", Department: "Zeta"},
		{Name: "Zed"},
	}
	assert.Equal(t, []ContactRecord{{Name: "Zed"}}, Filter(canonical, "ze"))
}

func TestFilterResultsContainQuery(t *testing.T) {
	canonical := records("Ann Lee", "Bob", "Carla", "DANA", "Émile", "émilie")
	for _, q := range []string{"a", "AN", "ob", "x", "émi", "ÉMI", "la "} {
		got := Filter(canonical, q)
		for _, r := range got {
			assert.Contains(t, strings.ToLower(r.Name), strings.ToLower(q))
		}
		// order and membership come from canonical
		idx := 0
		for _, r := range got {
			for idx < len(canonical) && canonical[idx].Name != r.Name {
				idx++
			}
			assert.Less(t, idx, len(canonical), "query %q reordered results", q)
		}
	}
	assert.Len(t, Filter(canonical, "ÉMI"), 2)
}

func TestFilterDoesNotMutateCanonical(t *testing.T) {
	canonical := records("Ann", "Bob")
	snapshot := append([]ContactRecord(nil), canonical...)
	_ = Filter(canonical, "bob")
	assert.Equal(t, snapshot, canonical)
}

func TestFilterIsPure(t *testing.T) {
	canonical := records("Ann", "Bob", "Carl")
	assert.Equal(t, Filter(canonical, "a"), Filter(canonical, "a"))
}
