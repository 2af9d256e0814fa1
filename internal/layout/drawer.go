package layout

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// AvailableForDrawer returns the catalog entries whose type is not placed,
// in catalog order.
func AvailableForDrawer(c *Catalog, placed []string) []Entry {
	used := make(map[string]bool, len(placed))
	for _, t := range placed {
		used[t] = true
	}
	var out []Entry
	for _, e := range c.Entries() {
		if !used[e.Type] {
			out = append(out, e)
		}
	}
	return out
}

// SearchDrawer fuzzy-filters drawer entries by title and type. Results are
// ordered by match score; an empty query returns entries unchanged.
func SearchDrawer(entries []Entry, query string) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	searchStrings := make([]string, len(entries))
	for i, e := range entries {
		searchStrings[i] = e.DisplayTitle() + " " + e.Type
	}

	matches := fuzzy.Find(query, searchStrings)
	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}
