package cli

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/roach88/propsel/internal/introspect"
)

// maxSuggestions bounds "did you mean" lists.
const maxSuggestions = 3

// Suggest returns up to n candidates within edit distance of name,
// closest first. Comparison ignores case; ties keep candidate order.
func Suggest(name string, candidates []string, n int) []string {
	type scored struct {
		name string
		dist int
	}

	query := strings.ToLower(name)
	limit := len(query) / 3
	if limit < 2 {
		limit = 2
	}

	var matches []scored
	for _, c := range candidates {
		d := levenshtein.Distance(query, strings.ToLower(c), nil)
		if d <= limit {
			matches = append(matches, scored{name: c, dist: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].dist < matches[j].dist
	})

	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// typeNames lists every registered type as "module.Name".
func typeNames(reg *introspect.Registry) []string {
	types := reg.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.ID.String()
	}
	return names
}

// moduleNames lists every registered module.
func moduleNames(reg *introspect.Registry) []string {
	modules := reg.Modules()
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = m.Name
	}
	return names
}
