// Package filter computes the visible subset of an in-memory collection.
package filter

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// All is the facet value shown for "no restriction".
const All = "All"

// allAliases are facet values that match every item.
var allAliases = map[string]struct{}{"": {}, "all": {}, "全部": {}}

// IsAll reports whether a facet value leaves its facet unrestricted.
func IsAll(value string) bool {
	_, ok := allAliases[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// State is the user's current search text and facet choices.
type State struct {
	Search string
	Facets map[string]string
}

// With returns a copy of s with facet set to value.
func (s State) With(facet, value string) State {
	facets := make(map[string]string, len(s.Facets)+1)
	for k, v := range s.Facets {
		facets[k] = v
	}
	facets[facet] = value
	s.Facets = facets
	return s
}

// Active reports whether any restriction is in effect.
func (s State) Active() bool {
	if strings.TrimSpace(s.Search) != "" {
		return true
	}
	for _, v := range s.Facets {
		if !IsAll(v) {
			return true
		}
	}
	return false
}

// Spec tells the filter which text field to search and how to read facets.
type Spec[T any] struct {
	Text   func(T) string
	Facets map[string]func(T) string
}

// Apply keeps the items matching every active restriction, in source order.
func Apply[T any](items []T, spec Spec[T], st State) []T {
	query := strings.ToLower(strings.TrimSpace(st.Search))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesSearch(item, spec, query) {
			continue
		}
		if !matchesFacets(item, spec, st.Facets) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch[T any](item T, spec Spec[T], query string) bool {
	if query == "" || spec.Text == nil {
		return true
	}
	return strings.Contains(strings.ToLower(spec.Text(item)), query)
}

func matchesFacets[T any](item T, spec Spec[T], facets map[string]string) bool {
	for name, want := range facets {
		if IsAll(want) {
			continue
		}
		get, ok := spec.Facets[name]
		if !ok {
			// unknown facet restricts nothing
			continue
		}
		if get(item) != want {
			return false
		}
	}
	return true
}

// FacetValues lists All followed by the distinct values of facet in
// first-seen order.
func FacetValues[T any](items []T, spec Spec[T], facet string) []string {
	out := []string{All}
	get, ok := spec.Facets[facet]
	if !ok {
		return out
	}
	seen := map[string]struct{}{}
	for _, item := range items {
		v := get(item)
		if _, dup := seen[v]; dup || IsAll(v) {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Cycle returns the facet value after current in values, wrapping around.
func Cycle(values []string, current string, delta int) string {
	if len(values) == 0 {
		return All
	}
	idx := 0
	for i, v := range values {
		if v == current || (IsAll(current) && IsAll(v)) {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(values) + len(values)) % len(values)
	return values[idx]
}

// Suggest returns up to n item texts closest to query by edit distance.
// Ties keep source order.
func Suggest[T any](items []T, spec Spec[T], query string, n int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || n <= 0 || spec.Text == nil {
		return nil
	}
	type scored struct {
		text string
		dist int
	}
	seen := map[string]struct{}{}
	var cands []scored
	for _, item := range items {
		text := spec.Text(item)
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		cands = append(cands, scored{text: text, dist: levenshtein.ComputeDistance(query, strings.ToLower(text))})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.text)
	}
	return out
}
