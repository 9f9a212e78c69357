package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Dimension-Based Filtering via RecordView
// ============================================================================
// Single-pass filter: checks every dimension constraint per record in one loop.
// Returns a SubView (index list into parent).
// ============================================================================

// ApplyFilters returns a view of records matching the dimension filters.
// Values within a dimension are OR-combined. Dimensions are AND-combined,
// or OR-combined when filters.Match is MatchAny.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	// Pre-build lowercase lookup sets for each dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	matchAny := filters.Match == MatchAny

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if matchRecord(view, i, sets, matchAny) {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

func matchRecord(view RecordView, i int, sets map[string]map[string]bool, matchAny bool) bool {
	for dim, set := range sets {
		hit := set[strings.ToLower(view.Dimension(i, dim))]
		if matchAny && hit {
			return true
		}
		if !matchAny && !hit {
			return false
		}
	}
	return !matchAny
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
