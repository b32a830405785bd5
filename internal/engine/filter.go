package engine

import "strings"

// Mode selects which attribute the filter narrows on.
type Mode int

const (
	ModeAll Mode = iota
	ModeByStatus
	ModeByCategory
)

func (m Mode) String() string {
	switch m {
	case ModeByStatus:
		return "status"
	case ModeByCategory:
		return "category"
	default:
		return "all"
	}
}

// Filter holds the search text, the filter mode, and the selected value.
// Value is meaningful only when Mode is not ModeAll; an empty Value leaves
// the mode active but unconstrained.
type Filter struct {
	Search string
	Mode   Mode
	Value  string
}

// SetMode switches the filter mode. Switching always clears the selected
// value, so a stale status ID never bleeds into a category filter.
func (f *Filter) SetMode(m Mode) {
	f.Mode = m
	f.Value = ""
}

// Apply returns the books passing both the search and the mode predicate,
// in their original order. Pure and total: an empty catalog or an empty
// filter yields an empty or unfiltered result, never an error.
func (f Filter) Apply(books []Book, statuses StatusList) []Book {
	var out []Book
	for _, b := range books {
		if f.Search != "" && !matchesSearch(b, f.Search) {
			continue
		}
		if !f.matchesMode(b, statuses) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (f Filter) matchesMode(b Book, statuses StatusList) bool {
	switch f.Mode {
	case ModeByStatus:
		if f.Value == "" {
			return true
		}
		label, ok := statuses.Resolve(f.Value)
		return ok && b.Status == label
	case ModeByCategory:
		// Exact, case-sensitive: categories come verbatim from the store.
		return f.Value == "" || b.Category == f.Value
	default:
		return true
	}
}

func matchesSearch(b Book, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(b.Title), q) {
		return true
	}
	return strings.Contains(strings.ToLower(b.Author), q)
}
