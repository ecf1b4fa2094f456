// Package export writes per-tile-type results: JSON routing tables and DOT
// graphs, to a local directory or an S3 bucket.
package export

import "sort"

// All selects every tile type.
const All = ":all"

// Selection is a set of tile type names, possibly the wildcard.
type Selection struct {
	all   bool
	names map[string]bool
}

// NewSelection builds a selection from names. The name ":all" selects
// everything.
func NewSelection(names ...string) Selection {
	s := Selection{names: make(map[string]bool, len(names))}
	for _, n := range names {
		if n == All {
			s.all = true
			continue
		}
		s.names[n] = true
	}
	return s
}

// Contains reports whether name is selected.
func (s Selection) Contains(name string) bool {
	return s.all || s.names[name]
}

// IsAll reports whether the selection is the wildcard.
func (s Selection) IsAll() bool { return s.all }

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return !s.all && len(s.names) == 0
}

// Names returns the explicitly selected names, sorted.
func (s Selection) Names() []string {
	names := make([]string, 0, len(s.names))
	for n := range s.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Unknown returns the selected names missing from known.
func (s Selection) Unknown(known []string) []string {
	have := make(map[string]bool, len(known))
	for _, k := range known {
		have[k] = true
	}
	var missing []string
	for _, n := range s.Names() {
		if !have[n] {
			missing = append(missing, n)
		}
	}
	return missing
}
