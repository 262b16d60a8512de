package holiday

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Set is a set of calendar dates, keyed by their YYYY-MM-DD form in UTC.
// A Set is built once by the calendar and never mutated afterwards.
type Set map[string]struct{}

// NewSet builds a Set from the given instants, keeping only their UTC dates.
func NewSet(dates ...time.Time) Set {
	s := make(Set, len(dates))
	for _, d := range dates {
		s[d.UTC().Format(dateLayout)] = struct{}{}
	}
	return s
}

// SetFromDates rebuilds a Set from serialized YYYY-MM-DD strings, as stored in
// the shared cache. Entries that do not parse are dropped.
func SetFromDates(dates []string) Set {
	s := make(Set, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(dateLayout, d); err != nil {
			continue
		}
		s[d] = struct{}{}
	}
	return s
}

// Contains reports whether the UTC date of t is in the set.
func (s Set) Contains(t time.Time) bool {
	_, ok := s[t.UTC().Format(dateLayout)]
	return ok
}

// Union returns a new Set holding the dates of both sets.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for d := range s {
		out[d] = struct{}{}
	}
	for d := range other {
		out[d] = struct{}{}
	}
	return out
}

// Dates returns the serialized dates in sorted order.
func (s Set) Dates() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
