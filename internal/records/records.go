package records

import (
	"sort"
	"strings"
)

/*
Records

Responsibilities:
- Turn a blocklist snapshot into a set of records
- Compute which records are new relative to a previous snapshot

A record is one trimmed, non-empty line that does not start with "#".
Records are opaque: no domain or URL parsing happens here.
Everything in this package is pure.
*/

const commentMarker = "#"

// Set is an unordered collection of unique records.
type Set map[string]struct{}

func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set) Has(record string) bool {
	_, ok := s[record]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Sorted returns the records in ascending byte order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for record := range s {
		out = append(out, record)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold exactly the same records.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for record := range s {
		if !other.Has(record) {
			return false
		}
	}
	return true
}

// Parse extracts the record set from snapshot text.
func Parse(content string) Set {
	set := Set{}
	if content == "" {
		return set
	}

	for _, line := range strings.FieldsFunc(content, isLineBreak) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		set[line] = struct{}{}
	}
	return set
}

// Diff returns the records present in current but absent from previous.
// A nil previous behaves as the empty set.
func Diff(current, previous Set) Set {
	out := Set{}
	for record := range current {
		if !previous.Has(record) {
			out[record] = struct{}{}
		}
	}
	return out
}

// isLineBreak matches the same boundaries as a universal-newline split:
// LF, CR, VT, FF, the ASCII file/group/record separators, NEL and the
// Unicode line and paragraph separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
