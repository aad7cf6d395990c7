package taxonomy

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table maps unit names to commissions by keyword containment.
type Table struct {
	entries  []tableEntry
	fallback string
	warnings []string
}

type tableEntry struct {
	keyword    string
	commission string
	length     int
	pos        int
}

// NewTable indexes the entries longest keyword first; equal lengths keep
// their table order.
func NewTable(entries []Entry, fallback string) *Table {
	t := &Table{fallback: fallback}
	seen := map[string]struct{}{}
	for i, e := range entries {
		if _, dup := seen[e.Keyword]; dup {
			continue
		}
		seen[e.Keyword] = struct{}{}
		t.entries = append(t.entries, tableEntry{
			keyword:    e.Keyword,
			commission: e.Commission,
			length:     utf8.RuneCountInString(e.Keyword),
			pos:        i,
		})
	}
	sort.SliceStable(t.entries, func(i, j int) bool {
		if t.entries[i].length != t.entries[j].length {
			return t.entries[i].length > t.entries[j].length
		}
		return t.entries[i].pos < t.entries[j].pos
	})
	t.warnings = substringWarnings(t.entries)
	return t
}

// Classify returns the commission of the longest keyword contained in name,
// or the fallback commission when nothing matches.
func (t *Table) Classify(name string) string {
	if name == "" {
		return t.fallback
	}
	for _, e := range t.entries {
		if strings.Contains(name, e.keyword) {
			return e.commission
		}
	}
	return t.fallback
}

func (t *Table) Fallback() string {
	return t.fallback
}

func (t *Table) IsFallback(commission string) bool {
	return commission == t.fallback
}

// Warnings lists keywords that are substrings of other keywords. Those only
// resolve correctly because the longer keyword is tried first.
func (t *Table) Warnings() []string {
	return append([]string(nil), t.warnings...)
}

func (t *Table) Len() int {
	return len(t.entries)
}

func substringWarnings(entries []tableEntry) []string {
	byPos := append([]tableEntry(nil), entries...)
	sort.Slice(byPos, func(i, j int) bool { return byPos[i].pos < byPos[j].pos })

	var out []string
	for _, short := range byPos {
		for _, long := range byPos {
			if short.keyword == long.keyword || !strings.Contains(long.keyword, short.keyword) {
				continue
			}
			out = append(out, fmt.Sprintf("keyword %q (%s) is contained in %q (%s)",
				short.keyword, short.commission, long.keyword, long.commission))
		}
	}
	return out
}
