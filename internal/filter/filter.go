// Package filter narrows parsed entries by exact column values, the way the
// analyzer's table views do.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"ns3-trace-analyzer/internal/export"
	"ns3-trace-analyzer/internal/trace"
)

// All is the pseudo-value that clears a column's filter.
const All = "All"

// Column names a tabular column. Its values are export.Header entries.
type Column string

// ErrUnknownColumn is returned for column names outside export.Header.
var ErrUnknownColumn = errors.New("unknown column")

// Columns returns every filterable column in display order.
func Columns() []Column {
	cols := make([]Column, len(export.Header))
	for i, h := range export.Header {
		cols[i] = Column(h)
	}
	return cols
}

func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// LookupColumn resolves name case-insensitively, ignoring spaces, dashes and
// underscores, so "event_type" finds "Event Type".
func LookupColumn(name string) (Column, error) {
	want := normalize(name)
	for _, h := range export.Header {
		if normalize(h) == want {
			return Column(h), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

func (c Column) index() int {
	return slices.Index(export.Header, string(c))
}

// Value returns the display string of col for e, empty when absent.
func Value(e trace.Entry, col Column) string {
	i := col.index()
	if i < 0 {
		return ""
	}
	return export.Row(e)[i]
}

// Unique returns the sorted distinct non-empty values of col.
func Unique(entries []trace.Entry, col Column) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		if v := Value(e, col); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Set holds at most one required value per column.
type Set map[Column]string

// Put sets the filter for col. All removes it.
func (s Set) Put(col Column, value string) {
	if value == All {
		delete(s, col)
		return
	}
	s[col] = value
}

// Match reports whether e satisfies every filter in s.
func (s Set) Match(e trace.Entry) bool {
	if len(s) == 0 {
		return true
	}
	row := export.Row(e)
	for col, want := range s {
		i := col.index()
		if i < 0 || row[i] != want {
			return false
		}
	}
	return true
}

// Apply returns the entries matching every filter, keeping their order.
func (s Set) Apply(entries []trace.Entry) []trace.Entry {
	if len(s) == 0 {
		return entries
	}
	var out []trace.Entry
	for _, e := range entries {
		if s.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// String renders the set as sorted column=value pairs.
func (s Set) String() string {
	parts := make([]string, 0, len(s))
	for col, v := range s {
		parts = append(parts, fmt.Sprintf("%s=%s", col, v))
	}
	slices.Sort(parts)
	return strings.Join(parts, ", ")
}

// ParseExpr parses "column=value", for example "Node=N2".
func ParseExpr(expr string) (Column, string, error) {
	name, value, ok := strings.Cut(expr, "=")
	if !ok {
		return "", "", fmt.Errorf("filter %q: want column=value", expr)
	}
	col, err := LookupColumn(strings.TrimSpace(name))
	if err != nil {
		return "", "", err
	}
	return col, strings.TrimSpace(value), nil
}

// Parse builds a Set from column=value expressions.
func Parse(exprs []string) (Set, error) {
	s := Set{}
	for _, expr := range exprs {
		col, v, err := ParseExpr(expr)
		if err != nil {
			return nil, err
		}
		s.Put(col, v)
	}
	return s, nil
}
