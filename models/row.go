package models

import (
	"strconv"
	"strings"
)

// Schema is the header line of one parsed file with a name→position index
// built once. Every Row parsed from that file shares the same Schema.
type Schema struct {
	headers []string
	index   map[string]int
}

// NewSchema builds a Schema. When a name repeats, its first position wins.
func NewSchema(headers []string) *Schema {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return &Schema{headers: headers, index: idx}
}

// Headers returns the column names in file order. Callers must not modify it.
func (s *Schema) Headers() []string { return s.headers }

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.headers) }

// Index returns the position of the named column.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Row is one CSV data line bound to its file's Schema.
// Values may be longer than the header list; the extra values are kept.
type Row struct {
	Schema *Schema
	Values []string
}

// NewRow binds values to schema.
func NewRow(schema *Schema, values []string) *Row {
	return &Row{Schema: schema, Values: values}
}

// Headers returns the column names of the row's schema.
func (r *Row) Headers() []string { return r.Schema.Headers() }

// ValueAt returns the value at position i, or "" when the row is too short.
func (r *Row) ValueAt(i int) string {
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

// Value returns the value of the named column, or "" when the column is
// missing from the schema or the row is too short to hold it.
func (r *Row) Value(name string) string {
	i, ok := r.Schema.Index(name)
	if !ok {
		return ""
	}
	return r.ValueAt(i)
}

// Int parses the named column as an integer. Missing or unparsable values are 0.
func (r *Row) Int(name string) int {
	n, err := strconv.Atoi(r.Value(name))
	if err != nil {
		return 0
	}
	return n
}

// Email returns the Email column.
func (r *Row) Email() string { return r.Value(ColEmail) }

// MatchesExtension reports whether the apply or tab extension of the row
// equals ext, ignoring case. "kotlin" also matches the short form "kt".
func (r *Row) MatchesExtension(ext string) bool {
	apply := r.Value(ColApplyExtension)
	tab := r.Value(ColTabExtension)

	candidates := []string{ext}
	if strings.EqualFold(ext, "kotlin") {
		candidates = append(candidates, "kt")
	}
	for _, c := range candidates {
		if strings.EqualFold(apply, c) || strings.EqualFold(tab, c) {
			return true
		}
	}
	return false
}

// RequestTotal sums the request columns of the row.
func (r *Row) RequestTotal() int {
	total := 0
	for _, col := range RequestColumns {
		total += r.Int(col)
	}
	return total
}
