package export

import "strconv"

// Column is one exported field.
type Column[T any] struct {
	Header string
	Value  func(T) string

	// Cell, when set, supplies the typed workbook value. CSV always uses Value.
	Cell func(T) any
}

// Projection is the ordered column selection for one record type.
type Projection[T any] []Column[T]

// Headers returns the header row.
func (p Projection[T]) Headers() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Header
	}
	return out
}

// Row renders v as strings, one per column.
func (p Projection[T]) Row(v T) []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Value(v)
	}
	return out
}

// cells renders v as typed workbook values.
func (p Projection[T]) cells(v T) []any {
	out := make([]any, len(p))
	for i, c := range p {
		if c.Cell != nil {
			out[i] = c.Cell(v)
			continue
		}
		out[i] = c.Value(v)
	}
	return out
}

// Text builds a string column.
func Text[T any](header string, get func(T) string) Column[T] {
	return Column[T]{Header: header, Value: get}
}

// Int builds an integer column stored as a number in workbooks.
func Int[T any](header string, get func(T) int64) Column[T] {
	return Column[T]{
		Header: header,
		Value:  func(v T) string { return strconv.FormatInt(get(v), 10) },
		Cell:   func(v T) any { return get(v) },
	}
}
