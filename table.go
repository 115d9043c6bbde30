package kadro

import (
	"fmt"
)

// Table is an ordered collection of named, equal-length columns. Tables are
// immutable value types: every transformation returns a new Table, and
// columns untouched by a transform are shared by reference rather than
// copied. No two Tables ever share mutable state.
type Table struct {
	cols  []*Series
	index map[string]int
}

// NewTable creates a Table from the given columns. All columns must have
// the same length and unique names.
func NewTable(cols ...*Series) (*Table, error) {
	t := &Table{
		cols:  make([]*Series, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for _, s := range cols {
		if s == nil {
			return nil, fmt.Errorf("nil column")
		}
		if _, exists := t.index[s.Name()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, s.Name())
		}
		if len(t.cols) > 0 && s.Len() != t.cols[0].Len() {
			return nil, fmt.Errorf("column %q has length %d, want %d", s.Name(), s.Len(), t.cols[0].Len())
		}
		t.index[s.Name()] = len(t.cols)
		t.cols = append(t.cols, s)
	}
	return t, nil
}

// Height returns the number of rows.
func (t *Table) Height() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.cols)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, s := range t.cols {
		names[i] = s.Name()
	}
	return names
}

// Column returns the Series with the given name, or nil if not found.
func (t *Table) Column(name string) *Series {
	if i, ok := t.index[name]; ok {
		return t.cols[i]
	}
	return nil
}

// ColumnAt returns the Series at position i.
func (t *Table) ColumnAt(i int) *Series {
	return t.cols[i]
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Select returns a new Table with only the named columns, in the given
// order. Columns are shared, not copied.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Series, 0, len(names))
	for _, name := range names {
		s := t.Column(name)
		if s == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		cols = append(cols, s)
	}
	return NewTable(cols...)
}

// Drop returns a new Table without the named columns. Names that do not
// exist are silently ignored.
func (t *Table) Drop(names ...string) (*Table, error) {
	dropSet := make(map[string]bool, len(names))
	for _, name := range names {
		dropSet[name] = true
	}
	cols := make([]*Series, 0, len(t.cols))
	for _, s := range t.cols {
		if !dropSet[s.Name()] {
			cols = append(cols, s)
		}
	}
	return NewTable(cols...)
}

// Rename returns a new Table with columns renamed per the old→new mapping.
// Old names that do not exist are an error; collisions after renaming are
// an error.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	for old := range mapping {
		if !t.HasColumn(old) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, old)
		}
	}
	cols := make([]*Series, len(t.cols))
	for i, s := range t.cols {
		if newName, ok := mapping[s.Name()]; ok {
			cols[i] = s.WithName(newName)
		} else {
			cols[i] = s
		}
	}
	return NewTable(cols...)
}

// SetNames returns a new Table with all column names replaced. The number
// of names must equal the table width.
func (t *Table) SetNames(names []string) (*Table, error) {
	if len(names) != len(t.cols) {
		return nil, fmt.Errorf("got %d names for %d columns", len(names), len(t.cols))
	}
	cols := make([]*Series, len(t.cols))
	for i, s := range t.cols {
		cols[i] = s.WithName(names[i])
	}
	return NewTable(cols...)
}

// WithColumn returns a new Table with the column added, or replaced in
// place if a column with the same name exists. The column length must
// match the table height unless the table is empty.
func (t *Table) WithColumn(s *Series) (*Table, error) {
	if len(t.cols) > 0 && s.Len() != t.Height() {
		return nil, fmt.Errorf("%w: column %q has length %d, want %d",
			ErrPartitionLengthMismatch, s.Name(), s.Len(), t.Height())
	}
	cols := make([]*Series, len(t.cols), len(t.cols)+1)
	copy(cols, t.cols)
	if i, ok := t.index[s.Name()]; ok {
		cols[i] = s
	} else {
		cols = append(cols, s)
	}
	return NewTable(cols...)
}

// Take returns a new Table with the rows at the given indices, in order.
// Indices may repeat; -1 produces a null row segment (used by joins).
func (t *Table) Take(indices []int) *Table {
	cols := make([]*Series, len(t.cols))
	for i, s := range t.cols {
		cols[i] = s.Take(indices)
	}
	out, _ := NewTable(cols...)
	return out
}

// Filter returns a new Table with the rows where mask is true. The mask
// length must equal the table height.
func (t *Table) Filter(mask []bool) (*Table, error) {
	if len(mask) != t.Height() {
		return nil, fmt.Errorf("%w: mask has %d values for %d rows",
			ErrPartitionLengthMismatch, len(mask), t.Height())
	}
	cols := make([]*Series, len(t.cols))
	for i, s := range t.cols {
		cols[i] = s.Filter(mask)
	}
	return NewTable(cols...)
}

// Slice returns a new Table with rows from start to end (exclusive),
// clamped to the valid range.
func (t *Table) Slice(start, end int) *Table {
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}
	if end > t.Height() {
		end = t.Height()
	}
	if start > end {
		start = end
	}
	cols := make([]*Series, len(t.cols))
	for i, s := range t.cols {
		cols[i] = s.Slice(start, end)
	}
	out, _ := NewTable(cols...)
	return out
}

// Head returns a new Table with the first n rows.
func (t *Table) Head(n int) *Table {
	return t.Slice(0, n)
}

// Tail returns a new Table with the last n rows.
func (t *Table) Tail(n int) *Table {
	if n < 0 {
		n = 0
	}
	return t.Slice(t.Height()-n, t.Height())
}

// Clone returns a shallow copy of the Table. Columns are shared.
func (t *Table) Clone() *Table {
	out, _ := NewTable(t.cols...)
	return out
}
