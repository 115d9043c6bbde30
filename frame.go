// Package kadro provides a fluent, eager transformation API over in-memory
// tabular data: column selection and renaming, row filtering, sorting,
// grouped mutation, grouped aggregation, reshaping, sampling, and
// two-table joins. A Frame bundles an immutable Table with an active
// grouping; every method returns a new Frame and never mutates in place.
package kadro

import (
	"fmt"
)

// FilterFunc decides which rows to keep: given a table, it returns one
// bool per row.
type FilterFunc func(*Table) ([]bool, error)

// Frame is the public handle: a Table plus the list of grouping columns
// currently in effect. Grouping influences Mutate, Agg, and Sort; it is
// set by GroupBy, cleared by Ungroup, and cleared unconditionally by Agg,
// Gather, and joins.
type Frame struct {
	table  *Table
	groups []string
}

// New creates an ungrouped Frame wrapping the given Table.
func New(t *Table) *Frame {
	if t == nil {
		t, _ = NewTable()
	}
	return &Frame{table: t}
}

// FromSeries creates an ungrouped Frame from columns.
func FromSeries(cols ...*Series) (*Frame, error) {
	t, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	return New(t), nil
}

// Table returns the underlying Table.
func (f *Frame) Table() *Table {
	return f.table
}

// Groups returns the active grouping columns.
func (f *Frame) Groups() []string {
	out := make([]string, len(f.groups))
	copy(out, f.groups)
	return out
}

// Height returns the number of rows.
func (f *Frame) Height() int {
	return f.table.Height()
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return f.table.Width()
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return f.table.Columns()
}

// derive wraps a transformed table, carrying the receiver's grouping.
func (f *Frame) derive(t *Table) *Frame {
	return &Frame{table: t, groups: f.groups}
}

// Select returns a Frame with only the named columns. Active grouping
// columns are always retained: any grouping column not named is prepended
// in grouping order, so the grouping stays valid.
func (f *Frame) Select(names ...string) (*Frame, error) {
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}
	keep := make([]string, 0, len(f.groups)+len(names))
	for _, g := range f.groups {
		if !nameSet[g] {
			keep = append(keep, g)
		}
	}
	keep = append(keep, names...)

	t, err := f.table.Select(keep...)
	if err != nil {
		return nil, err
	}
	return f.derive(t), nil
}

// Drop returns a Frame without the named columns. Names that do not exist
// are ignored; dropping an active grouping column is an error.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	for _, name := range names {
		for _, g := range f.groups {
			if name == g {
				return nil, fmt.Errorf("%w: cannot drop grouping column %q", ErrInvalidGroupColumn, name)
			}
		}
	}
	t, err := f.table.Drop(names...)
	if err != nil {
		return nil, err
	}
	return f.derive(t), nil
}

// Rename returns a Frame with columns renamed per the old→new mapping.
// Grouping follows the rename.
func (f *Frame) Rename(mapping map[string]string) (*Frame, error) {
	t, err := f.table.Rename(mapping)
	if err != nil {
		return nil, err
	}
	groups := make([]string, len(f.groups))
	for i, g := range f.groups {
		if newName, ok := mapping[g]; ok {
			groups[i] = newName
		} else {
			groups[i] = g
		}
	}
	return &Frame{table: t, groups: groups}, nil
}

// SetNames returns a Frame with all column names replaced, positionally.
// Grouping columns are remapped by position.
func (f *Frame) SetNames(names ...string) (*Frame, error) {
	old := f.table.Columns()
	t, err := f.table.SetNames(names)
	if err != nil {
		return nil, err
	}
	byOld := make(map[string]string, len(old))
	for i, o := range old {
		byOld[o] = names[i]
	}
	groups := make([]string, len(f.groups))
	for i, g := range f.groups {
		groups[i] = byOld[g]
	}
	return &Frame{table: t, groups: groups}, nil
}

// Filter returns a Frame keeping only rows every predicate accepts.
// Predicates apply in order, each seeing the rows the previous kept.
// Grouping is carried through.
func (f *Frame) Filter(preds ...FilterFunc) (*Frame, error) {
	t := f.table
	for _, pred := range preds {
		mask, err := pred(t)
		if err != nil {
			return nil, fmt.Errorf("%w: filter predicate: %v", ErrReducerFailure, err)
		}
		t, err = t.Filter(mask)
		if err != nil {
			return nil, err
		}
	}
	return f.derive(t), nil
}

// Mutate returns a Frame with the named columns computed and added (or
// replaced). With active grouping each function runs per partition and
// results scatter back to original row positions; row count and order
// never change.
func (f *Frame) Mutate(muts ...Mutation) (*Frame, error) {
	t, err := mutateTable(f.table, f.groups, muts)
	if err != nil {
		return nil, err
	}
	return f.derive(t), nil
}

// GroupBy returns a Frame grouped by the named columns. Every name must
// be an existing column. Duplicate names are collapsed, keeping first
// position.
func (f *Frame) GroupBy(names ...string) (*Frame, error) {
	seen := make(map[string]bool, len(names))
	groups := make([]string, 0, len(names))
	for _, name := range names {
		if !f.table.HasColumn(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidGroupColumn, name)
		}
		if !seen[name] {
			seen[name] = true
			groups = append(groups, name)
		}
	}
	return &Frame{table: f.table, groups: groups}, nil
}

// Ungroup returns a Frame with no active grouping.
func (f *Frame) Ungroup() *Frame {
	return &Frame{table: f.table}
}

// Agg reduces the Frame to one row per distinct group key tuple, rows
// ascending by key tuple. Without grouping the whole table reduces to a
// single row. The result is always ungrouped.
func (f *Frame) Agg(aggs ...Aggregation) (*Frame, error) {
	t, err := aggregateTable(f.table, f.groups, aggs)
	if err != nil {
		return nil, err
	}
	return New(t), nil
}

// Sort returns a Frame sorted ascending by the active grouping columns
// and then the named columns. The sort is stable.
func (f *Frame) Sort(names ...string) (*Frame, error) {
	return f.SortBy(SortOptions{}, names...)
}

// SortBy is Sort with explicit options.
func (f *Frame) SortBy(opts SortOptions, names ...string) (*Frame, error) {
	t, err := sortTable(f.table, f.groups, names, opts)
	if err != nil {
		return nil, err
	}
	return f.derive(t), nil
}

// Head returns a Frame with the first n rows.
func (f *Frame) Head(n int) *Frame {
	return f.derive(f.table.Head(n))
}

// Tail returns a Frame with the last n rows.
func (f *Frame) Tail(n int) *Frame {
	return f.derive(f.table.Tail(n))
}

// Slice returns a Frame with the rows at the given positions, in the
// given order.
func (f *Frame) Slice(rows ...int) (*Frame, error) {
	for _, r := range rows {
		if r < 0 || r >= f.table.Height() {
			return nil, fmt.Errorf("row index %d out of range [0,%d)", r, f.table.Height())
		}
	}
	return f.derive(f.table.Take(rows)), nil
}

// InnerJoin joins with another Frame, emitting one row per matching key
// pair. With no explicit keys the join columns are auto-detected by name
// intersection. The result is always ungrouped.
func (f *Frame) InnerJoin(other *Frame, by ...string) (*Frame, error) {
	t, err := joinTables(f.table, other.table, by, InnerJoin)
	if err != nil {
		return nil, err
	}
	return New(t), nil
}

// LeftJoin joins with another Frame, keeping every left row and
// null-filling right columns when no key matches. The result is always
// ungrouped.
func (f *Frame) LeftJoin(other *Frame, by ...string) (*Frame, error) {
	t, err := joinTables(f.table, other.table, by, LeftJoin)
	if err != nil {
		return nil, err
	}
	return New(t), nil
}

// Pipe threads the Frame through fn, for composing larger transformations
// into the fluent chain.
func (f *Frame) Pipe(fn func(*Frame) (*Frame, error)) (*Frame, error) {
	return fn(f)
}
