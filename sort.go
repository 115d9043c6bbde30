package kadro

import (
	"bytes"
	"fmt"
	"sort"
)

// SortOptions configures sort direction.
type SortOptions struct {
	// Descending reverses the order of the requested sort columns.
	// Active grouping columns always sort ascending first.
	Descending bool
}

// sortTable stable-sorts t by the grouping columns (ascending) and then
// the requested columns. The comparison key is the order-preserving tuple
// encoding, so ordering matches partition and aggregate ordering exactly:
// nulls first, then ascending values.
func sortTable(t *Table, groups []string, columns []string, opts SortOptions) (*Table, error) {
	for _, name := range columns {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
	}

	// Grouping columns lead; a requested column already in the grouping
	// contributes once.
	groupSet := make(map[string]bool, len(groups))
	for _, g := range groups {
		groupSet[g] = true
	}
	sortCols := make([]string, 0, len(columns))
	for _, name := range columns {
		if !groupSet[name] {
			sortCols = append(sortCols, name)
		}
	}

	var groupKeys, argKeys [][]byte
	var err error
	if len(groups) > 0 {
		groupKeys, err = encodeKeys(t, groups, nil)
		if err != nil {
			return nil, err
		}
	}
	if len(sortCols) > 0 {
		argKeys, err = encodeKeys(t, sortCols, nil)
		if err != nil {
			return nil, err
		}
	}

	indices := make([]int, t.Height())
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		ia, ib := indices[a], indices[b]
		if groupKeys != nil {
			if c := bytes.Compare(groupKeys[ia], groupKeys[ib]); c != 0 {
				return c < 0
			}
		}
		if argKeys != nil {
			c := bytes.Compare(argKeys[ia], argKeys[ib])
			if opts.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	return t.Take(indices), nil
}
