package kadro

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// JoinType represents the type of join operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

// joinSuffix disambiguates right-table column names that collide with a
// left-table name outside the join keys.
const joinSuffix = "_right"

// resolveJoinKeys resolves the join key columns. An explicit list must
// name columns present in both tables; an empty list auto-detects by name
// intersection, in left-table column order.
func resolveJoinKeys(left, right *Table, by []string) ([]string, error) {
	if len(by) == 0 {
		for _, name := range left.Columns() {
			if right.HasColumn(name) {
				by = append(by, name)
			}
		}
		if len(by) == 0 {
			return nil, fmt.Errorf("%w: tables share no column names", ErrEmptyJoinKey)
		}
		return by, nil
	}
	for _, name := range by {
		if !left.HasColumn(name) || !right.HasColumn(name) {
			return nil, fmt.Errorf("%w: %q must exist in both tables", ErrUnknownJoinColumn, name)
		}
	}
	return by, nil
}

// joinKeyTypes resolves the encoding dtype for each key column. A key
// whose sides disagree only between Int64 and Float64 is compared as
// Float64, so 1 matches 1.0; any other dtype mix cannot be compared and
// is rejected.
func joinKeyTypes(left, right *Table, keys []string) ([]DType, error) {
	types := make([]DType, len(keys))
	for i, name := range keys {
		lt := left.Column(name).DType()
		rt := right.Column(name).DType()
		switch {
		case lt == rt:
			types[i] = lt
		case lt.IsNumeric() && rt.IsNumeric():
			types[i] = Float64
		default:
			return nil, fmt.Errorf("%w: %q is %s on the left and %s on the right",
				ErrJoinKeyTypeMismatch, name, lt, rt)
		}
	}
	return types, nil
}

// joinTables matches rows of left and right on the resolved key columns.
// Inner joins emit one row per matching (l, r) pair. Left joins emit every
// left row at least once, null-filling right columns when no key matches;
// multiple matches replicate the left row once per match. Output columns
// are all left columns followed by right non-key columns, suffixed on name
// collision. Left row order is preserved in the output.
func joinTables(left, right *Table, by []string, how JoinType) (*Table, error) {
	keys, err := resolveJoinKeys(left, right, by)
	if err != nil {
		return nil, err
	}
	keyTypes, err := joinKeyTypes(left, right, keys)
	if err != nil {
		return nil, err
	}

	leftKeys, err := encodeKeys(left, keys, keyTypes)
	if err != nil {
		return nil, err
	}
	rightKeys, err := encodeKeys(right, keys, keyTypes)
	if err != nil {
		return nil, err
	}

	// Hash index on the right table; byte equality verifies candidates so
	// hash collisions cannot produce false matches.
	index := make(map[uint64][]int, right.Height())
	for row, key := range rightKeys {
		h := xxhash.Sum64(key)
		index[h] = append(index[h], row)
	}

	probe := func(leftRow int) []int {
		var matches []int
		key := leftKeys[leftRow]
		for _, rightRow := range index[xxhash.Sum64(key)] {
			if bytes.Equal(key, rightKeys[rightRow]) {
				matches = append(matches, rightRow)
			}
		}
		return matches
	}

	// Probing each left row is independent; ParallelMap keeps results in
	// left-row order regardless of completion order.
	var matchLists [][]int
	if ShouldParallelizeOp(OpJoinProbe, left.Height()) {
		matchLists = ParallelMap(left.Height(), probe)
	} else {
		matchLists = make([][]int, left.Height())
		for leftRow := range matchLists {
			matchLists[leftRow] = probe(leftRow)
		}
	}

	var leftIndices, rightIndices []int
	for leftRow, matches := range matchLists {
		if len(matches) == 0 {
			if how == LeftJoin {
				leftIndices = append(leftIndices, leftRow)
				rightIndices = append(rightIndices, -1)
			}
			continue
		}
		for _, rightRow := range matches {
			leftIndices = append(leftIndices, leftRow)
			rightIndices = append(rightIndices, rightRow)
		}
	}

	return buildJoinResult(left, right, keys, leftIndices, rightIndices)
}

// buildJoinResult materializes the output table from matched index pairs.
// A right index of -1 gathers a null (left join fill).
func buildJoinResult(left, right *Table, keys []string, leftIndices, rightIndices []int) (*Table, error) {
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	leftNames := make(map[string]bool, left.Width())
	for _, name := range left.Columns() {
		leftNames[name] = true
	}

	cols := make([]*Series, 0, left.Width()+right.Width()-len(keys))
	for i := 0; i < left.Width(); i++ {
		cols = append(cols, left.ColumnAt(i).Take(leftIndices))
	}
	for i := 0; i < right.Width(); i++ {
		src := right.ColumnAt(i)
		name := src.Name()
		if keySet[name] {
			continue // shared key columns appear once, from the left
		}
		if leftNames[name] {
			suffixed := name + joinSuffix
			if leftNames[suffixed] || right.HasColumn(suffixed) {
				return nil, fmt.Errorf("%w: %q after join suffixing", ErrDuplicateColumn, suffixed)
			}
			name = suffixed
		}
		cols = append(cols, src.Take(rightIndices).WithName(name))
	}
	return NewTable(cols...)
}
