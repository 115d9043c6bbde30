package kadro

import (
	"bytes"
	"fmt"
	"sort"

	"rsc.io/ordered"
)

// partition is one group of rows sharing a key tuple: the order-preserving
// byte encoding of the tuple plus the rows holding it, ascending by
// original position.
type partition struct {
	key  []byte
	rows []int
}

// encodeRowKey returns the order-preserving encoding of the key tuple at
// the given row. Byte equality of two encodings means tuple equality, and
// bytes.Compare order equals ascending lexicographic tuple order. Each
// column contributes a validity flag followed by its value, so a missing
// key value forms its own group and sorts before every valid value. Bool
// values encode as 0/1. types gives the encoding dtype per column: an
// Int64 column encoding as Float64 has its values widened, so numeric
// keys compare across representations (joins use this).
func encodeRowKey(cols []*Series, types []DType, row int) []byte {
	args := make([]any, 0, 2*len(cols))
	for i, col := range cols {
		if !col.IsValid(row) {
			args = append(args, int64(0), int64(0))
			continue
		}
		switch types[i] {
		case Float64:
			if col.DType() == Int64 {
				args = append(args, int64(1), float64(col.Int64()[row]))
			} else {
				args = append(args, int64(1), col.Float64()[row])
			}
		case Int64:
			args = append(args, int64(1), col.Int64()[row])
		case Bool:
			v := int64(0)
			if col.Bool()[row] {
				v = 1
			}
			args = append(args, int64(1), v)
		case String:
			args = append(args, int64(1), col.Strings()[row])
		default:
			args = append(args, int64(0), int64(0))
		}
	}
	return ordered.Encode(args...)
}

// encodeKeys encodes the key tuple of every row of t over the named
// columns. A nil types slice encodes every column as its own dtype.
// Encoding is row-independent, so large tables encode in parallel.
func encodeKeys(t *Table, names []string, types []DType) ([][]byte, error) {
	cols := make([]*Series, len(names))
	for i, name := range names {
		s := t.Column(name)
		if s == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidGroupColumn, name)
		}
		cols[i] = s
	}
	if types == nil {
		types = make([]DType, len(cols))
		for i, col := range cols {
			types[i] = col.DType()
		}
	}
	if ShouldParallelizeOp(OpPartition, t.Height()) {
		return ParallelMap(t.Height(), func(row int) []byte {
			return encodeRowKey(cols, types, row)
		}), nil
	}
	keys := make([][]byte, t.Height())
	for row := range keys {
		keys[row] = encodeRowKey(cols, types, row)
	}
	return keys, nil
}

// partitionRows splits t into one partition per distinct key tuple over
// the named columns. Partitions are returned in ascending lexicographic
// key order; within a partition, row positions ascend.
func partitionRows(t *Table, names []string) ([]partition, error) {
	keys, err := encodeKeys(t, names, nil)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]int)
	parts := make([]partition, 0)
	for row, key := range keys {
		if i, ok := byKey[string(key)]; ok {
			parts[i].rows = append(parts[i].rows, row)
			continue
		}
		byKey[string(key)] = len(parts)
		parts = append(parts, partition{key: key, rows: []int{row}})
	}

	sort.Slice(parts, func(i, j int) bool {
		return bytes.Compare(parts[i].key, parts[j].key) < 0
	})
	return parts, nil
}

// subTable materializes one partition's rows as a Table.
func subTable(t *Table, rows []int) *Table {
	return t.Take(rows)
}
