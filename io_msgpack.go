package kadro

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// columnSnapshot is the wire form of one column in a binary snapshot.
type columnSnapshot struct {
	Name  string    `msgpack:"name"`
	DType uint8     `msgpack:"dtype"`
	F64   []float64 `msgpack:"f64,omitempty"`
	I64   []int64   `msgpack:"i64,omitempty"`
	Bool  []bool    `msgpack:"bool,omitempty"`
	Str   []string  `msgpack:"str,omitempty"`
	Valid []bool    `msgpack:"valid,omitempty"`
	Len   int       `msgpack:"len"`
}

// tableSnapshot is the wire form of a whole table.
type tableSnapshot struct {
	Columns []columnSnapshot `msgpack:"columns"`
}

// MarshalBinary serializes the table to a compact binary snapshot that
// round-trips dtypes and null masks exactly.
func (t *Table) MarshalBinary() ([]byte, error) {
	snap := tableSnapshot{Columns: make([]columnSnapshot, t.Width())}
	for i := 0; i < t.Width(); i++ {
		s := t.ColumnAt(i)
		cs := columnSnapshot{
			Name:  s.Name(),
			DType: uint8(s.DType()),
			Len:   s.Len(),
		}
		switch s.DType() {
		case Float64:
			cs.F64 = s.Float64()
		case Int64:
			cs.I64 = s.Int64()
		case Bool:
			cs.Bool = s.Bool()
		case String:
			cs.Str = s.Strings()
		}
		if s.HasNulls() {
			valid := make([]bool, s.Len())
			for j := range valid {
				valid[j] = s.IsValid(j)
			}
			cs.Valid = valid
		}
		snap.Columns[i] = cs
	}
	return msgpack.Marshal(snap)
}

// TableFromBinary restores a Table from a snapshot produced by
// MarshalBinary.
func TableFromBinary(data []byte) (*Table, error) {
	var snap tableSnapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	cols := make([]*Series, len(snap.Columns))
	for i, cs := range snap.Columns {
		switch DType(cs.DType) {
		case Float64:
			cols[i] = NewSeriesFloat64WithNulls(cs.Name, cs.F64, cs.Valid)
		case Int64:
			cols[i] = NewSeriesInt64WithNulls(cs.Name, cs.I64, cs.Valid)
		case Bool:
			cols[i] = NewSeriesBoolWithNulls(cs.Name, cs.Bool, cs.Valid)
		case String:
			cols[i] = NewSeriesStringWithNulls(cs.Name, cs.Str, cs.Valid)
		case Null:
			cols[i] = &Series{name: cs.Name, dtype: Null, valid: make([]bool, cs.Len)}
		default:
			return nil, fmt.Errorf("column %q: unknown dtype %d", cs.Name, cs.DType)
		}
	}
	return NewTable(cols...)
}

// MarshalBinary serializes the Frame's table. Grouping is a view concern
// and is not part of the snapshot.
func (f *Frame) MarshalBinary() ([]byte, error) {
	return f.table.MarshalBinary()
}

// FromBinary restores an ungrouped Frame from a binary snapshot.
func FromBinary(data []byte) (*Frame, error) {
	t, err := TableFromBinary(data)
	if err != nil {
		return nil, err
	}
	return New(t), nil
}
