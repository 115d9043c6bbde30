package kadro

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ============================================================================
// Arrow Export
// ============================================================================

// ToArrow exports the table to an Arrow Record. Validity masks map to
// Arrow null bitmaps in both directions.
// The caller is responsible for calling Release() on the returned Record.
func (t *Table) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	fields := make([]arrow.Field, t.Width())
	for i := 0; i < t.Width(); i++ {
		col := t.ColumnAt(i)
		arrowType, err := dtypeToArrowType(col.DType())
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
		fields[i] = arrow.Field{Name: col.Name(), Type: arrowType, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	arrays := make([]arrow.Array, t.Width())
	for i := 0; i < t.Width(); i++ {
		col := t.ColumnAt(i)
		arr, err := seriesToArrowArray(col, mem)
		if err != nil {
			for j := 0; j < i; j++ {
				arrays[j].Release()
			}
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
		arrays[i] = arr
	}

	record := array.NewRecord(schema, arrays, int64(t.Height()))

	// Release arrays (Record retains them)
	for _, arr := range arrays {
		arr.Release()
	}

	return record, nil
}

// ToArrow exports the Frame's table to an Arrow Record.
func (f *Frame) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	return f.table.ToArrow(mem)
}

// dtypeToArrowType converts a DType to an Arrow DataType
func dtypeToArrowType(dtype DType) (arrow.DataType, error) {
	switch dtype {
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case String:
		return arrow.BinaryTypes.String, nil
	case Null:
		return arrow.PrimitiveTypes.Float64, nil
	default:
		return nil, fmt.Errorf("unsupported dtype: %s", dtype)
	}
}

// validityOf returns the series validity mask in Arrow form, or nil when
// every value is valid.
func validityOf(s *Series) []bool {
	if !s.HasNulls() {
		return nil
	}
	valid := make([]bool, s.Len())
	for i := range valid {
		valid[i] = s.IsValid(i)
	}
	return valid
}

// seriesToArrowArray converts a Series to an Arrow Array
func seriesToArrowArray(s *Series, mem memory.Allocator) (arrow.Array, error) {
	switch s.DType() {
	case Float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.Float64(), validityOf(s))
		return builder.NewArray(), nil

	case Int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.Int64(), validityOf(s))
		return builder.NewArray(), nil

	case Bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(s.Bool(), validityOf(s))
		return builder.NewArray(), nil

	case String:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(s.Strings(), validityOf(s))
		return builder.NewArray(), nil

	case Null:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendNulls(s.Len())
		return builder.NewArray(), nil

	default:
		return nil, fmt.Errorf("unsupported dtype for Arrow export: %s", s.DType())
	}
}

// ============================================================================
// Arrow Import
// ============================================================================

// TableFromArrow creates a Table from an Arrow Record.
func TableFromArrow(record arrow.Record) (*Table, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}

	schema := record.Schema()
	numCols := int(record.NumCols())
	series := make([]*Series, numCols)

	for i := 0; i < numCols; i++ {
		field := schema.Field(i)
		col := record.Column(i)

		s, err := arrowArrayToSeries(field.Name, col)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		series[i] = s
	}

	return NewTable(series...)
}

// FromArrow creates an ungrouped Frame from an Arrow Record.
func FromArrow(record arrow.Record) (*Frame, error) {
	t, err := TableFromArrow(record)
	if err != nil {
		return nil, err
	}
	return New(t), nil
}

// arrowValidity extracts the null bitmap as a validity mask, or nil when
// the array has no nulls.
func arrowValidity(arr arrow.Array) []bool {
	if arr.NullN() == 0 {
		return nil
	}
	valid := make([]bool, arr.Len())
	for i := range valid {
		valid[i] = arr.IsValid(i)
	}
	return valid
}

// arrowArrayToSeries converts an Arrow Array to a Series
func arrowArrayToSeries(name string, arr arrow.Array) (*Series, error) {
	valid := arrowValidity(arr)
	switch a := arr.(type) {
	case *array.Float64:
		data := make([]float64, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = a.Value(i)
		}
		return NewSeriesFloat64WithNulls(name, data, valid), nil

	case *array.Int64:
		data := make([]int64, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = a.Value(i)
		}
		return NewSeriesInt64WithNulls(name, data, valid), nil

	case *array.Boolean:
		data := make([]bool, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = a.Value(i)
		}
		return NewSeriesBoolWithNulls(name, data, valid), nil

	case *array.String:
		data := make([]string, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = a.Value(i)
		}
		return NewSeriesStringWithNulls(name, data, valid), nil

	default:
		return nil, fmt.Errorf("unsupported Arrow array type: %T", arr)
	}
}
