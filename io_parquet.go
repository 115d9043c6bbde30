package kadro

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"
)

// ParquetReadOptions configures Parquet reading behavior
type ParquetReadOptions struct {
	Columns []string // Only read these columns (nil = all)
	MaxRows int      // Max rows to read (0 = unlimited)
}

// DefaultParquetReadOptions returns default Parquet reading options
func DefaultParquetReadOptions() ParquetReadOptions {
	return ParquetReadOptions{}
}

// ReadParquet reads a Parquet file into an ungrouped Frame.
func ReadParquet(path string, opts ...ParquetReadOptions) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return ReadParquetFromReader(f, stat.Size(), opts...)
}

// colBuilder accumulates one column's values and validity while reading.
type colBuilder struct {
	dtype    DType
	f64Data  []float64
	i64Data  []int64
	boolData []bool
	strData  []string
	valid    []bool
}

func (b *colBuilder) appendNull() {
	switch b.dtype {
	case Float64:
		b.f64Data = append(b.f64Data, 0)
	case Int64:
		b.i64Data = append(b.i64Data, 0)
	case Bool:
		b.boolData = append(b.boolData, false)
	default:
		b.strData = append(b.strData, "")
	}
	b.valid = append(b.valid, false)
}

func (b *colBuilder) append(val parquet.Value) {
	if val.IsNull() {
		b.appendNull()
		return
	}
	switch b.dtype {
	case Float64:
		b.f64Data = append(b.f64Data, val.Double())
	case Int64:
		b.i64Data = append(b.i64Data, val.Int64())
	case Bool:
		b.boolData = append(b.boolData, val.Boolean())
	default:
		b.strData = append(b.strData, string(val.ByteArray()))
	}
	b.valid = append(b.valid, true)
}

func (b *colBuilder) series(name string) *Series {
	switch b.dtype {
	case Float64:
		return NewSeriesFloat64WithNulls(name, b.f64Data, b.valid)
	case Int64:
		return NewSeriesInt64WithNulls(name, b.i64Data, b.valid)
	case Bool:
		return NewSeriesBoolWithNulls(name, b.boolData, b.valid)
	default:
		return NewSeriesStringWithNulls(name, b.strData, b.valid)
	}
}

func (b *colBuilder) len() int {
	return len(b.valid)
}

// merge appends another builder's contents.
func (b *colBuilder) merge(other *colBuilder) {
	b.f64Data = append(b.f64Data, other.f64Data...)
	b.i64Data = append(b.i64Data, other.i64Data...)
	b.boolData = append(b.boolData, other.boolData...)
	b.strData = append(b.strData, other.strData...)
	b.valid = append(b.valid, other.valid...)
}

func (b *colBuilder) truncate(n int) {
	if len(b.valid) <= n {
		return
	}
	if b.f64Data != nil {
		b.f64Data = b.f64Data[:n]
	}
	if b.i64Data != nil {
		b.i64Data = b.i64Data[:n]
	}
	if b.boolData != nil {
		b.boolData = b.boolData[:n]
	}
	if b.strData != nil {
		b.strData = b.strData[:n]
	}
	b.valid = b.valid[:n]
}

// ReadParquetFromReader reads Parquet data from an io.ReaderAt into a Frame.
func ReadParquetFromReader(r io.ReaderAt, size int64, opts ...ParquetReadOptions) (*Frame, error) {
	opt := DefaultParquetReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	schema := pf.Schema()

	var colNames []string
	if len(opt.Columns) > 0 {
		colNames = opt.Columns
	} else {
		fields := schema.Fields()
		colNames = make([]string, len(fields))
		for i, f := range fields {
			colNames[i] = f.Name()
		}
	}

	colIndexMap := make(map[string]int)
	for i, col := range schema.Columns() {
		if len(col) > 0 {
			colIndexMap[col[0]] = i
		}
	}

	colIndices := make([]int, len(colNames))
	dtypes := make([]DType, len(colNames))
	for i, name := range colNames {
		idx, ok := colIndexMap[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q not found in parquet file", ErrUnknownColumn, name)
		}
		colIndices[i] = idx
		dtypes[i] = parquetLeafToDType(schema, schema.Columns()[idx])
	}

	rowGroups := pf.RowGroups()

	// Each row group reads independently into its own builders, then the
	// results concatenate in row-group order.
	rgBuilders := make([][]colBuilder, len(rowGroups))
	readGroup := func(idx int) error {
		builders := make([]colBuilder, len(colNames))
		for i := range builders {
			builders[i].dtype = dtypes[i]
		}

		rows := rowGroups[idx].Rows()
		defer rows.Close()

		rowBuf := make([]parquet.Row, 1000)
		for {
			n, err := rows.ReadRows(rowBuf)
			if err != nil && err != io.EOF {
				return fmt.Errorf("failed to read row group %d: %w", idx, err)
			}
			if n == 0 {
				break
			}
			for _, row := range rowBuf[:n] {
				for i, colIdx := range colIndices {
					if colIdx < len(row) {
						builders[i].append(row[colIdx])
					} else {
						builders[i].appendNull()
					}
				}
			}
		}

		rgBuilders[idx] = builders
		return nil
	}

	if GetParallelConfig().shouldParallelize(int(pf.NumRows())) && len(rowGroups) > 1 {
		var g errgroup.Group
		g.SetLimit(GetParallelConfig().numWorkers())
		for idx := range rowGroups {
			g.Go(func() error { return readGroup(idx) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for idx := range rowGroups {
			if err := readGroup(idx); err != nil {
				return nil, err
			}
			if opt.MaxRows > 0 && idx+1 < len(rowGroups) {
				total := 0
				for _, b := range rgBuilders[:idx+1] {
					total += b[0].len()
				}
				if total >= opt.MaxRows {
					break
				}
			}
		}
	}

	merged := make([]colBuilder, len(colNames))
	for i := range merged {
		merged[i].dtype = dtypes[i]
		for _, rgB := range rgBuilders {
			if rgB != nil {
				merged[i].merge(&rgB[i])
			}
		}
		if opt.MaxRows > 0 {
			merged[i].truncate(opt.MaxRows)
		}
	}

	columns := make([]*Series, len(colNames))
	for i, name := range colNames {
		columns[i] = merged[i].series(name)
	}
	return FromSeries(columns...)
}

func parquetLeafToDType(schema *parquet.Schema, leaf []string) DType {
	if len(leaf) == 0 {
		return String
	}
	for _, col := range schema.Fields() {
		if col.Name() == leaf[0] {
			t := col.Type()
			if t == nil {
				return String
			}
			switch t.Kind() {
			case parquet.Boolean:
				return Bool
			case parquet.Int32, parquet.Int64:
				return Int64
			case parquet.Float, parquet.Double:
				return Float64
			default:
				return String
			}
		}
	}
	return String
}

// ParquetWriteOptions configures Parquet writing behavior
type ParquetWriteOptions struct {
	Compression string // "snappy", "gzip", "zstd", "none" (default "snappy")
}

// DefaultParquetWriteOptions returns default Parquet writing options
func DefaultParquetWriteOptions() ParquetWriteOptions {
	return ParquetWriteOptions{
		Compression: "snappy",
	}
}

// WriteParquet writes the table to a Parquet file.
func (t *Table) WriteParquet(path string, opts ...ParquetWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return t.WriteParquetToWriter(f, opts...)
}

// WriteParquet writes the Frame's table to a Parquet file.
func (f *Frame) WriteParquet(path string, opts ...ParquetWriteOptions) error {
	return f.table.WriteParquet(path, opts...)
}

// WriteParquetToWriter writes the table to an io.Writer. Columns with
// missing values write as optional leaves; null cells carry through the
// round trip.
func (t *Table) WriteParquetToWriter(w io.Writer, opts ...ParquetWriteOptions) error {
	opt := DefaultParquetWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	if t.Width() == 0 || t.Height() == 0 {
		return nil
	}

	group := make(parquet.Group)
	for i := 0; i < t.Width(); i++ {
		col := t.ColumnAt(i)
		node := dtypeToParquetNode(col.DType())
		if col.HasNulls() {
			node = parquet.Optional(node)
		}
		group[col.Name()] = node
	}

	schema := parquet.NewSchema("table", group)

	writerOpts := []parquet.WriterOption{schema}
	switch opt.Compression {
	case "snappy":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Snappy))
	case "gzip":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Gzip))
	case "zstd":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Zstd))
	}

	pw := parquet.NewWriter(w, writerOpts...)
	defer pw.Close()

	// Schema fields order alphabetically in a Group; row values must follow
	// that order, not the table's column order.
	fieldCols := make([]*Series, len(schema.Fields()))
	optional := make([]bool, len(schema.Fields()))
	for i, field := range schema.Fields() {
		fieldCols[i] = t.Column(field.Name())
		optional[i] = field.Optional()
	}

	height := t.Height()
	batchSize := 1000
	rows := make([]parquet.Row, 0, batchSize)
	for i := 0; i < height; i++ {
		row := make(parquet.Row, len(fieldCols))
		for j, col := range fieldCols {
			v := toParquetValue(col.Get(i), col.DType())
			if optional[j] {
				if col.IsValid(i) {
					v = v.Level(0, 1, j)
				} else {
					v = parquet.NullValue().Level(0, 0, j)
				}
			} else {
				v = v.Level(0, 0, j)
			}
			row[j] = v
		}
		rows = append(rows, row)

		if len(rows) >= batchSize {
			if _, err := pw.WriteRows(rows); err != nil {
				return fmt.Errorf("failed to write rows at %d: %w", i-len(rows)+1, err)
			}
			rows = rows[:0]
		}
	}

	if len(rows) > 0 {
		if _, err := pw.WriteRows(rows); err != nil {
			return fmt.Errorf("failed to write final rows: %w", err)
		}
	}

	return pw.Close()
}

func dtypeToParquetNode(dtype DType) parquet.Node {
	switch dtype {
	case Float64:
		return parquet.Leaf(parquet.DoubleType)
	case Int64:
		return parquet.Leaf(parquet.Int64Type)
	case Bool:
		return parquet.Leaf(parquet.BooleanType)
	default:
		return parquet.Leaf(parquet.ByteArrayType)
	}
}

func toParquetValue(v any, dtype DType) parquet.Value {
	if v == nil {
		return parquet.NullValue()
	}

	switch dtype {
	case Float64:
		if f, ok := v.(float64); ok {
			return parquet.DoubleValue(f)
		}
	case Int64:
		if i, ok := v.(int64); ok {
			return parquet.Int64Value(i)
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return parquet.BooleanValue(b)
		}
	case String:
		if s, ok := v.(string); ok {
			return parquet.ByteArrayValue([]byte(s))
		}
	}

	return parquet.ByteArrayValue([]byte(fmt.Sprintf("%v", v)))
}
