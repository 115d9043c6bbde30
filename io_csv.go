package kadro

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// CSVReadOptions configures CSV reading behavior
type CSVReadOptions struct {
	Delimiter   rune             // Field delimiter (default ',')
	HasHeader   bool             // First row is header (default true)
	ColumnNames []string         // Override column names
	ColumnTypes map[string]DType // Force column types
	InferTypes  bool             // Auto-detect types (default true)
	NullValues  []string         // Strings to treat as null
	SkipRows    int              // Skip first N rows
	MaxRows     int              // Max rows to read (0 = unlimited)
	TrimSpace   bool             // Trim whitespace from values
	Comment     rune             // Comment character (skip lines starting with this)
}

// DefaultCSVReadOptions returns default CSV reading options
func DefaultCSVReadOptions() CSVReadOptions {
	return CSVReadOptions{
		Delimiter:  ',',
		HasHeader:  true,
		InferTypes: true,
		NullValues: []string{"", "null", "NULL", "NA", "N/A", "nan", "NaN"},
		TrimSpace:  true,
	}
}

// ReadCSV reads a CSV file into an ungrouped Frame.
func ReadCSV(path string, opts ...CSVReadOptions) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadCSVFromReader(f, opts...)
}

// ReadCSVFromReader reads CSV data from an io.Reader into a Frame.
func ReadCSVFromReader(r io.Reader, opts ...CSVReadOptions) (*Frame, error) {
	opt := DefaultCSVReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(r)
	reader.Comma = opt.Delimiter
	if opt.Comment != 0 {
		reader.Comment = opt.Comment
	}
	reader.TrimLeadingSpace = opt.TrimSpace

	for i := 0; i < opt.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("failed to skip row %d: %w", i, err)
		}
	}

	var headers []string
	if opt.HasHeader {
		var err error
		headers, err = reader.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	} else if len(opt.ColumnNames) > 0 {
		headers = opt.ColumnNames
	}

	var records [][]string
	rowCount := 0
	for {
		if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
			break
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowCount, err)
		}

		if headers == nil {
			headers = make([]string, len(record))
			for i := range record {
				headers[i] = fmt.Sprintf("column_%d", i)
			}
		}

		records = append(records, record)
		rowCount++
	}

	if len(records) == 0 {
		t, err := NewTable()
		if err != nil {
			return nil, err
		}
		return New(t), nil
	}

	colTypes := make([]DType, len(headers))
	for i := range colTypes {
		colTypes[i] = String
	}
	cfg := GetParallelConfig()

	if opt.InferTypes {
		if cfg.shouldParallelize(len(records)) && len(headers) > 1 {
			types := ParallelMap(len(headers), func(i int) DType {
				return inferColumnType(records, i, opt.NullValues)
			})
			copy(colTypes, types)
		} else {
			for i := range headers {
				colTypes[i] = inferColumnType(records, i, opt.NullValues)
			}
		}
	}

	for name, dtype := range opt.ColumnTypes {
		for i, h := range headers {
			if h == name {
				colTypes[i] = dtype
				break
			}
		}
	}

	columns := make([]*Series, len(headers))
	if cfg.shouldParallelize(len(records)) && len(headers) > 1 {
		var g errgroup.Group
		g.SetLimit(cfg.numWorkers())
		for i, name := range headers {
			g.Go(func() error {
				col, err := buildColumn(name, colTypes[i], records, i, opt.NullValues)
				if err != nil {
					return fmt.Errorf("failed to build column %q: %w", name, err)
				}
				columns[i] = col
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, name := range headers {
			col, err := buildColumn(name, colTypes[i], records, i, opt.NullValues)
			if err != nil {
				return nil, fmt.Errorf("failed to build column %q: %w", name, err)
			}
			columns[i] = col
		}
	}

	return FromSeries(columns...)
}

func inferColumnType(records [][]string, colIdx int, nullValues []string) DType {
	hasInt := false
	hasFloat := false
	hasBool := false
	hasString := false

	for _, record := range records {
		if colIdx >= len(record) {
			continue
		}
		val := strings.TrimSpace(record[colIdx])
		if isNullToken(val, nullValues) {
			continue
		}

		lower := strings.ToLower(val)
		if lower == "true" || lower == "false" {
			hasBool = true
			continue
		}
		if _, err := strconv.ParseInt(val, 10, 64); err == nil {
			hasInt = true
			continue
		}
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			hasFloat = true
			continue
		}
		hasString = true
	}

	// Priority: string > float > int > bool
	if hasString {
		return String
	}
	if hasFloat {
		return Float64
	}
	if hasInt {
		return Int64
	}
	if hasBool {
		return Bool
	}
	return String
}

// buildColumn parses one column from raw records. Null tokens and missing
// trailing fields become nulls via the validity mask.
func buildColumn(name string, dtype DType, records [][]string, colIdx int, nullValues []string) (*Series, error) {
	n := len(records)
	valid := make([]bool, n)
	cell := func(i int) (string, bool) {
		if colIdx >= len(records[i]) {
			return "", false
		}
		val := strings.TrimSpace(records[i][colIdx])
		if isNullToken(val, nullValues) {
			return "", false
		}
		return val, true
	}

	switch dtype {
	case Float64:
		data := make([]float64, n)
		for i := 0; i < n; i++ {
			val, ok := cell(i)
			if !ok {
				continue
			}
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: cannot parse %q as float64", i, val)
			}
			data[i] = f
			valid[i] = true
		}
		return NewSeriesFloat64WithNulls(name, data, valid), nil

	case Int64:
		data := make([]int64, n)
		for i := 0; i < n; i++ {
			val, ok := cell(i)
			if !ok {
				continue
			}
			v, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: cannot parse %q as int64", i, val)
			}
			data[i] = v
			valid[i] = true
		}
		return NewSeriesInt64WithNulls(name, data, valid), nil

	case Bool:
		data := make([]bool, n)
		for i := 0; i < n; i++ {
			val, ok := cell(i)
			if !ok {
				continue
			}
			lower := strings.ToLower(val)
			data[i] = lower == "true" || lower == "1" || lower == "yes"
			valid[i] = true
		}
		return NewSeriesBoolWithNulls(name, data, valid), nil

	case String:
		data := make([]string, n)
		for i := 0; i < n; i++ {
			val, ok := cell(i)
			if !ok {
				continue
			}
			data[i] = val
			valid[i] = true
		}
		return NewSeriesStringWithNulls(name, data, valid), nil

	default:
		return nil, fmt.Errorf("unsupported dtype: %s", dtype)
	}
}

func isNullToken(val string, nullValues []string) bool {
	for _, nv := range nullValues {
		if val == nv {
			return true
		}
	}
	return false
}

// CSVWriteOptions configures CSV writing behavior
type CSVWriteOptions struct {
	Delimiter   rune   // Field delimiter (default ',')
	WriteHeader bool   // Write header row (default true)
	NullString  string // String to write for null values (default "")
}

// DefaultCSVWriteOptions returns default CSV writing options
func DefaultCSVWriteOptions() CSVWriteOptions {
	return CSVWriteOptions{
		Delimiter:   ',',
		WriteHeader: true,
		NullString:  "",
	}
}

// WriteCSV writes the table to a CSV file.
func (t *Table) WriteCSV(path string, opts ...CSVWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	return t.WriteCSVToWriter(w, opts...)
}

// WriteCSVToWriter writes the table to an io.Writer.
func (t *Table) WriteCSVToWriter(w io.Writer, opts ...CSVWriteOptions) error {
	opt := DefaultCSVWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	writer := csv.NewWriter(w)
	writer.Comma = opt.Delimiter

	if opt.WriteHeader {
		if err := writer.Write(t.Columns()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	height := t.Height()
	width := t.Width()
	formatRow := func(i int) []string {
		row := make([]string, width)
		for j := 0; j < width; j++ {
			val := t.ColumnAt(j).Get(i)
			if val == nil {
				row[j] = opt.NullString
			} else {
				row[j] = formatValue(val)
			}
		}
		return row
	}

	// Format in parallel when large; the write itself stays sequential.
	if GetParallelConfig().shouldParallelize(height) {
		for i, row := range ParallelMap(height, formatRow) {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	} else {
		for i := 0; i < height; i++ {
			if err := writer.Write(formatRow(i)); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSV writes the Frame's table to a CSV file.
func (f *Frame) WriteCSV(path string, opts ...CSVWriteOptions) error {
	return f.table.WriteCSV(path, opts...)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
