package kadro

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

func TestCSVReadWrite(t *testing.T) {
	f, err := FromSeries(
		NewSeriesInt64("id", []int64{1, 2, 3, 4, 5}),
		NewSeriesFloat64("value", []float64{1.1, 2.2, 3.3, 4.4, 5.5}),
		NewSeriesString("name", []string{"alice", "bob", "carol", "dave", "eve"}),
		NewSeriesBool("active", []bool{true, false, true, false, true}),
	)
	if err != nil {
		t.Fatalf("FromSeries failed: %v", err)
	}

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "test.csv")
	if err := f.WriteCSV(csvPath); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}

	f2, err := ReadCSV(csvPath)
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}

	if f2.Height() != f.Height() {
		t.Errorf("height mismatch: got %d, want %d", f2.Height(), f.Height())
	}
	if f2.Width() != f.Width() {
		t.Errorf("width mismatch: got %d, want %d", f2.Width(), f.Width())
	}
	for _, col := range f.Columns() {
		if !f2.Table().HasColumn(col) {
			t.Errorf("missing column: %s", col)
		}
	}
	if f2.Table().Column("id").DType() != Int64 {
		t.Errorf("id dtype = %v, want Int64", f2.Table().Column("id").DType())
	}
	if f2.Table().Column("active").DType() != Bool {
		t.Errorf("active dtype = %v, want Bool", f2.Table().Column("active").DType())
	}
}

func TestCSVNullRoundTrip(t *testing.T) {
	f, _ := FromSeries(
		NewSeriesFloat64WithNulls("x", []float64{1.5, 0, 3.5}, []bool{true, false, true}),
	)

	var buf bytes.Buffer
	if err := f.Table().WriteCSVToWriter(&buf); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}

	f2, err := ReadCSVFromReader(&buf)
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	col := f2.Table().Column("x")
	if !col.HasNulls() || col.IsValid(1) {
		t.Error("empty cell should read back as null")
	}
	if col.Get(2) != 3.5 {
		t.Errorf("x[2] = %v, want 3.5", col.Get(2))
	}
}

func TestCSVOptions(t *testing.T) {
	csv := "id;name;value\n1;alice;10.5\n2;bob;20.5\n"

	f, err := ReadCSVFromReader(
		bytes.NewReader([]byte(csv)),
		CSVReadOptions{
			Delimiter:  ';',
			HasHeader:  true,
			InferTypes: true,
			NullValues: []string{""},
			TrimSpace:  true,
		},
	)
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}

	if f.Height() != 2 {
		t.Errorf("height mismatch: got %d, want 2", f.Height())
	}
	if f.Width() != 3 {
		t.Errorf("width mismatch: got %d, want 3", f.Width())
	}
	if f.Table().Column("value").DType() != Float64 {
		t.Errorf("value dtype = %v, want Float64", f.Table().Column("value").DType())
	}
}

func TestArrowRoundTrip(t *testing.T) {
	tbl, err := NewTable(
		NewSeriesInt64("id", []int64{1, 2, 3}),
		NewSeriesFloat64WithNulls("x", []float64{1.5, 0, 3.5}, []bool{true, false, true}),
		NewSeriesString("name", []string{"a", "b", "c"}),
		NewSeriesBool("flag", []bool{true, false, true}),
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	mem := memory.NewGoAllocator()
	record, err := tbl.ToArrow(mem)
	if err != nil {
		t.Fatalf("ToArrow failed: %v", err)
	}
	defer record.Release()

	if record.NumRows() != 3 || record.NumCols() != 4 {
		t.Fatalf("record shape = (%d, %d), want (3, 4)", record.NumRows(), record.NumCols())
	}

	tbl2, err := TableFromArrow(record)
	if err != nil {
		t.Fatalf("TableFromArrow failed: %v", err)
	}

	if tbl2.Height() != 3 || tbl2.Width() != 4 {
		t.Fatalf("shape = (%d, %d), want (3, 4)", tbl2.Height(), tbl2.Width())
	}
	x := tbl2.Column("x")
	if !x.HasNulls() || x.IsValid(1) {
		t.Error("null should survive the Arrow round trip")
	}
	if got := tbl2.Column("name").Strings()[2]; got != "c" {
		t.Errorf("name[2] = %q, want c", got)
	}
	if got := tbl2.Column("id").Int64()[0]; got != 1 {
		t.Errorf("id[0] = %v, want 1", got)
	}
}

func TestParquetRoundTrip(t *testing.T) {
	tbl, err := NewTable(
		NewSeriesInt64("id", []int64{1, 2, 3}),
		NewSeriesFloat64("value", []float64{1.1, 2.2, 3.3}),
		NewSeriesString("name", []string{"a", "b", "c"}),
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.parquet")
	if err := tbl.WriteParquet(path); err != nil {
		t.Fatalf("failed to write parquet: %v", err)
	}

	f2, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("failed to read parquet: %v", err)
	}

	if f2.Height() != 3 {
		t.Errorf("height mismatch: got %d, want 3", f2.Height())
	}
	for _, col := range tbl.Columns() {
		if !f2.Table().HasColumn(col) {
			t.Errorf("missing column: %s", col)
		}
	}
	ids := f2.Table().Column("id").Int64()
	if ids[0] != 1 || ids[2] != 3 {
		t.Errorf("ids = %v, want [1 2 3]", ids)
	}
}

func TestParquetColumnSubset(t *testing.T) {
	tbl, _ := NewTable(
		NewSeriesInt64("a", []int64{1, 2}),
		NewSeriesInt64("b", []int64{3, 4}),
	)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "subset.parquet")
	if err := tbl.WriteParquet(path); err != nil {
		t.Fatalf("failed to write parquet: %v", err)
	}

	f2, err := ReadParquet(path, ParquetReadOptions{Columns: []string{"b"}})
	if err != nil {
		t.Fatalf("failed to read parquet: %v", err)
	}
	if f2.Width() != 1 || !f2.Table().HasColumn("b") {
		t.Errorf("columns = %v, want [b]", f2.Columns())
	}
}

func TestBinarySnapshotRoundTrip(t *testing.T) {
	tbl, err := NewTable(
		NewSeriesInt64("id", []int64{1, 2, 3}),
		NewSeriesFloat64WithNulls("x", []float64{1.5, 0, 3.5}, []bool{true, false, true}),
		NewSeriesString("name", []string{"a", "b", "c"}),
		NewSeriesBool("flag", []bool{true, false, true}),
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	data, err := tbl.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	tbl2, err := TableFromBinary(data)
	if err != nil {
		t.Fatalf("TableFromBinary failed: %v", err)
	}

	if tbl2.Height() != 3 || tbl2.Width() != 4 {
		t.Fatalf("shape = (%d, %d), want (3, 4)", tbl2.Height(), tbl2.Width())
	}
	for i := 0; i < tbl.Width(); i++ {
		if tbl2.ColumnAt(i).DType() != tbl.ColumnAt(i).DType() {
			t.Errorf("column %d dtype changed", i)
		}
	}
	x := tbl2.Column("x")
	if !x.HasNulls() || x.IsValid(1) || x.Get(0) != 1.5 {
		t.Error("nulls and values should survive the snapshot round trip")
	}
}
