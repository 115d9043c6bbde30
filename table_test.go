package kadro

import (
	"errors"
	"testing"
)

func TestTableCreate(t *testing.T) {
	tbl, err := NewTable(
		NewSeriesFloat64("a", []float64{1, 2, 3}),
		NewSeriesFloat64("b", []float64{4, 5, 6}),
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	if tbl.Height() != 3 {
		t.Errorf("Height() = %d, want 3", tbl.Height())
	}
	if tbl.Width() != 2 {
		t.Errorf("Width() = %d, want 2", tbl.Width())
	}
}

func TestTableDuplicateNames(t *testing.T) {
	_, err := NewTable(
		NewSeriesFloat64("a", []float64{1}),
		NewSeriesInt64("a", []int64{2}),
	)
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("err = %v, want ErrDuplicateColumn", err)
	}
}

func TestTableLengthMismatch(t *testing.T) {
	_, err := NewTable(
		NewSeriesFloat64("a", []float64{1, 2}),
		NewSeriesFloat64("b", []float64{1}),
	)
	if err == nil {
		t.Error("mismatched column lengths should fail")
	}
}

func TestTableSelect(t *testing.T) {
	tbl, _ := NewTable(
		NewSeriesFloat64("a", []float64{1}),
		NewSeriesFloat64("b", []float64{2}),
		NewSeriesFloat64("c", []float64{3}),
	)

	out, err := tbl.Select("c", "a")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	cols := out.Columns()
	if len(cols) != 2 || cols[0] != "c" || cols[1] != "a" {
		t.Errorf("Select columns = %v, want [c a]", cols)
	}

	_, err = tbl.Select("nope")
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
}

func TestTableDropIgnoresUnknown(t *testing.T) {
	tbl, _ := NewTable(
		NewSeriesFloat64("a", []float64{1}),
		NewSeriesFloat64("b", []float64{2}),
	)

	out, err := tbl.Drop("b", "nope")
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if out.Width() != 1 || out.Columns()[0] != "a" {
		t.Errorf("Drop columns = %v, want [a]", out.Columns())
	}
}

func TestTableRename(t *testing.T) {
	tbl, _ := NewTable(
		NewSeriesFloat64("a", []float64{1}),
		NewSeriesFloat64("b", []float64{2}),
	)

	out, err := tbl.Rename(map[string]string{"a": "x"})
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if !out.HasColumn("x") || out.HasColumn("a") {
		t.Errorf("Rename columns = %v", out.Columns())
	}

	// renaming onto an existing name collides
	if _, err := tbl.Rename(map[string]string{"a": "b"}); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("err = %v, want ErrDuplicateColumn", err)
	}

	if _, err := tbl.Rename(map[string]string{"nope": "x"}); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
}

func TestTableWithColumnReplaces(t *testing.T) {
	tbl, _ := NewTable(NewSeriesInt64("a", []int64{1, 2}))

	out, err := tbl.WithColumn(NewSeriesFloat64("a", []float64{9, 9}))
	if err != nil {
		t.Fatalf("WithColumn failed: %v", err)
	}
	if out.Width() != 1 {
		t.Errorf("Width() = %d, want 1 (in-place replace)", out.Width())
	}
	if out.Column("a").DType() != Float64 {
		t.Error("replaced column should carry the new dtype")
	}

	// original untouched
	if tbl.Column("a").DType() != Int64 {
		t.Error("source table must not be mutated")
	}
}

func TestTableFilterMaskLength(t *testing.T) {
	tbl, _ := NewTable(NewSeriesInt64("a", []int64{1, 2, 3}))

	_, err := tbl.Filter([]bool{true})
	if !errors.Is(err, ErrPartitionLengthMismatch) {
		t.Errorf("err = %v, want ErrPartitionLengthMismatch", err)
	}
}

func TestTableSliceClamped(t *testing.T) {
	tbl, _ := NewTable(NewSeriesInt64("a", []int64{1, 2, 3}))

	out := tbl.Slice(-5, 100)
	if out.Height() != 3 {
		t.Errorf("Height() = %d, want 3", out.Height())
	}
	if got := tbl.Slice(-5, -1).Height(); got != 0 {
		t.Errorf("Slice(-5, -1) Height() = %d, want 0", got)
	}
	if tbl.Head(0).Height() != 0 {
		t.Error("Head(0) should be empty")
	}
	if got := tbl.Head(-1).Height(); got != 0 {
		t.Errorf("Head(-1) Height() = %d, want 0", got)
	}
	if tbl.Tail(2).Column("a").Int64()[0] != 2 {
		t.Error("Tail(2) should start at row 1")
	}
}
