package kadro

import (
	"errors"
	"testing"
)

func TestInnerJoinAutoKeys(t *testing.T) {
	left, _ := FromSeries(
		NewSeriesInt64("id", []int64{1, 2, 3}),
		NewSeriesString("name", []string{"alice", "bob", "carol"}),
	)
	right, _ := FromSeries(
		NewSeriesInt64("id", []int64{2, 3, 4}),
		NewSeriesFloat64("score", []float64{2.5, 3.5, 4.5}),
	)

	out, err := left.InnerJoin(right)
	if err != nil {
		t.Fatalf("InnerJoin failed: %v", err)
	}

	if out.Height() != 2 {
		t.Fatalf("Height() = %d, want 2", out.Height())
	}
	cols := out.Columns()
	if len(cols) != 3 || cols[0] != "id" || cols[1] != "name" || cols[2] != "score" {
		t.Errorf("columns = %v, want [id name score]", cols)
	}
	// left row order preserved
	ids := out.Table().Column("id").Int64()
	if ids[0] != 2 || ids[1] != 3 {
		t.Errorf("ids = %v, want [2 3]", ids)
	}
}

func TestInnerJoinCardinality(t *testing.T) {
	left, _ := FromSeries(NewSeriesInt64("k", []int64{1, 1}))
	right, _ := FromSeries(
		NewSeriesInt64("k", []int64{1, 1, 1}),
		NewSeriesInt64("v", []int64{10, 20, 30}),
	)

	out, err := left.InnerJoin(right, "k")
	if err != nil {
		t.Fatalf("InnerJoin failed: %v", err)
	}
	// 2 left rows x 3 matches each
	if out.Height() != 6 {
		t.Errorf("Height() = %d, want 6", out.Height())
	}
}

func TestLeftJoinFillsNulls(t *testing.T) {
	left, _ := FromSeries(
		NewSeriesInt64("id", []int64{1, 2, 3}),
		NewSeriesFloat64("x", []float64{0.1, 0.2, 0.3}),
	)
	right, _ := FromSeries(
		NewSeriesInt64("id", []int64{1, 3}),
		NewSeriesString("w", []string{"one", "three"}),
	)

	out, err := left.LeftJoin(right, "id")
	if err != nil {
		t.Fatalf("LeftJoin failed: %v", err)
	}

	if out.Height() != 3 {
		t.Fatalf("Height() = %d, want 3 (every left row kept)", out.Height())
	}
	w := out.Table().Column("w")
	if !w.IsValid(0) || w.IsValid(1) || !w.IsValid(2) {
		t.Errorf("w validity = [%v %v %v], want [true false true]",
			w.IsValid(0), w.IsValid(1), w.IsValid(2))
	}
	if w.Get(2) != "three" {
		t.Errorf("w[2] = %v, want three", w.Get(2))
	}
}

func TestJoinSuffixesCollidingNames(t *testing.T) {
	left, _ := FromSeries(
		NewSeriesInt64("id", []int64{1}),
		NewSeriesFloat64("v", []float64{1}),
	)
	right, _ := FromSeries(
		NewSeriesInt64("id", []int64{1}),
		NewSeriesFloat64("v", []float64{2}),
	)

	out, err := left.InnerJoin(right, "id")
	if err != nil {
		t.Fatalf("InnerJoin failed: %v", err)
	}
	if !out.Table().HasColumn("v_right") {
		t.Errorf("columns = %v, want v_right present", out.Columns())
	}
	if got := out.Table().Column("v_right").Float64()[0]; got != 2 {
		t.Errorf("v_right = %v, want 2", got)
	}
}

func TestJoinSuffixCollisionFails(t *testing.T) {
	left, _ := FromSeries(
		NewSeriesInt64("id", []int64{1}),
		NewSeriesFloat64("v", []float64{1}),
		NewSeriesFloat64("v_right", []float64{9}),
	)
	right, _ := FromSeries(
		NewSeriesInt64("id", []int64{1}),
		NewSeriesFloat64("v", []float64{2}),
	)

	_, err := left.InnerJoin(right, "id")
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("err = %v, want ErrDuplicateColumn", err)
	}
}

func TestJoinKeyValidation(t *testing.T) {
	left, _ := FromSeries(NewSeriesInt64("a", []int64{1}))
	right, _ := FromSeries(NewSeriesInt64("b", []int64{1}))

	if _, err := left.InnerJoin(right); !errors.Is(err, ErrEmptyJoinKey) {
		t.Errorf("err = %v, want ErrEmptyJoinKey", err)
	}
	if _, err := left.InnerJoin(right, "a"); !errors.Is(err, ErrUnknownJoinColumn) {
		t.Errorf("err = %v, want ErrUnknownJoinColumn", err)
	}
}

func TestJoinNumericKeysMatchAcrossDTypes(t *testing.T) {
	left, _ := FromSeries(
		NewSeriesInt64("id", []int64{1, 2}),
		NewSeriesString("v", []string{"a", "b"}),
	)
	right, _ := FromSeries(
		NewSeriesFloat64("id", []float64{1.0, 2.0}),
		NewSeriesString("w", []string{"x", "y"}),
	)

	out, err := left.InnerJoin(right, "id")
	if err != nil {
		t.Fatalf("InnerJoin failed: %v", err)
	}
	// Int64 1 and Float64 1.0 are the same key
	if out.Height() != 2 {
		t.Fatalf("Height() = %d, want 2", out.Height())
	}
	w := out.Table().Column("w").Strings()
	if w[0] != "x" || w[1] != "y" {
		t.Errorf("w = %v, want [x y]", w)
	}
}

func TestJoinKeyTypeMismatchFails(t *testing.T) {
	left, _ := FromSeries(NewSeriesInt64("id", []int64{1}))
	right, _ := FromSeries(NewSeriesString("id", []string{"1"}))

	_, err := left.InnerJoin(right, "id")
	if !errors.Is(err, ErrJoinKeyTypeMismatch) {
		t.Errorf("err = %v, want ErrJoinKeyTypeMismatch", err)
	}
}

func TestJoinNullKeysMatch(t *testing.T) {
	left, _ := FromSeries(
		NewSeriesInt64WithNulls("id", []int64{1, 0}, []bool{true, false}),
	)
	right, _ := FromSeries(
		NewSeriesInt64WithNulls("id", []int64{0, 2}, []bool{false, true}),
		NewSeriesString("tag", []string{"nullrow", "two"}),
	)

	out, err := left.InnerJoin(right, "id")
	if err != nil {
		t.Fatalf("InnerJoin failed: %v", err)
	}
	// null keys form one equivalence class and match each other
	if out.Height() != 1 {
		t.Fatalf("Height() = %d, want 1", out.Height())
	}
	if got := out.Table().Column("tag").Get(0); got != "nullrow" {
		t.Errorf("tag = %v, want nullrow", got)
	}
}

func TestJoinClearsGrouping(t *testing.T) {
	left, _ := FromSeries(
		NewSeriesInt64("id", []int64{1, 2}),
		NewSeriesInt64("g", []int64{1, 1}),
	)
	right, _ := FromSeries(NewSeriesInt64("id", []int64{1, 2}))

	grouped, _ := left.GroupBy("g")
	out, err := grouped.InnerJoin(right, "id")
	if err != nil {
		t.Fatalf("InnerJoin failed: %v", err)
	}
	if len(out.Groups()) != 0 {
		t.Errorf("Groups() = %v, want empty after join", out.Groups())
	}
}
