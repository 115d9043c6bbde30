package kadro

import (
	"testing"
)

func TestSeriesCreate(t *testing.T) {
	s := NewSeriesFloat64("a", []float64{1.0, 2.0, 3.0})

	if s.Name() != "a" {
		t.Errorf("Name() = %q, want %q", s.Name(), "a")
	}
	if s.DType() != Float64 {
		t.Errorf("DType() = %v, want Float64", s.DType())
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if s.HasNulls() {
		t.Error("HasNulls() should be false")
	}
}

func TestSeriesNulls(t *testing.T) {
	s := NewSeriesInt64WithNulls("x", []int64{1, 0, 3}, []bool{true, false, true})

	if !s.HasNulls() {
		t.Fatal("HasNulls() should be true")
	}
	if s.NullCount() != 1 {
		t.Errorf("NullCount() = %d, want 1", s.NullCount())
	}
	if s.IsValid(1) {
		t.Error("IsValid(1) should be false")
	}
	if got := s.Get(1); got != nil {
		t.Errorf("Get(1) = %v, want nil", got)
	}
	if got := s.Get(2); got != int64(3) {
		t.Errorf("Get(2) = %v, want 3", got)
	}
}

func TestSeriesAllValidMaskDropped(t *testing.T) {
	s := NewSeriesFloat64WithNulls("a", []float64{1, 2}, []bool{true, true})
	if s.HasNulls() {
		t.Error("an all-true validity mask should normalize away")
	}
}

func TestSeriesTake(t *testing.T) {
	s := NewSeriesString("name", []string{"alice", "bob", "carol"})

	out := s.Take([]int{2, 0, 0})
	if out.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", out.Len())
	}
	if out.Strings()[0] != "carol" || out.Strings()[1] != "alice" || out.Strings()[2] != "alice" {
		t.Errorf("Take values = %v", out.Strings())
	}
}

func TestSeriesTakeNegativeIsNull(t *testing.T) {
	s := NewSeriesInt64("x", []int64{10, 20})

	out := s.Take([]int{1, -1})
	if !out.HasNulls() {
		t.Fatal("Take with -1 should produce a null")
	}
	if out.IsValid(1) {
		t.Error("index 1 should be null")
	}
	if got := out.Get(0); got != int64(20) {
		t.Errorf("Get(0) = %v, want 20", got)
	}
}

func TestSeriesFilter(t *testing.T) {
	s := NewSeriesFloat64("v", []float64{1, 2, 3, 4})

	out := s.Filter([]bool{true, false, true, false})
	if out.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", out.Len())
	}
	if out.Float64()[0] != 1 || out.Float64()[1] != 3 {
		t.Errorf("Filter values = %v, want [1 3]", out.Float64())
	}
}

func TestSeriesHeadTail(t *testing.T) {
	s := NewSeriesInt64("x", []int64{1, 2, 3, 4, 5})

	if got := s.Head(2).Int64(); len(got) != 2 || got[1] != 2 {
		t.Errorf("Head(2) = %v", got)
	}
	if got := s.Tail(2).Int64(); len(got) != 2 || got[0] != 4 {
		t.Errorf("Tail(2) = %v", got)
	}
	if s.Head(10).Len() != 5 {
		t.Error("Head beyond length should clamp")
	}
}

func TestSeriesFromValuesInference(t *testing.T) {
	s, err := seriesFromValues("x", []any{int64(1), int64(2), nil})
	if err != nil {
		t.Fatalf("seriesFromValues failed: %v", err)
	}
	if s.DType() != Int64 {
		t.Errorf("DType() = %v, want Int64", s.DType())
	}
	if !s.HasNulls() || s.IsValid(2) {
		t.Error("nil value should be null")
	}

	// int mixed with float promotes to float
	s, err = seriesFromValues("y", []any{int64(1), 2.5})
	if err != nil {
		t.Fatalf("seriesFromValues failed: %v", err)
	}
	if s.DType() != Float64 {
		t.Errorf("DType() = %v, want Float64", s.DType())
	}
	if s.Float64()[0] != 1.0 {
		t.Errorf("promoted value = %v, want 1.0", s.Float64()[0])
	}

	// string mixed with number is an error
	if _, err := seriesFromValues("z", []any{"a", int64(1)}); err == nil {
		t.Error("mixed string/int should fail")
	}

	// all-null defaults to Float64
	s, err = seriesFromValues("w", []any{nil, nil})
	if err != nil {
		t.Fatalf("seriesFromValues failed: %v", err)
	}
	if s.DType() != Float64 || s.NullCount() != 2 {
		t.Errorf("all-null series = %v dtype with %d nulls", s.DType(), s.NullCount())
	}
}
