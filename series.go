package kadro

import (
	"fmt"
)

// Series is a named column of values with a single logical type.
// A Series is immutable by convention: transformations return new Series
// values and never modify the receiver. An optional validity mask marks
// missing values; a nil mask means every value is valid.
type Series struct {
	name  string
	dtype DType

	f64 []float64
	i64 []int64
	b   []bool
	str []string

	valid []bool // nil = all valid
}

// NewSeriesFloat64 creates a Float64 Series from a slice of values.
func NewSeriesFloat64(name string, data []float64) *Series {
	return &Series{name: name, dtype: Float64, f64: data}
}

// NewSeriesInt64 creates an Int64 Series from a slice of values.
func NewSeriesInt64(name string, data []int64) *Series {
	return &Series{name: name, dtype: Int64, i64: data}
}

// NewSeriesBool creates a Bool Series from a slice of values.
func NewSeriesBool(name string, data []bool) *Series {
	return &Series{name: name, dtype: Bool, b: data}
}

// NewSeriesString creates a String Series from a slice of values.
func NewSeriesString(name string, data []string) *Series {
	return &Series{name: name, dtype: String, str: data}
}

// NewSeriesFloat64WithNulls creates a Float64 Series with a validity mask.
// valid[i] == false marks the value at i as missing.
func NewSeriesFloat64WithNulls(name string, data []float64, valid []bool) *Series {
	return &Series{name: name, dtype: Float64, f64: data, valid: normalizeValid(valid)}
}

// NewSeriesInt64WithNulls creates an Int64 Series with a validity mask.
func NewSeriesInt64WithNulls(name string, data []int64, valid []bool) *Series {
	return &Series{name: name, dtype: Int64, i64: data, valid: normalizeValid(valid)}
}

// NewSeriesBoolWithNulls creates a Bool Series with a validity mask.
func NewSeriesBoolWithNulls(name string, data []bool, valid []bool) *Series {
	return &Series{name: name, dtype: Bool, b: data, valid: normalizeValid(valid)}
}

// NewSeriesStringWithNulls creates a String Series with a validity mask.
func NewSeriesStringWithNulls(name string, data []string, valid []bool) *Series {
	return &Series{name: name, dtype: String, str: data, valid: normalizeValid(valid)}
}

// normalizeValid drops an all-true mask so the no-nulls fast path applies.
func normalizeValid(valid []bool) []bool {
	for _, v := range valid {
		if !v {
			return valid
		}
	}
	return nil
}

// Name returns the series name.
func (s *Series) Name() string {
	return s.name
}

// DType returns the data type.
func (s *Series) DType() DType {
	return s.dtype
}

// Len returns the number of elements.
func (s *Series) Len() int {
	switch s.dtype {
	case Float64:
		return len(s.f64)
	case Int64:
		return len(s.i64)
	case Bool:
		return len(s.b)
	case String:
		return len(s.str)
	default:
		return len(s.valid)
	}
}

// HasNulls returns true if the series has any missing values.
func (s *Series) HasNulls() bool {
	return s.valid != nil
}

// IsValid returns true if the value at index i is not missing.
func (s *Series) IsValid(i int) bool {
	if s.valid == nil {
		return s.dtype != Null
	}
	return s.valid[i]
}

// NullCount returns the number of missing values.
func (s *Series) NullCount() int {
	if s.valid == nil {
		if s.dtype == Null {
			return s.Len()
		}
		return 0
	}
	n := 0
	for _, v := range s.valid {
		if !v {
			n++
		}
	}
	return n
}

// Float64 returns the underlying float64 values. The slice is shared with
// the Series and must not be modified.
func (s *Series) Float64() []float64 {
	return s.f64
}

// Int64 returns the underlying int64 values.
func (s *Series) Int64() []int64 {
	return s.i64
}

// Bool returns the underlying bool values.
func (s *Series) Bool() []bool {
	return s.b
}

// Strings returns the underlying string values.
func (s *Series) Strings() []string {
	return s.str
}

// Get returns the value at index i, or nil if it is missing.
func (s *Series) Get(i int) any {
	if !s.IsValid(i) {
		return nil
	}
	switch s.dtype {
	case Float64:
		return s.f64[i]
	case Int64:
		return s.i64[i]
	case Bool:
		return s.b[i]
	case String:
		return s.str[i]
	default:
		return nil
	}
}

// WithName returns a copy of the series under a new name.
// The underlying data is shared, not copied.
func (s *Series) WithName(name string) *Series {
	out := *s
	out.name = name
	return &out
}

// Take returns a new Series with the values at the given row indices, in
// order. An index of -1 produces a missing value; this is how join fill
// works. Indices may repeat.
func (s *Series) Take(indices []int) *Series {
	n := len(indices)
	var valid []bool
	needMask := s.valid != nil
	if !needMask {
		for _, idx := range indices {
			if idx < 0 {
				needMask = true
				break
			}
		}
	}
	if needMask {
		valid = make([]bool, n)
		for i, idx := range indices {
			valid[i] = idx >= 0 && s.IsValid(idx)
		}
	}

	out := &Series{name: s.name, dtype: s.dtype, valid: normalizeValid(valid)}
	switch s.dtype {
	case Float64:
		data := make([]float64, n)
		for i, idx := range indices {
			if idx >= 0 {
				data[i] = s.f64[idx]
			}
		}
		out.f64 = data
	case Int64:
		data := make([]int64, n)
		for i, idx := range indices {
			if idx >= 0 {
				data[i] = s.i64[idx]
			}
		}
		out.i64 = data
	case Bool:
		data := make([]bool, n)
		for i, idx := range indices {
			if idx >= 0 {
				data[i] = s.b[idx]
			}
		}
		out.b = data
	case String:
		data := make([]string, n)
		for i, idx := range indices {
			if idx >= 0 {
				data[i] = s.str[idx]
			}
		}
		out.str = data
	default:
		out.valid = make([]bool, n)
	}
	return out
}

// Filter returns a new Series with the values where mask is true.
// The mask length must equal the series length.
func (s *Series) Filter(mask []bool) *Series {
	indices := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return s.Take(indices)
}

// Slice returns a new Series with values from start to end (exclusive).
// The underlying storage is shared with the receiver.
func (s *Series) Slice(start, end int) *Series {
	out := &Series{name: s.name, dtype: s.dtype}
	if s.valid != nil {
		out.valid = normalizeValid(s.valid[start:end])
	}
	switch s.dtype {
	case Float64:
		out.f64 = s.f64[start:end]
	case Int64:
		out.i64 = s.i64[start:end]
	case Bool:
		out.b = s.b[start:end]
	case String:
		out.str = s.str[start:end]
	default:
		out.valid = make([]bool, end-start)
	}
	return out
}

// Head returns the first n values.
func (s *Series) Head(n int) *Series {
	if n > s.Len() {
		n = s.Len()
	}
	if n < 0 {
		n = 0
	}
	return s.Slice(0, n)
}

// Tail returns the last n values.
func (s *Series) Tail(n int) *Series {
	l := s.Len()
	if n > l {
		n = l
	}
	if n < 0 {
		n = 0
	}
	return s.Slice(l-n, l)
}

// seriesFromValues builds a Series from dynamically typed values, inferring
// the narrowest dtype that holds them all. nil values become nulls. Int64
// values promote to Float64 when mixed with floats; any other mix is an
// error. An empty or all-null input yields a Float64 series of nulls.
func seriesFromValues(name string, values []any) (*Series, error) {
	hasFloat := false
	hasInt := false
	hasBool := false
	hasString := false
	hasNull := false

	for _, v := range values {
		switch v.(type) {
		case nil:
			hasNull = true
		case float64, float32:
			hasFloat = true
		case int64, int32, int:
			hasInt = true
		case bool:
			hasBool = true
		case string:
			hasString = true
		default:
			return nil, fmt.Errorf("column %q: unsupported value type %T", name, v)
		}
	}

	var dtype DType
	switch {
	case hasString && !hasFloat && !hasInt && !hasBool:
		dtype = String
	case hasBool && !hasFloat && !hasInt && !hasString:
		dtype = Bool
	case hasFloat && !hasBool && !hasString:
		dtype = Float64
	case hasInt && !hasBool && !hasString:
		dtype = Int64
	case !hasFloat && !hasInt && !hasBool && !hasString:
		dtype = Float64 // empty or all-null
	default:
		return nil, fmt.Errorf("column %q: mixed value types", name)
	}

	n := len(values)
	var valid []bool
	if hasNull {
		valid = make([]bool, n)
		for i, v := range values {
			valid[i] = v != nil
		}
	}

	switch dtype {
	case Float64:
		data := make([]float64, n)
		for i, v := range values {
			switch x := v.(type) {
			case float64:
				data[i] = x
			case float32:
				data[i] = float64(x)
			case int64:
				data[i] = float64(x)
			case int32:
				data[i] = float64(x)
			case int:
				data[i] = float64(x)
			}
		}
		return NewSeriesFloat64WithNulls(name, data, valid), nil
	case Int64:
		data := make([]int64, n)
		for i, v := range values {
			switch x := v.(type) {
			case int64:
				data[i] = x
			case int32:
				data[i] = int64(x)
			case int:
				data[i] = int64(x)
			}
		}
		return NewSeriesInt64WithNulls(name, data, valid), nil
	case Bool:
		data := make([]bool, n)
		for i, v := range values {
			if x, ok := v.(bool); ok {
				data[i] = x
			}
		}
		return NewSeriesBoolWithNulls(name, data, valid), nil
	default:
		data := make([]string, n)
		for i, v := range values {
			if x, ok := v.(string); ok {
				data[i] = x
			}
		}
		return NewSeriesStringWithNulls(name, data, valid), nil
	}
}
