package kadro

import "fmt"

// DType represents the logical data type of a Series
type DType uint8

const (
	Float64 DType = iota
	Int64
	Bool
	String

	// Null is the type of a column whose values are all missing
	Null
)

// String returns the string representation of the DType
func (d DType) String() string {
	switch d {
	case Float64:
		return "Float64"
	case Int64:
		return "Int64"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Null:
		return "Null"
	default:
		return fmt.Sprintf("Unknown(%d)", d)
	}
}

// IsNumeric returns true if the dtype is a numeric type
func (d DType) IsNumeric() bool {
	return d == Float64 || d == Int64
}
