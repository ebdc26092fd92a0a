// Package catalog resolves requested columns against the header line of a
// Consistent-Trees style ASCII catalog. The header names the file's columns
// once at file start; callers declare which columns they want and where each
// value should land, and the package produces a DestinationMap that the
// scanner uses to route tokens into caller-owned buffers without any manual
// column-index bookkeeping.
package catalog

import (
	"strings"

	"github.com/cosmoforge/treescan/pkg/errors"
)

// NumericType identifies the destination scalar type of a requested column.
type NumericType int

const (
	Int32 NumericType = iota
	Int64
	Uint32
	Uint64
	Float32
	Float64
	numNumericTypes
)

var typeSizes = [numNumericTypes]int{4, 8, 4, 8, 4, 8}

var typeNames = [numNumericTypes]string{"int32", "int64", "uint32", "uint64", "float32", "float64"}

// Size returns the width of the type in bytes.
func (t NumericType) Size() int {
	return typeSizes[t]
}

// Valid reports whether t is one of the supported scalar types.
func (t NumericType) Valid() bool {
	return t >= Int32 && t < numNumericTypes
}

func (t NumericType) String() string {
	if !t.Valid() {
		return "invalid"
	}
	return typeNames[t]
}

// ParseNumericType parses a type name as written in field-spec files.
// C-style aliases (float, double, int, long) are accepted.
func ParseNumericType(s string) (NumericType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int32", "i32", "int":
		return Int32, nil
	case "int64", "i64", "long":
		return Int64, nil
	case "uint32", "u32", "uint":
		return Uint32, nil
	case "uint64", "u64", "ulong":
		return Uint64, nil
	case "float32", "f32", "float":
		return Float32, nil
	case "float64", "f64", "double":
		return Float64, nil
	}
	return 0, errors.Newf(errors.ErrorTypeConfig, "unknown numeric type %q", s)
}
