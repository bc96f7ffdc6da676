package ir

import "fmt"

// TypeCode enumerates the numeric families a Type can describe.
type TypeCode uint8

const (
	TypeInt TypeCode = iota
	TypeUInt
	TypeFloat
)

func (c TypeCode) String() string {
	switch c {
	case TypeInt:
		return "int"
	case TypeUInt:
		return "uint"
	case TypeFloat:
		return "float"
	default:
		return fmt.Sprintf("TypeCode(%d)", c)
	}
}

// Type describes a scalar or vector numeric value: its family, the width of
// one element in bits and the number of vector lanes (1 for scalars).
//
// Type does no validation; rejecting combinations such as Float(1) is left to
// the passes that care.
type Type struct {
	Code  TypeCode
	Bits  int
	Lanes int
}

// Int describes a signed integer with the given bit width.
// lanes defaults to 1.
func Int(bits int, lanes ...int) Type {
	return Type{Code: TypeInt, Bits: bits, Lanes: lanesOrScalar(lanes)}
}

// UInt describes an unsigned integer with the given bit width.
func UInt(bits int, lanes ...int) Type {
	return Type{Code: TypeUInt, Bits: bits, Lanes: lanesOrScalar(lanes)}
}

// Float describes a floating-point number with the given bit width.
func Float(bits int, lanes ...int) Type {
	return Type{Code: TypeFloat, Bits: bits, Lanes: lanesOrScalar(lanes)}
}

// Bool is the one-bit unsigned type produced by comparisons.
func Bool(lanes ...int) Type {
	return UInt(1, lanes...)
}

func lanesOrScalar(lanes []int) int {
	if len(lanes) == 0 {
		return 1
	}
	return lanes[0]
}

func (t Type) IsInt() bool    { return t.Code == TypeInt }
func (t Type) IsUInt() bool   { return t.Code == TypeUInt }
func (t Type) IsFloat() bool  { return t.Code == TypeFloat }
func (t Type) IsBool() bool   { return t.Code == TypeUInt && t.Bits == 1 }
func (t Type) IsScalar() bool { return t.Lanes == 1 }
func (t Type) IsVector() bool { return t.Lanes > 1 }

// Element returns the scalar type of one lane.
func (t Type) Element() Type {
	return t.WithLanes(1)
}

// WithLanes returns t with its lane count replaced.
func (t Type) WithLanes(lanes int) Type {
	t.Lanes = lanes
	return t
}

// String renders the type the way the printer shows it: int32, uint8x16,
// float32x4, bool.
func (t Type) String() string {
	var base string
	if t.IsBool() {
		base = "bool"
	} else {
		base = fmt.Sprintf("%s%d", t.Code, t.Bits)
	}
	if t.Lanes != 1 {
		return fmt.Sprintf("%sx%d", base, t.Lanes)
	}
	return base
}
