package graph

import (
	"golang.org/x/xerrors"
)

// BaseType enumerates the scalar numeric domains a Port or Value can carry.
// Booleans are represented as Bool but promoted to 8-bit storage on the CPU
// side (see DataType.CPUStorageType).
type BaseType int

const (
	Bool BaseType = iota
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
)

// String renders the C type name a BaseType lowers to.
func (t BaseType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int8:
		return "int8_t"
	case Int16:
		return "int16_t"
	case Int32:
		return "int32_t"
	case Int64:
		return "int64_t"
	case UInt8:
		return "uint8_t"
	case UInt16:
		return "uint16_t"
	case UInt32:
		return "uint32_t"
	case UInt64:
		return "uint64_t"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		return "void"
	}
}

// Bits returns the in-memory storage width of the base type, before any
// CPU-storage promotion of single-bit booleans.
func (t BaseType) Bits() int {
	switch t {
	case Bool, Int8, UInt8:
		return 8
	case Int16, UInt16:
		return 16
	case Int32, UInt32, Float32:
		return 32
	case Int64, UInt64, Float64:
		return 64
	default:
		return 0
	}
}

// Value is a single numeric initial-condition element. It carries one real
// component and, when Complex is set, one imaginary component, matching the
// wire representation of a FIFO's init_conditions.
type Value struct {
	Type    BaseType
	Complex bool
	Re      float64
	Im      float64
}

// NewReal returns a real-valued Value of the given type.
func NewReal(t BaseType, re float64) Value { return Value{Type: t, Re: re} }

// NewComplex returns a complex-valued Value of the given type.
func NewComplex(t BaseType, re, im float64) Value {
	return Value{Type: t, Complex: true, Re: re, Im: im}
}

// ElementWords returns how many scalar storage words a single Value occupies
// on the wire: 2 when complex (real + imaginary), 1 otherwise.
func (v Value) ElementWords() int {
	if v.Complex {
		return 2
	}
	return 1
}

// ErrValueTypeMismatch is returned when two Values (or a Value and the
// DataType it is being validated against) disagree on BaseType or
// complexity.
var ErrValueTypeMismatch = xerrors.New("value type mismatch")

// CheckSameType returns ErrValueTypeMismatch wrapped with detail when a and b
// do not share a base type and complex-ness.
func CheckSameType(a, b Value) error {
	if a.Type != b.Type || a.Complex != b.Complex {
		return xerrors.Errorf("value %v vs %v: %w", a, b, ErrValueTypeMismatch)
	}
	return nil
}
