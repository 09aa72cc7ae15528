package graph

import (
	"golang.org/x/xerrors"
)

// DataType describes the type carried by a Port: base numeric domain,
// signedness, total bit width, fractional bits (fixed-point), complex flag,
// and shape.
type DataType struct {
	Base         BaseType
	Signed       bool
	TotalBits    int
	FractionBits int
	Complex      bool
	// Shape is a non-empty dimension vector. A scalar has every dimension
	// equal to 1 (equivalently Shape == []int{1}).
	Shape []int
}

// ErrInvalidShape is returned when a DataType's Shape is empty.
var ErrInvalidShape = xerrors.New("data type shape must be non-empty")

// Validate enforces the shape invariant: non-empty, all dimensions positive.
func (d DataType) Validate() error {
	if len(d.Shape) == 0 {
		return ErrInvalidShape
	}
	for _, dim := range d.Shape {
		if dim <= 0 {
			return xerrors.Errorf("shape dimension %d must be positive: %w", dim, ErrInvalidShape)
		}
	}
	return nil
}

// IsScalar reports whether every shape dimension is 1.
func (d DataType) IsScalar() bool {
	for _, dim := range d.Shape {
		if dim != 1 {
			return false
		}
	}
	return true
}

// NumElements returns the product of the shape dimensions: the number of
// scalar elements one instance of this type carries (before block
// expansion).
func (d DataType) NumElements() int {
	n := 1
	for _, dim := range d.Shape {
		n *= dim
	}
	return n
}

// ElementBytes returns the on-wire byte count of a single scalar element;
// complex types double it (real plus imaginary component).
func (d DataType) ElementBytes() int {
	bytes := d.CPUStorageType().Bits() / 8
	if d.Complex {
		bytes *= 2
	}
	return bytes
}

// CPUStorageType returns the BaseType used to store one element of this
// DataType in CPU memory: single-bit booleans are promoted to 8-bit storage.
func (d DataType) CPUStorageType() BaseType {
	if d.Base == Bool {
		return UInt8
	}
	return d.Base
}

// ExpandedForBlock returns the DataType that results from expanding this
// type for a block of size B: prepend an outer dimension of size B, or
// (when the port is already vector-shaped for sub-block semantics)
// multiply the existing outer dimension by B.
func (d DataType) ExpandedForBlock(blockSize int, subBlocked bool) DataType {
	out := d
	out.Shape = append([]int(nil), d.Shape...)
	if blockSize <= 1 {
		return out
	}
	if subBlocked && len(out.Shape) > 0 {
		out.Shape[0] *= blockSize
		return out
	}
	out.Shape = append([]int{blockSize}, out.Shape...)
	return out
}

// SameNumericType reports whether two DataTypes agree on base type,
// signedness, and complex-ness (used for delay-node port-type-agreement
// checks at code-gen time).
func SameNumericType(a, b DataType) bool {
	return a.Base == b.Base && a.Signed == b.Signed && a.Complex == b.Complex
}
