// Package spec implements shape and dtype specifications for the
// tensor-valued inputs and outputs of policies. A specification fixes
// the contract of a named tensor once at construction time; signatures
// derived from specifications describe the batched layout that an
// executing backend should validate before running an operation.
package spec

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Type determines the data type of the tensor that a TensorSpec
// describes
type Type int

const (
	Float Type = iota
	Int
	Bool
)

func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case Int:
		return "int"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Dtype returns the tensor data type corresponding to the Type
func (t Type) Dtype() tensor.Dtype {
	switch t {
	case Int:
		return tensor.Int
	case Bool:
		return tensor.Bool
	default:
		return tensor.Float64
	}
}

// TensorSpec describes the type and shape of a single named
// tensor-like value. A TensorSpec is immutable once constructed.
type TensorSpec struct {
	typ   Type
	shape []int
}

// NewTensorSpec creates and returns a new TensorSpec with the given
// type and shape. Every shape dimension must be non-negative.
func NewTensorSpec(typ Type, shape ...int) (TensorSpec, error) {
	if typ != Float && typ != Int && typ != Bool {
		return TensorSpec{}, fmt.Errorf("newtensorspec: unknown type %v",
			int(typ))
	}
	for _, dim := range shape {
		if dim < 0 {
			return TensorSpec{}, fmt.Errorf("newtensorspec: illegal "+
				"shape dimension \n\twant(>= 0) \n\thave(%v)", dim)
		}
	}

	s := make([]int, len(shape))
	copy(s, shape)
	return TensorSpec{typ: typ, shape: s}, nil
}

// Type returns the data type of tensors described by the TensorSpec
func (t TensorSpec) Type() Type {
	return t.typ
}

// Shape returns a copy of the shape of tensors described by the
// TensorSpec. The shape excludes the batch dimension.
func (t TensorSpec) Shape() []int {
	shape := make([]int, len(t.shape))
	copy(shape, t.shape)
	return shape
}

// Rank returns the number of dimensions of tensors described by the
// TensorSpec, excluding the batch dimension.
func (t TensorSpec) Rank() int {
	return len(t.shape)
}

// Size returns the total number of elements in a single unbatched
// tensor described by the TensorSpec, that is, the product of all
// shape dimensions.
func (t TensorSpec) Size() int {
	size := 1
	for _, dim := range t.shape {
		size *= dim
	}
	return size
}

// Signature returns the shape descriptor of tensors conforming to the
// TensorSpec. If batched, the returned signature expects a leading
// batch dimension of arbitrary positive length.
func (t TensorSpec) Signature(batched bool) Signature {
	if batched {
		shape := append([]int{BatchDim}, t.shape...)
		return Signature{typ: t.typ, shape: shape}
	}
	return Signature{typ: t.typ, shape: t.Shape()}
}

func (t TensorSpec) String() string {
	return fmt.Sprintf("TensorSpec(type=%v, shape=%v)", t.typ, t.shape)
}
