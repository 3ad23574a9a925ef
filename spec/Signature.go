package spec

import (
	"fmt"

	"gorgonia.org/tensor"
)

// BatchDim marks a dimension of a Signature whose length is only known
// at call time
const BatchDim int = -1

// Signature describes the concrete layout that a tensor argument or
// return value must have for one operation. Unlike a TensorSpec, a
// Signature includes the batch dimension if the described value is
// batched.
//
// A Signature is a SignatureNode, so it may appear as an entry of a
// SignatureDict.
type Signature struct {
	typ   Type
	shape []int
}

// NewSignature creates and returns a new Signature with the given type
// and shape. A shape dimension equal to BatchDim matches any positive
// length.
func NewSignature(typ Type, shape ...int) Signature {
	s := make([]int, len(shape))
	copy(s, shape)
	return Signature{typ: typ, shape: s}
}

// Type returns the data type of tensors matching the Signature
func (s Signature) Type() Type {
	return s.typ
}

// Shape returns a copy of the shape of tensors matching the Signature
func (s Signature) Shape() []int {
	shape := make([]int, len(s.shape))
	copy(shape, s.shape)
	return shape
}

// Batched returns whether the Signature describes a batched value
func (s Signature) Batched() bool {
	return len(s.shape) > 0 && s.shape[0] == BatchDim
}

// Check validates that the argument tensor conforms to the Signature,
// returning an error describing the first violation found, if any.
func (s Signature) Check(t tensor.Tensor) error {
	if t == nil {
		return fmt.Errorf("check: no tensor given for signature %v", s)
	}
	if dtype := s.typ.Dtype(); t.Dtype() != dtype {
		return fmt.Errorf("check: illegal dtype \n\twant(%v) \n\thave(%v)",
			dtype, t.Dtype())
	}

	shape := t.Shape()
	if len(shape) != len(s.shape) {
		return fmt.Errorf("check: illegal number of dimensions "+
			"\n\twant(%v) \n\thave(%v)", len(s.shape), len(shape))
	}
	for i, dim := range s.shape {
		if dim == BatchDim {
			continue
		}
		if shape[i] != dim {
			return fmt.Errorf("check: illegal length of dimension %v "+
				"\n\twant(%v) \n\thave(%v)", i, dim, shape[i])
		}
	}
	return nil
}

func (s Signature) String() string {
	return fmt.Sprintf("Signature(type=%v, shape=%v)", s.typ, s.shape)
}

func (s Signature) isSignatureNode() {}
