// Package tensorutils provides utilities for working with tensors
package tensorutils

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Slice implements a struct that can be used for slicing tensors.
//
// Given a tensor T and a Slice S, T.Slice(..., S, ...) is equivalent to
// T[..., S.start:S.end:S.step, ...]
type Slice struct {
	start, end, step int
}

// Start returns the start index for the tensor slice
func (s Slice) Start() int {
	return s.start
}

// End returns the ending index for the tensor slice
func (s Slice) End() int {
	return s.end
}

// Step returns the step for the tensor slice
func (s Slice) Step() int {
	return s.step
}

// NewSlice returns a new Slice that can be used to slice tensors
func NewSlice(start, stop, step int) Slice {
	return Slice{start, stop, step}
}

// Reshape2D returns a copy of the argument tensor reshaped to a matrix
// with cols columns. The number of rows is inferred from the total
// number of elements. The argument tensor is not modified.
func Reshape2D(t *tensor.Dense, cols int) (*tensor.Dense, error) {
	if cols < 1 {
		return nil, fmt.Errorf("reshape2d: illegal number of columns "+
			"\n\twant(>= 1) \n\thave(%v)", cols)
	}
	total := t.Shape().TotalSize()
	if total%cols != 0 {
		return nil, fmt.Errorf("reshape2d: cannot reshape %v elements "+
			"to %v columns", total, cols)
	}

	out := t.Clone().(*tensor.Dense)
	if err := out.Reshape(total/cols, cols); err != nil {
		return nil, fmt.Errorf("reshape2d: could not reshape: %v", err)
	}
	return out, nil
}

// ConcatCols concatenates the argument matrices along the column
// (second) axis. All arguments must have the same number of rows.
func ConcatCols(ts ...*tensor.Dense) (*tensor.Dense, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("concatcols: no tensors given")
	}
	if len(ts) == 1 {
		return ts[0], nil
	}

	rest := make([]tensor.Tensor, len(ts)-1)
	for i, t := range ts[1:] {
		rest[i] = t
	}

	out, err := tensor.Concat(1, ts[0], rest...)
	if err != nil {
		return nil, fmt.Errorf("concatcols: could not concatenate: %v",
			err)
	}
	return out.(*tensor.Dense), nil
}

// MaxLastAxis returns the maximum of the argument tensor along its
// last axis, preserving all leading axes. The argument tensor is not
// modified.
func MaxLastAxis(t *tensor.Dense) (*tensor.Dense, error) {
	if t.Dims() < 2 {
		return nil, fmt.Errorf("maxlastaxis: tensor must have at least "+
			"2 dimensions \n\thave(%v)", t.Dims())
	}
	out, err := t.Max(t.Dims() - 1)
	if err != nil {
		return nil, fmt.Errorf("maxlastaxis: could not reduce: %v", err)
	}
	return out, nil
}
