package tensorutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestReshape2DInfersRows(t *testing.T) {
	in := tensor.New(tensor.WithShape(2, 3, 2),
		tensor.WithBacking([]float64{
			0, 1, 2, 3, 4, 5,
			6, 7, 8, 9, 10, 11,
		}))

	out, err := Reshape2D(in, 4)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4}, []int(out.Shape()))
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		out.Data().([]float64))

	// The argument tensor keeps its shape
	assert.Equal(t, []int{2, 3, 2}, []int(in.Shape()))
}

func TestReshape2DRejectsIllegalColumns(t *testing.T) {
	in := tensor.New(tensor.WithShape(2, 3),
		tensor.WithBacking(make([]float64, 6)))

	_, err := Reshape2D(in, 0)
	assert.Error(t, err, "columns below one")

	_, err = Reshape2D(in, 4)
	assert.Error(t, err, "element count not divisible by columns")
}

func TestConcatColsOrdersColumns(t *testing.T) {
	a := tensor.New(tensor.WithShape(2, 1),
		tensor.WithBacking([]float64{1, 4}))
	b := tensor.New(tensor.WithShape(2, 2),
		tensor.WithBacking([]float64{2, 3, 5, 6}))

	out, err := ConcatCols(a, b)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3}, []int(out.Shape()))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6},
		out.Data().([]float64))
}

func TestConcatColsSingleArgumentPassesThrough(t *testing.T) {
	a := tensor.New(tensor.WithShape(2, 2),
		tensor.WithBacking([]float64{1, 2, 3, 4}))

	out, err := ConcatCols(a)
	require.NoError(t, err)
	assert.Same(t, a, out)

	_, err = ConcatCols()
	assert.Error(t, err, "no tensors given")
}

func TestConcatColsRejectsRowMismatch(t *testing.T) {
	a := tensor.New(tensor.WithShape(2, 1),
		tensor.WithBacking([]float64{1, 2}))
	b := tensor.New(tensor.WithShape(3, 1),
		tensor.WithBacking([]float64{1, 2, 3}))

	_, err := ConcatCols(a, b)
	assert.Error(t, err)
}

func TestMaxLastAxisPreservesLeadingAxes(t *testing.T) {
	in := tensor.New(tensor.WithShape(2, 2, 3),
		tensor.WithBacking([]float64{
			1, 7, 2,
			3, 3, 3,
			0, 1, 8,
			5, 2, 4,
		}))

	out, err := MaxLastAxis(in)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2}, []int(out.Shape()))
	assert.Equal(t, []float64{7, 3, 8, 5}, out.Data().([]float64))
}

func TestMaxLastAxisRejectsVectors(t *testing.T) {
	in := tensor.New(tensor.WithShape(3),
		tensor.WithBacking([]float64{1, 2, 3}))

	_, err := MaxLastAxis(in)
	assert.Error(t, err)
}
