package distribution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/spec"
)

func scalarIntSpec(t *testing.T) spec.TensorSpec {
	s, err := spec.NewTensorSpec(spec.Int)
	require.NoError(t, err)
	return s
}

func TestNewCategoricalValidation(t *testing.T) {
	intSpec := scalarIntSpec(t)

	_, err := NewCategorical(intSpec, 0, 1)
	assert.Error(t, err)

	floatSpec, err := spec.NewTensorSpec(spec.Float, 2)
	require.NoError(t, err)
	_, err = NewCategorical(floatSpec, 3, 1)
	assert.Error(t, err)
}

func TestCategoricalAllActionValuesShape(t *testing.T) {
	moveSpec, err := spec.NewTensorSpec(spec.Int, 4)
	require.NoError(t, err)
	dist, err := NewCategorical(moveSpec, 3, 1)
	require.NoError(t, err)

	assert.Equal(t, 12, dist.LogitsSize())

	logits := tensor.New(tensor.WithShape(2, 12),
		tensor.WithBacking(rangeFloats(24)))
	table, err := dist.AllActionValues(logits, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 3}, []int(table.Shape()))

	sig := dist.AllActionValuesSignature(true)
	assert.NoError(t, sig.Check(table))
}

func TestCategoricalAllActionValuesMask(t *testing.T) {
	dist, err := NewCategorical(scalarIntSpec(t), 3, 1)
	require.NoError(t, err)

	logits := tensor.New(tensor.WithShape(1, 3),
		tensor.WithBacking([]float64{1, 5, 2}))
	mask := tensor.New(tensor.WithShape(1, 3),
		tensor.WithBacking([]bool{true, false, true}))

	table, err := dist.AllActionValues(logits, mask)
	require.NoError(t, err)

	data := table.Data().([]float64)
	assert.Equal(t, 1.0, data[0])
	assert.True(t, math.IsInf(data[1], -1))
	assert.Equal(t, 2.0, data[2])

	// The argument logits are untouched
	assert.Equal(t, 5.0, logits.Data().([]float64)[1])
}

func TestCategoricalActionValuesGather(t *testing.T) {
	dist, err := NewCategorical(scalarIntSpec(t), 3, 1)
	require.NoError(t, err)

	table := tensor.New(tensor.WithShape(2, 3),
		tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6}))
	actions := tensor.New(tensor.WithShape(2),
		tensor.WithBacking([]int{2, 0}))

	values, err := dist.ActionValues(table, actions)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, values.Data().([]float64))
}

func TestCategoricalActionValuesRejectsOutOfRange(t *testing.T) {
	dist, err := NewCategorical(scalarIntSpec(t), 3, 1)
	require.NoError(t, err)

	table := tensor.New(tensor.WithShape(1, 3),
		tensor.WithBacking([]float64{1, 2, 3}))
	actions := tensor.New(tensor.WithShape(1),
		tensor.WithBacking([]int{3}))

	_, err = dist.ActionValues(table, actions)
	assert.Error(t, err)
}

func TestCategoricalModeFirstMaximal(t *testing.T) {
	dist, err := NewCategorical(scalarIntSpec(t), 3, 1)
	require.NoError(t, err)

	table := tensor.New(tensor.WithShape(3, 3), tensor.WithBacking([]float64{
		1, 7, 2, // unique max
		4, 4, 4, // all tied: first index wins
		0, 5, 5, // tied max: first maximal index wins
	}))

	greedy, err := dist.Mode(table)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, greedy.Data().([]int))
}

func TestCategoricalSampleGreedyWhenEpsilonZero(t *testing.T) {
	dist, err := NewCategorical(scalarIntSpec(t), 3, 14)
	require.NoError(t, err)

	table := tensor.New(tensor.WithShape(2, 3),
		tensor.WithBacking([]float64{1, 7, 2, 9, 0, 3}))

	actions, err := dist.Sample(table, 0.0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, actions.Data().([]int))
}

func rangeFloats(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
