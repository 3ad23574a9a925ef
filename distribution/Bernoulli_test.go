package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/spec"
)

func scalarBoolSpec(t *testing.T) spec.TensorSpec {
	s, err := spec.NewTensorSpec(spec.Bool)
	require.NoError(t, err)
	return s
}

func TestNewBernoulliRequiresBoolComponent(t *testing.T) {
	intSpec, err := spec.NewTensorSpec(spec.Int)
	require.NoError(t, err)
	_, err = NewBernoulli(intSpec, 1)
	assert.Error(t, err)
}

func TestBernoulliAllActionValuesShape(t *testing.T) {
	dist, err := NewBernoulli(scalarBoolSpec(t), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, dist.NumValues())
	assert.Equal(t, 2, dist.LogitsSize())

	logits := tensor.New(tensor.WithShape(3, 2),
		tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6}))
	table, err := dist.AllActionValues(logits, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, []int(table.Shape()))

	sig := dist.AllActionValuesSignature(true)
	assert.NoError(t, sig.Check(table))
}

func TestBernoulliActionValuesGather(t *testing.T) {
	dist, err := NewBernoulli(scalarBoolSpec(t), 1)
	require.NoError(t, err)

	table := tensor.New(tensor.WithShape(2, 2),
		tensor.WithBacking([]float64{1, 2, 3, 4}))
	actions := tensor.New(tensor.WithShape(2),
		tensor.WithBacking([]bool{true, false}))

	values, err := dist.ActionValues(table, actions)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, values.Data().([]float64))
}

func TestBernoulliModeTieIsFalse(t *testing.T) {
	dist, err := NewBernoulli(scalarBoolSpec(t), 1)
	require.NoError(t, err)

	table := tensor.New(tensor.WithShape(3, 2), tensor.WithBacking([]float64{
		1, 2, // true wins
		5, 3, // false wins
		4, 4, // tie: false, the first choice, wins
	}))

	greedy, err := dist.Mode(table)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, greedy.Data().([]bool))
}

func TestBernoulliSampleGreedyWhenEpsilonZero(t *testing.T) {
	dist, err := NewBernoulli(scalarBoolSpec(t), 14)
	require.NoError(t, err)

	table := tensor.New(tensor.WithShape(2, 2),
		tensor.WithBacking([]float64{1, 2, 5, 3}))

	actions, err := dist.Sample(table, 0.0)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, actions.Data().([]bool))
}
