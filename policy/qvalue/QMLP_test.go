package qvalue_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/agent"
	"github.com/samuelfneumann/goforce/buffer/horizon"
	"github.com/samuelfneumann/goforce/distribution"
	"github.com/samuelfneumann/goforce/network"
	"github.com/samuelfneumann/goforce/policy/qvalue"
	"github.com/samuelfneumann/goforce/spec"
)

// onesConfig returns a Config for a network with no hidden layers and
// all weights set to one, so that every output logit of an input row
// equals the sum of the row plus the final bias unit.
func onesConfig() qvalue.Config {
	return qvalue.Config{
		HiddenSizes: []int{},
		Biases:      []bool{},
		Activations: []*network.Activation{},
		InitWFn:     G.Ones(),
		Epsilon:     0.0,
	}
}

// moveJumpQMLP returns a QMLP over a two-feature observation and two
// action components: move, a scalar integer with three choices, and
// jump, a scalar boolean.
func moveJumpQMLP(t *testing.T, batch int) *qvalue.QMLP {
	obs, err := spec.NewTensorSpec(spec.Float, 2)
	require.NoError(t, err)
	states := spec.NewDict()
	require.NoError(t, states.Add("obs", obs))

	moveSpec, err := spec.NewTensorSpec(spec.Int)
	require.NoError(t, err)
	jumpSpec, err := spec.NewTensorSpec(spec.Bool)
	require.NoError(t, err)
	actions := spec.NewDict()
	require.NoError(t, actions.Add("move", moveSpec))
	require.NoError(t, actions.Add("jump", jumpSpec))

	move, err := distribution.NewCategorical(moveSpec, 3, 1)
	require.NoError(t, err)
	jump, err := distribution.NewBernoulli(jumpSpec, 1)
	require.NoError(t, err)

	q, err := qvalue.New(states, actions, nil, nil,
		map[string]distribution.Distribution{"move": move, "jump": jump},
		batch, onesConfig())
	require.NoError(t, err)
	return q
}

func qmlpArgs(batch int, obs []float64) (*spec.TensorDict,
	*tensor.Dense) {
	states := spec.NewTensorDict()
	states.Add("obs", tensor.New(tensor.WithShape(batch, 2),
		tensor.WithBacking(obs)))

	windows := make([]int, batch*2)
	for i := 0; i < batch; i++ {
		windows[2*i] = i
		windows[2*i+1] = 1
	}
	horizons := tensor.New(tensor.WithShape(batch, 2),
		tensor.WithBacking(windows))
	return states, horizons
}

func TestNewValidatesInputs(t *testing.T) {
	obs, err := spec.NewTensorSpec(spec.Float, 2)
	require.NoError(t, err)
	states := spec.NewDict()
	require.NoError(t, states.Add("obs", obs))

	moveSpec, err := spec.NewTensorSpec(spec.Int)
	require.NoError(t, err)
	actions := spec.NewDict()
	require.NoError(t, actions.Add("move", moveSpec))

	move, err := distribution.NewCategorical(moveSpec, 3, 1)
	require.NoError(t, err)
	dists := map[string]distribution.Distribution{"move": move}

	_, err = qvalue.New(states, actions, nil, nil, dists, 0, onesConfig())
	assert.Error(t, err, "batch size below one")

	config := onesConfig()
	config.InitWFn = nil
	_, err = qvalue.New(states, actions, nil, nil, dists, 1, config)
	assert.Error(t, err, "no weight initialization algorithm")

	config = onesConfig()
	config.Epsilon = 1.5
	_, err = qvalue.New(states, actions, nil, nil, dists, 1, config)
	assert.Error(t, err, "epsilon out of range")

	intObs, err := spec.NewTensorSpec(spec.Int, 2)
	require.NoError(t, err)
	intStates := spec.NewDict()
	require.NoError(t, intStates.Add("obs", intObs))
	_, err = qvalue.New(intStates, actions, nil, nil, dists, 1,
		onesConfig())
	assert.Error(t, err, "non-float state component")
}

func TestAllActionsValuesTableShapes(t *testing.T) {
	q := moveJumpQMLP(t, 2)
	defer q.Close()

	states, horizons := qmlpArgs(2, []float64{1, 2, 0.5, 0.25})
	tables, err := q.AllActionsValues(states, horizons, nil, nil)
	require.NoError(t, err)

	// Every logit of a row equals the sum of the row plus the bias
	move, ok := tables.Get("move")
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, []int(move.Shape()))
	assert.Equal(t, []float64{4, 4, 4, 1.75, 1.75, 1.75},
		move.Data().([]float64))

	jump, ok := tables.Get("jump")
	require.True(t, ok)
	assert.Equal(t, []int{2, 2}, []int(jump.Shape()))
	assert.Equal(t, []float64{4, 4, 1.75, 1.75},
		jump.Data().([]float64))
}

func TestAllActionsValuesMasksInvalidChoices(t *testing.T) {
	q := moveJumpQMLP(t, 2)
	defer q.Close()

	auxiliaries := spec.NewTensorDict()
	auxiliaries.Add("move_mask", tensor.New(tensor.WithShape(2, 3),
		tensor.WithBacking([]bool{false, true, true, true, false, true})))

	states, horizons := qmlpArgs(2, []float64{1, 2, 0.5, 0.25})
	tables, err := q.AllActionsValues(states, horizons, nil, auxiliaries)
	require.NoError(t, err)

	move, _ := tables.Get("move")
	values := move.Data().([]float64)
	assert.True(t, math.IsInf(values[0], -1))
	assert.True(t, math.IsInf(values[4], -1))
	assert.Equal(t, 4.0, values[1])
	assert.Equal(t, 1.75, values[5])

	// The unmasked component is untouched
	jump, _ := tables.Get("jump")
	assert.Equal(t, []float64{4, 4, 1.75, 1.75},
		jump.Data().([]float64))
}

func TestStatesValueWidthAndValues(t *testing.T) {
	q := moveJumpQMLP(t, 2)
	defer q.Close()

	states, horizons := qmlpArgs(2, []float64{1, 2, 0.5, 0.25})
	value, err := q.StatesValue(states, horizons, nil, nil)
	require.NoError(t, err)

	// One entry per action component element, not per choice
	assert.Equal(t, []int{2, 2}, []int(value.Shape()))
	assert.Equal(t, []float64{4, 4, 1.75, 1.75},
		value.Data().([]float64))
}

func TestGreedyActionsValueMatchesStatesValue(t *testing.T) {
	q := moveJumpQMLP(t, 2)
	defer q.Close()

	states, horizons := qmlpArgs(2, []float64{1, 2, 0.5, 0.25})
	tables, err := q.AllActionsValues(states, horizons, nil, nil)
	require.NoError(t, err)

	greedy, err := q.GreedyActions(tables)
	require.NoError(t, err)

	chosen, err := q.ActionsValue(states, horizons, nil, nil, greedy)
	require.NoError(t, err)
	best, err := q.StatesValue(states, horizons, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, best.Data().([]float64), chosen.Data().([]float64))
}

func TestActGreedyWhenEpsilonZero(t *testing.T) {
	q := moveJumpQMLP(t, 2)
	defer q.Close()

	states, horizons := qmlpArgs(2, []float64{1, 2, 0.5, 0.25})
	actions, err := q.Act(states, horizons, nil, nil)
	require.NoError(t, err)

	tables, err := q.AllActionsValues(states, horizons, nil, nil)
	require.NoError(t, err)
	greedy, err := q.GreedyActions(tables)
	require.NoError(t, err)

	move, _ := actions.Get("move")
	greedyMove, _ := greedy.Get("move")
	assert.Equal(t, greedyMove.Data().([]int), move.Data().([]int))

	jump, _ := actions.Get("jump")
	greedyJump, _ := greedy.Get("jump")
	assert.Equal(t, greedyJump.Data().([]bool), jump.Data().([]bool))
}

func TestQMLPIsAValuePolicy(t *testing.T) {
	q := moveJumpQMLP(t, 1)
	defer q.Close()

	var _ agent.ValuePolicy = q
}

func TestStatesValueOverBufferedWindow(t *testing.T) {
	buf, err := horizon.New(2, 4, 2)
	require.NoError(t, err)
	require.NoError(t, buf.Store([]float64{1, 2}))
	require.NoError(t, buf.Store([]float64{0.5, 0.25}))

	obs, horizons, err := buf.Horizons()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1, 1}, horizons.Data().([]int))

	q := moveJumpQMLP(t, buf.Len())
	defer q.Close()

	states := spec.NewTensorDict()
	states.Add("obs", obs)

	// The buffered window is exactly the (states, horizons) argument
	// pair of the value operations
	value, err := q.StatesValue(states, horizons, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4, 1.75, 1.75},
		value.Data().([]float64))
}

func TestRunRejectsMalformedArguments(t *testing.T) {
	q := moveJumpQMLP(t, 2)
	defer q.Close()

	states, _ := qmlpArgs(2, []float64{1, 2, 0.5, 0.25})

	// Horizons with the wrong batch
	badBatch := tensor.New(tensor.WithShape(3, 2),
		tensor.WithBacking(make([]int, 6)))
	_, err := q.StatesValue(states, badBatch, nil, nil)
	assert.Error(t, err)

	// Horizons with the wrong dtype
	badType := tensor.New(tensor.WithShape(2, 2),
		tensor.WithBacking(make([]float64, 4)))
	_, err = q.StatesValue(states, badType, nil, nil)
	assert.Error(t, err)

	// Missing state component
	_, horizons := qmlpArgs(2, []float64{1, 2, 0.5, 0.25})
	_, err = q.StatesValue(spec.NewTensorDict(), horizons, nil, nil)
	assert.Error(t, err)
}
