package qvalue

import (
	"fmt"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/distribution"
	"github.com/samuelfneumann/goforce/network"
	"github.com/samuelfneumann/goforce/policy"
	"github.com/samuelfneumann/goforce/spec"
)

// maskSuffix is the auxiliary component name suffix under which an
// action component's mask of valid choices is looked up.
const maskSuffix = "_mask"

// QMLP implements a value-based policy over a composite action space
// using a feedforward MLP. The network consumes the flattened state
// observation and produces, per action component, a flat block of
// value logits; the component's distribution reshapes the block into
// the per-choice value table.
//
// A QMLP is a feedforward estimator: recurrent internals are accepted
// and passed through untouched, and horizons are validated but carry
// no temporal aggregation here.
type QMLP struct {
	*policy.ActionValue

	net network.ValueNet
	vm  G.VM

	order     []string // Action components, in actions spec order
	batchSize int
	epsilon   float64
}

// New creates and returns a new QMLP over the argument specifications
// with one distribution per action component. Every state component
// must be of type float; states are flattened and concatenated in
// states spec order into the network input. The batch parameter fixes
// the number of examples the QMLP consumes per call.
func New(states, actions, internals, auxiliaries *spec.Dict,
	distributions map[string]distribution.Distribution, batch int,
	config Config) (*QMLP, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if batch < 1 {
		return nil, fmt.Errorf("new: illegal batch size "+
			"\n\twant(>= 1) \n\thave(%v)", batch)
	}

	base, err := policy.NewBase(states, actions, internals, auxiliaries,
		distributions)
	if err != nil {
		return nil, fmt.Errorf("new: could not create policy: %v", err)
	}

	for _, name := range states.Keys() {
		s, _ := states.Get(name)
		if s.Type() != spec.Float {
			return nil, fmt.Errorf("new: state component %q must be "+
				"of type float \n\thave(%v)", name, s.Type())
		}
	}

	// One output block per action component, laid out in actions spec
	// order
	order := actions.Keys()
	blocks := make([]int, len(order))
	for i, name := range order {
		blocks[i] = distributions[name].LogitsSize()
	}

	g := G.NewGraph()
	net, err := network.NewValueMLP(states.TotalSize(), batch, blocks, g,
		config.HiddenSizes, config.Biases, config.InitWFn,
		config.Activations)
	if err != nil {
		return nil, fmt.Errorf("new: could not create network: %v", err)
	}

	q := &QMLP{
		net:       net,
		vm:        G.NewTapeMachine(g),
		order:     order,
		batchSize: batch,
		epsilon:   config.Epsilon,
	}
	q.ActionValue, err = policy.NewActionValue(base, q)
	if err != nil {
		return nil, fmt.Errorf("new: could not create policy: %v", err)
	}

	return q, nil
}

// BatchSize returns the number of examples the QMLP consumes per call
func (q *QMLP) BatchSize() int {
	return q.batchSize
}

// Network returns the neural network function approximator that the
// QMLP uses.
func (q *QMLP) Network() network.NeuralNet {
	return q.net
}

// Close stops the VM of the QMLP's computational graph
func (q *QMLP) Close() error {
	return q.vm.Close()
}

// AllActionsValues returns, per action component, the value of every
// available choice for that component in the argument states. If the
// auxiliaries hold a bool tensor under "<component>_mask", choices
// masked false are excluded by setting their value to -Inf.
func (q *QMLP) AllActionsValues(states *spec.TensorDict,
	horizons *tensor.Dense, internals,
	auxiliaries *spec.TensorDict) (*spec.TensorDict, error) {
	if err := q.run(states, horizons); err != nil {
		return nil, errors.Wrap(err, "allactionsvalues")
	}

	output, ok := q.net.Output().Data().([]float64)
	if !ok {
		return nil, errors.New("allactionsvalues: network output is " +
			"not of type float")
	}
	q.vm.Reset()

	width := q.net.Outputs()
	values := spec.NewTensorDict()
	offset := 0
	for i, name := range q.order {
		dist, _ := q.Distribution(name)
		blockWidth := q.net.Blocks()[i]

		// Gather this component's block from each example's output row
		logits := make([]float64, q.batchSize*blockWidth)
		for b := 0; b < q.batchSize; b++ {
			row := output[b*width : (b+1)*width]
			copy(logits[b*blockWidth:(b+1)*blockWidth],
				row[offset:offset+blockWidth])
		}
		offset += blockWidth

		logitsTensor := tensor.New(
			tensor.WithShape(q.batchSize, blockWidth),
			tensor.WithBacking(logits),
		)

		var mask *tensor.Dense
		if auxiliaries != nil {
			if m, ok := auxiliaries.Get(name + maskSuffix); ok {
				mask = m
			}
		}

		table, err := dist.AllActionValues(logitsTensor, mask)
		if err != nil {
			return nil, errors.Wrapf(err, "allactionsvalues: "+
				"component %q", name)
		}
		values.Add(name, table)
	}

	return values, nil
}

// ActionsValues returns, per action component, the value of taking the
// argument joint action in the argument states, shaped per that
// component's specification.
func (q *QMLP) ActionsValues(states *spec.TensorDict,
	horizons *tensor.Dense, internals, auxiliaries,
	actions *spec.TensorDict) (*spec.TensorDict, error) {
	tables, err := q.AllActionsValues(states, horizons, internals,
		auxiliaries)
	if err != nil {
		return nil, errors.Wrap(err, "actionsvalues")
	}

	values := spec.NewTensorDict()
	for _, name := range q.order {
		table, _ := tables.Get(name)
		action, ok := actions.Get(name)
		if !ok {
			return nil, errors.Errorf("actionsvalues: no action given "+
				"for component %q", name)
		}

		dist, _ := q.Distribution(name)
		value, err := dist.ActionValues(table, action)
		if err != nil {
			return nil, errors.Wrapf(err, "actionsvalues: component %q",
				name)
		}
		values.Add(name, value)
	}

	return values, nil
}

// Act returns one action per action component, sampled ε-greedily from
// the current value estimate with the ε fixed at construction time.
// With ε = 0 the returned action is the greedy action.
func (q *QMLP) Act(states *spec.TensorDict, horizons *tensor.Dense,
	internals, auxiliaries *spec.TensorDict) (*spec.TensorDict, error) {
	tables, err := q.AllActionsValues(states, horizons, internals,
		auxiliaries)
	if err != nil {
		return nil, errors.Wrap(err, "act")
	}

	actions := spec.NewTensorDict()
	for _, name := range q.order {
		table, _ := tables.Get(name)
		dist, _ := q.Distribution(name)

		action, err := dist.Sample(table, q.epsilon)
		if err != nil {
			return nil, errors.Wrapf(err, "act: component %q", name)
		}
		actions.Add(name, action)
	}

	return actions, nil
}

// GreedyActions returns the greedy action per component under the
// argument value tables.
func (q *QMLP) GreedyActions(tables *spec.TensorDict) (*spec.TensorDict,
	error) {
	actions := spec.NewTensorDict()
	for _, name := range q.order {
		table, ok := tables.Get(name)
		if !ok {
			return nil, errors.Errorf("greedyactions: no value table "+
				"for component %q", name)
		}

		dist, _ := q.Distribution(name)
		action, err := dist.Mode(table)
		if err != nil {
			return nil, errors.Wrapf(err, "greedyactions: component %q",
				name)
		}
		actions.Add(name, action)
	}
	return actions, nil
}

// run validates the horizons, flattens the argument states into the
// network input, and executes the network's graph.
func (q *QMLP) run(states *spec.TensorDict, horizons *tensor.Dense) error {
	horizonsSig := policy.HorizonsSpec().Signature(true)
	if err := horizonsSig.Check(horizons); err != nil {
		return errors.Wrap(err, "run: horizons")
	}
	if horizons.Shape()[0] != q.batchSize {
		return errors.Errorf("run: illegal horizons batch "+
			"\n\twant(%v) \n\thave(%v)", q.batchSize, horizons.Shape()[0])
	}

	input, err := q.flattenStates(states)
	if err != nil {
		return errors.Wrap(err, "run")
	}
	if err := q.net.SetInput(input); err != nil {
		return errors.Wrap(err, "run: could not set network input")
	}
	if err := q.vm.RunAll(); err != nil {
		return errors.Wrap(err, "run: could not run network")
	}
	return nil
}

// flattenStates concatenates every state component in states spec
// order into one flat float64 row per batch example.
func (q *QMLP) flattenStates(states *spec.TensorDict) ([]float64, error) {
	features := q.StatesSpec().TotalSize()
	input := make([]float64, q.batchSize*features)

	offset := 0
	for _, name := range q.StatesSpec().Keys() {
		s, _ := q.StatesSpec().Get(name)
		size := s.Size()

		value, ok := states.Get(name)
		if !ok {
			return nil, errors.Errorf("flattenstates: no state given "+
				"for component %q", name)
		}
		if err := s.Signature(true).Check(value); err != nil {
			return nil, errors.Wrapf(err, "flattenstates: component %q",
				name)
		}
		if value.Shape()[0] != q.batchSize {
			return nil, errors.Errorf("flattenstates: illegal batch "+
				"for component %q \n\twant(%v) \n\thave(%v)", name,
				q.batchSize, value.Shape()[0])
		}

		data := value.Data().([]float64)
		for b := 0; b < q.batchSize; b++ {
			copy(input[b*features+offset:b*features+offset+size],
				data[b*size:(b+1)*size])
		}
		offset += size
	}

	return input, nil
}
