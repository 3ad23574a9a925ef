package qlearner

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/distribution"
	"github.com/samuelfneumann/goforce/expreplay"
	"github.com/samuelfneumann/goforce/network"
	"github.com/samuelfneumann/goforce/policy/qvalue"
	"github.com/samuelfneumann/goforce/spec"
	ts "github.com/samuelfneumann/goforce/timestep"
	"github.com/samuelfneumann/goforce/utils/tensorutils"
)

// QLearner implements deep Q-learning over a composite action space.
//
// Actions are selected by a QMLP behaviour policy. Weights are learned
// on a separate training network consuming minibatches from an
// experience replay buffer; a target network provides the update
// target of each action component:
//
//	Q_c(s, a_c) <- r + γ * max[Q'_c(s', b)]
//
// where Q'_c is the target network's value table of component c. The
// loss is the squared temporal-difference error summed over components
// and averaged over the minibatch.
type QLearner struct {
	policy *qvalue.QMLP // Behaviour ε-greedy policy

	// Network whose weights are adapted
	trainNet   network.ValueNet
	trainNetVM G.VM
	solver     G.Solver

	// Network providing the update target
	targetNet   network.NeuralNet
	targetNetVM G.VM

	// Target network update schedule
	tau                  float64
	targetUpdateInterval int
	gradientSteps        int

	// Input nodes of the training graph
	selectedActions       *G.Node // One-hot selections of taken actions
	nextStateActionValues *G.Node
	rewards               *G.Node
	discounts             *G.Node

	replay expreplay.ExperienceReplayer

	// Most recently observed timestep, the starting state of the next
	// transition
	prevStep ts.TimeStep

	order     []string
	batchSize int
	eval      bool
}

// New creates and returns a new QLearner over the argument
// specifications with one distribution per action component.
func New(states, actions, internals, auxiliaries *spec.Dict,
	distributions map[string]distribution.Distribution, config Config,
	seed uint64) (*QLearner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Behaviour policy selects one action at a time
	behaviour, err := qvalue.New(states, actions, internals, auxiliaries,
		distributions, 1, qvalue.Config{
			HiddenSizes: config.PolicyLayers,
			Biases:      config.Biases,
			Activations: config.Activations,
			InitWFn:     config.InitWFn.InitWFn(),
			Epsilon:     config.Epsilon,
		})
	if err != nil {
		return nil, fmt.Errorf("new: could not create behaviour "+
			"policy: %v", err)
	}

	batch := config.BatchSize
	trainClone, err := behaviour.Network().CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("new: could not create learning "+
			"network: %v", err)
	}
	trainNet := trainClone.(network.ValueNet)

	targetNet, err := behaviour.Network().CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("new: could not create target "+
			"network: %v", err)
	}
	targetNetVM := G.NewTapeMachine(targetNet.Graph())

	q := &QLearner{
		policy:               behaviour,
		trainNet:             trainNet,
		solver:               config.Solver.Solver,
		targetNet:            targetNet,
		targetNetVM:          targetNetVM,
		tau:                  config.Tau,
		targetUpdateInterval: config.TargetUpdateInterval,
		order:                actions.Keys(),
		batchSize:            batch,
	}
	if err := q.buildLoss(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	q.trainNetVM = G.NewTapeMachine(
		trainNet.Graph(),
		G.BindDualValues(trainNet.Learnables()...),
	)

	q.replay, err = expreplay.New(config.MinReplayCapacity,
		config.ReplayCapacity, states.TotalSize(), trainNet.Outputs(),
		batch, seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create experience "+
			"replay buffer: %v", err)
	}

	return q, nil
}

// buildLoss adds the temporal-difference loss to the training
// network's graph. The loss of a minibatch is the squared TD error of
// each action component, summed over components and averaged over the
// batch.
func (q *QLearner) buildLoss() error {
	g := q.trainNet.Graph()
	outputs := q.trainNet.Outputs()

	q.nextStateActionValues = G.NewMatrix(g, tensor.Float64,
		G.WithShape(q.batchSize, outputs), G.WithName("targetActionVals"))
	q.selectedActions = G.NewMatrix(g, tensor.Float64,
		G.WithShape(q.batchSize, outputs), G.WithName("actionSelected"))
	q.rewards = G.NewVector(g, tensor.Float64,
		G.WithShape(q.batchSize), G.WithName("reward"))
	q.discounts = G.NewVector(g, tensor.Float64,
		G.WithShape(q.batchSize), G.WithName("discount"))

	// Values of the actions that were taken
	chosen := G.Must(G.HadamardProd(q.trainNet.Prediction(),
		q.selectedActions))

	var losses *G.Node
	start := 0
	for _, width := range q.trainNet.Blocks() {
		block := tensorutils.NewSlice(start, start+width, 1)
		start += width

		// Update target of this component: r + γ * max[Q'(s', b)]
		next := G.Must(G.Slice(q.nextStateActionValues, nil, block))
		target := G.Must(G.Max(next, 1))
		target = G.Must(G.HadamardProd(target, q.discounts))
		target = G.Must(G.Add(target, q.rewards))

		value := G.Must(G.Sum(G.Must(G.Slice(chosen, nil, block)), 1))

		loss := G.Must(G.Square(G.Must(G.Sub(target, value))))
		if losses == nil {
			losses = loss
		} else {
			losses = G.Must(G.Add(losses, loss))
		}
	}

	cost := G.Must(G.Mean(losses))
	if _, err := G.Grad(cost, q.trainNet.Learnables()...); err != nil {
		return fmt.Errorf("buildloss: could not compute gradient: %v", err)
	}
	return nil
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "Warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)",
			t.Number)
	}
	q.prevStep = t
	return nil
}

// Observe observes and records any timestep other than the first
// timestep. The joint action taken at the previously observed timestep
// and the outcome recorded in nextStep complete a transition, which is
// added to the replay buffer.
func (q *QLearner) Observe(actions *spec.TensorDict,
	nextStep ts.TimeStep) error {
	transition := ts.NewTransition(q.prevStep, actions, nextStep)
	if err := q.addTransition(transition); err != nil {
		return errors.Wrap(err, "observe")
	}

	q.prevStep = nextStep
	return nil
}

// addTransition flattens a transition into the replay buffer, encoding
// the joint action as a one-hot selection vector over the network
// output row.
func (q *QLearner) addTransition(transition ts.Transition) error {
	selections, err := q.oneHot(transition.Actions)
	if err != nil {
		return err
	}
	return q.replay.Add(flatVec(transition.State), selections,
		transition.Reward, transition.Discount,
		flatVec(transition.NextState))
}

// Step updates the weights of the training network from a minibatch of
// replayed transitions, then updates the target network on its
// schedule and copies the new weights into the behaviour policy.
func (q *QLearner) Step() error {
	states, selections, rewards, discounts, nextStates, err :=
		q.replay.Sample()
	if expreplay.IsEmptyBuffer(err) ||
		expreplay.IsInsufficientSamples(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "step")
	}

	outputs := q.trainNet.Outputs()
	err = G.Let(q.selectedActions, tensor.New(
		tensor.WithShape(q.batchSize, outputs),
		tensor.WithBacking(selections),
	))
	if err != nil {
		return errors.Wrap(err, "step: could not set selected actions")
	}

	if err := q.trainNet.SetInput(states); err != nil {
		return errors.Wrap(err, "step: could not set trainNet input")
	}
	if err := q.targetNet.SetInput(nextStates); err != nil {
		return errors.Wrap(err, "step: could not set target net input")
	}

	// Compute the next state-action values
	if err := q.targetNetVM.RunAll(); err != nil {
		return errors.Wrap(err, "step: could not run target net")
	}
	err = G.Let(q.nextStateActionValues, q.targetNet.Output())
	if err != nil {
		return errors.Wrap(err, "step: could not set next state-action "+
			"values")
	}
	q.targetNetVM.Reset()

	err = G.Let(q.rewards, tensor.New(tensor.WithShape(q.batchSize),
		tensor.WithBacking(rewards)))
	if err != nil {
		return errors.Wrap(err, "step: could not set rewards")
	}
	err = G.Let(q.discounts, tensor.New(tensor.WithShape(q.batchSize),
		tensor.WithBacking(discounts)))
	if err != nil {
		return errors.Wrap(err, "step: could not set discounts")
	}

	// Run the learning step
	if err := q.trainNetVM.RunAll(); err != nil {
		return errors.Wrap(err, "step: could not run learning step")
	}
	if err := q.solver.Step(q.trainNet.Model()); err != nil {
		return errors.Wrap(err, "step: could not adapt weights")
	}
	q.trainNetVM.Reset()
	q.gradientSteps++

	// Update the target network by moving its weights towards the
	// newly learned weights
	if q.gradientSteps%q.targetUpdateInterval == 0 {
		if q.tau == 1.0 {
			err = q.targetNet.Set(q.trainNet)
		} else {
			err = q.targetNet.Polyak(q.trainNet, q.tau)
		}
		if err != nil {
			return errors.Wrap(err, "step: could not update target net")
		}
	}

	if err := q.policy.Network().Set(q.trainNet); err != nil {
		return errors.Wrap(err, "step: could not update behaviour policy")
	}
	return nil
}

// Act returns one action per action component for the argument state.
// In training mode actions are sampled ε-greedily; in evaluation mode
// the greedy action is returned.
func (q *QLearner) Act(states *spec.TensorDict, horizons *tensor.Dense,
	internals, auxiliaries *spec.TensorDict) (*spec.TensorDict, error) {
	if !q.eval {
		return q.policy.Act(states, horizons, internals, auxiliaries)
	}

	tables, err := q.policy.AllActionsValues(states, horizons, internals,
		auxiliaries)
	if err != nil {
		return nil, errors.Wrap(err, "act")
	}
	return q.policy.GreedyActions(tables)
}

// EndEpisode performs cleanup at the end of an episode
func (q *QLearner) EndEpisode() {}

// Eval sets the agent into evaluation mode
func (q *QLearner) Eval() { q.eval = true }

// Train sets the agent into training mode
func (q *QLearner) Train() { q.eval = false }

// IsEval returns whether the agent is in evaluation mode
func (q *QLearner) IsEval() bool { return q.eval }

// Policy returns the behaviour policy of the QLearner
func (q *QLearner) Policy() *qvalue.QMLP {
	return q.policy
}

// BatchSize returns the number of transitions per gradient step
func (q *QLearner) BatchSize() int {
	return q.batchSize
}

// Close stops the VMs of the QLearner's computational graphs
func (q *QLearner) Close() error {
	if err := q.trainNetVM.Close(); err != nil {
		return err
	}
	if err := q.targetNetVM.Close(); err != nil {
		return err
	}
	return q.policy.Close()
}

// oneHot encodes a joint action as a flat selection vector over the
// network output row: one one-hot block of numValues entries per
// element of each action component, laid out in component order.
func (q *QLearner) oneHot(actions *spec.TensorDict) ([]float64, error) {
	selections := make([]float64, q.trainNet.Outputs())

	offset := 0
	for _, name := range q.order {
		dist, _ := q.policy.Distribution(name)
		numValues := dist.NumValues()
		width := dist.LogitsSize()

		action, ok := actions.Get(name)
		if !ok {
			return nil, errors.Errorf("onehot: no action given for "+
				"component %q", name)
		}
		choices, err := choiceIndices(action)
		if err != nil {
			return nil, errors.Wrapf(err, "onehot: component %q", name)
		}
		if len(choices)*numValues != width {
			return nil, errors.Errorf("onehot: illegal number of "+
				"sub-actions for component %q \n\twant(%v) \n\thave(%v)",
				name, width/numValues, len(choices))
		}

		for e, choice := range choices {
			if choice < 0 || choice >= numValues {
				return nil, errors.Errorf("onehot: sub-action out of "+
					"range for component %q \n\twant(< %v) \n\thave(%v)",
					name, numValues, choice)
			}
			selections[offset+e*numValues+choice] = 1.0
		}
		offset += width
	}

	return selections, nil
}

// choiceIndices returns the flat choice index of every element of a
// single action component tensor.
func choiceIndices(t *tensor.Dense) ([]int, error) {
	switch data := t.Data().(type) {
	case []int:
		choices := make([]int, len(data))
		copy(choices, data)
		return choices, nil
	case int:
		return []int{data}, nil
	case []bool:
		choices := make([]int, len(data))
		for i, b := range data {
			if b {
				choices[i] = 1
			}
		}
		return choices, nil
	case bool:
		if data {
			return []int{1}, nil
		}
		return []int{0}, nil
	default:
		return nil, errors.Errorf("choiceindices: illegal action dtype "+
			"%v", t.Dtype())
	}
}

// flatVec copies a gonum vector into a flat float64 slice
func flatVec(v mat.Vector) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
