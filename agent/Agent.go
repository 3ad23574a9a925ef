// Package agent defines an agent interface
package agent

import (
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/policy"
	"github.com/samuelfneumann/goforce/spec"
	"github.com/samuelfneumann/goforce/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and an
// Actor which chooses a joint action in each state. The Actor chooses
// which actions are taken, and the Learner uses these actions to
// update the Actor.
type Agent interface {
	Learner
	Actor
}

// A Closer is an agent that must be closed after it is done learning
type Closer interface {
	Agent
	Close() error
}

// Learner implements a learning algorithm that defines how weights are
// updated.
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that a joint action lead to some timestep
	Observe(actions *spec.TensorDict, nextStep timestep.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode()
}

// Actor chooses a joint action per state, one sub-action per action
// component.
type Actor interface {
	Act(states *spec.TensorDict, horizons *tensor.Dense, internals,
		auxiliaries *spec.TensorDict) (*spec.TensorDict, error)
	Eval()        // Set actor to evaluation mode
	Train()       // Set actor to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// ValuePolicy is a policy that estimates the value of states and of
// joint actions over a composite action space. Agents use StatesValue
// and ActionsValue to build bootstrap targets, and loss components use
// ActionsValues and StatesValues to build per-component
// temporal-difference errors.
type ValuePolicy interface {
	policy.Policy
	policy.ValueEstimator

	ActionsValue(states *spec.TensorDict, horizons *tensor.Dense,
		internals, auxiliaries, actions *spec.TensorDict) (*tensor.Dense,
		error)
	StatesValue(states *spec.TensorDict, horizons *tensor.Dense,
		internals, auxiliaries *spec.TensorDict) (*tensor.Dense, error)
	StatesValues(states *spec.TensorDict, horizons *tensor.Dense,
		internals, auxiliaries *spec.TensorDict) (*spec.TensorDict, error)
}
