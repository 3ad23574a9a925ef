// Package qlearner implements deep Q-learning over composite action
// spaces. The learner adapts the weights of a value network by
// minimizing the squared temporal-difference error of every action
// component, using an experience replay buffer and a target network to
// provide update targets.
package qlearner

import (
	"fmt"

	"github.com/samuelfneumann/goforce/initwfn"
	"github.com/samuelfneumann/goforce/network"
	"github.com/samuelfneumann/goforce/solver"
)

// Config implements a configuration of a QLearner
type Config struct {
	PolicyLayers []int                 // Hidden layer sizes in the value net
	Biases       []bool                // Whether each hidden layer has a bias
	Activations  []*network.Activation // Activation of each hidden layer

	InitWFn *initwfn.InitWFn // Weight initialization
	Solver  *solver.Solver   // Weight update rule

	Epsilon float64 // ε for the ε-greedy behaviour policy

	// Target network update schedule
	Tau                  float64 // Polyak averaging constant
	TargetUpdateInterval int     // Gradient steps between target updates

	// Experience replay
	ReplayCapacity    int // Maximum transitions stored
	MinReplayCapacity int // Transitions required before updating
	BatchSize         int // Transitions per gradient step
}

// Validate checks whether or not the Config is valid, returning an
// error if not.
func (c Config) Validate() error {
	if len(c.PolicyLayers) != len(c.Biases) {
		return fmt.Errorf("validate: invalid number of biases"+
			"\n\twant(%v)\n\thave(%v)", len(c.PolicyLayers), len(c.Biases))
	}
	if len(c.PolicyLayers) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.PolicyLayers),
			len(c.Activations))
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight initialization " +
			"algorithm given")
	}
	if c.Solver == nil {
		return fmt.Errorf("validate: no solver given")
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon out of range"+
			"\n\twant(0 <= ε <= 1)\n\thave(%v)", c.Epsilon)
	}
	if c.Tau <= 0 || c.Tau > 1 {
		return fmt.Errorf("validate: tau out of range"+
			"\n\twant(0 < τ <= 1)\n\thave(%v)", c.Tau)
	}
	if c.TargetUpdateInterval < 1 {
		return fmt.Errorf("validate: target update interval must be "+
			"positive \n\thave(%v)", c.TargetUpdateInterval)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("validate: illegal batch size \n\twant(>= 1)"+
			"\n\thave(%v)", c.BatchSize)
	}
	if c.MinReplayCapacity < c.BatchSize {
		return fmt.Errorf("validate: minimum replay capacity must be at "+
			"least the batch size \n\twant(>= %v)\n\thave(%v)", c.BatchSize,
			c.MinReplayCapacity)
	}
	if c.ReplayCapacity < c.MinReplayCapacity {
		return fmt.Errorf("validate: replay capacity must be at least "+
			"the minimum capacity \n\twant(>= %v)\n\thave(%v)",
			c.MinReplayCapacity, c.ReplayCapacity)
	}
	return nil
}
