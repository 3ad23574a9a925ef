// Package qvalue implements a concrete value estimator for composite
// action spaces using a feedforward neural network. One network maps
// the flattened state observation to a contiguous block of value
// logits per action component; each component's distribution turns its
// block into a per-choice value table.
package qvalue

import (
	"fmt"

	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/goforce/network"
)

// Config implements the configuration of a QMLP
type Config struct {
	HiddenSizes []int                 // Layer sizes in neural net
	Biases      []bool                // Whether each layer should have a bias
	Activations []*network.Activation // Activation of each layer

	// Initialization algorithm for weights
	InitWFn G.InitWFn

	Epsilon float64 // ε for ε-greedy action sampling
}

// Validate checks whether or not the Config is valid, returning an
// error if not.
func (c Config) Validate() error {
	if len(c.HiddenSizes) != len(c.Biases) {
		return fmt.Errorf("validate: invalid number of biases"+
			"\n\twant(%v)\n\thave(%v)", len(c.HiddenSizes), len(c.Biases))
	}
	if len(c.HiddenSizes) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.HiddenSizes),
			len(c.Activations))
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight initialization " +
			"algorithm given")
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon out of range"+
			"\n\twant(0 <= ε <= 1)\n\thave(%v)", c.Epsilon)
	}
	return nil
}
