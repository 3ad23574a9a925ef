package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// RMSPropConfig describes a configuration of the RMSProp solver
type RMSPropConfig struct {
	StepSize float64
	Epsilon  float64
	Eta      float64 // Gorgonia supports only the default of 0.001
	Rho      float64
	Batch    int
	Clip     float64 // <= 0 disables gradient clipping
}

// NewDefaultRMSProp returns a new RMSProp solver with default
// hyperparameters
func NewDefaultRMSProp(stepSize float64, batchSize int) (*Solver, error) {
	return NewRMSProp(stepSize, 1e-8, 0.001, 0.999, batchSize, -1.0)
}

// NewRMSProp returns a new RMSProp solver. The step size and smoothing
// factor must be positive and the batch size at least one. Gorgonia
// does not expose η, so only its default value of 0.001 is accepted.
func NewRMSProp(stepSize, epsilon, eta, rho float64, batchSize int,
	clip float64) (*Solver, error) {
	if stepSize <= 0 {
		return nil, fmt.Errorf("newrmsprop: illegal step size "+
			"\n\twant(> 0) \n\thave(%v)", stepSize)
	}
	if epsilon <= 0 {
		return nil, fmt.Errorf("newrmsprop: illegal smoothing factor "+
			"\n\twant(> 0) \n\thave(%v)", epsilon)
	}
	if eta != 0.001 {
		return nil, fmt.Errorf("newrmsprop: illegal η "+
			"\n\twant(0.001) \n\thave(%v)", eta)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("newrmsprop: illegal batch size "+
			"\n\twant(>= 1) \n\thave(%v)", batchSize)
	}

	return newSolver(RMSProp, RMSPropConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Eta:      eta,
		Rho:      rho,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// Create returns the Gorgonia Solver that the RMSPropConfig describes
func (r RMSPropConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(r.StepSize),
		G.WithEps(r.Epsilon),
		G.WithRho(r.Rho),
		G.WithBatchSize(float64(r.Batch)),
	}
	if r.Clip > 0 {
		opts = append(opts, G.WithClip(r.Clip))
	}
	return G.NewRMSPropSolver(opts...)
}

// ValidType returns whether the argument Solver type can be created
// with the RMSPropConfig
func (r RMSPropConfig) ValidType(t Type) bool {
	return t == RMSProp
}
