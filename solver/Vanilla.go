package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// VanillaConfig describes a configuration of the vanilla stochastic
// gradient descent solver.
type VanillaConfig struct {
	StepSize float64
	Batch    int
	Clip     float64 // <= 0 disables gradient clipping
}

// NewVanilla returns a new vanilla stochastic gradient descent solver.
// The step size must be positive and the batch size at least one.
func NewVanilla(stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	if stepSize <= 0 {
		return nil, fmt.Errorf("newvanilla: illegal step size "+
			"\n\twant(> 0) \n\thave(%v)", stepSize)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("newvanilla: illegal batch size "+
			"\n\twant(>= 1) \n\thave(%v)", batchSize)
	}

	return newSolver(Vanilla, VanillaConfig{
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// Create returns the Gorgonia Solver that the VanillaConfig describes
func (v VanillaConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(v.StepSize),
		G.WithBatchSize(float64(v.Batch)),
	}
	if v.Clip > 0 {
		opts = append(opts, G.WithClip(v.Clip))
	}
	return G.NewVanillaSolver(opts...)
}

// ValidType returns whether the argument Solver type can be created
// with the VanillaConfig
func (v VanillaConfig) ValidType(t Type) bool {
	return t == Vanilla
}
