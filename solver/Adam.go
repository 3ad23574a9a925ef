package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// AdamConfig describes a configuration of the Adam solver
type AdamConfig struct {
	StepSize float64
	Epsilon  float64 // Smoothing factor
	Beta1    float64
	Beta2    float64
	Batch    int
}

// NewDefaultAdam returns a new Adam solver with default
// hyperparameters
func NewDefaultAdam(stepSize float64, batchSize int) (*Solver, error) {
	return NewAdam(stepSize, 1e-8, 0.9, 0.999, batchSize)
}

// NewAdam returns a new Adam solver. The step size and smoothing
// factor must be positive, each decay rate must lie in [0, 1), and the
// batch size must be at least one.
func NewAdam(stepSize, epsilon, beta1, beta2 float64,
	batchSize int) (*Solver, error) {
	if stepSize <= 0 {
		return nil, fmt.Errorf("newadam: illegal step size "+
			"\n\twant(> 0) \n\thave(%v)", stepSize)
	}
	if epsilon <= 0 {
		return nil, fmt.Errorf("newadam: illegal smoothing factor "+
			"\n\twant(> 0) \n\thave(%v)", epsilon)
	}
	if beta1 < 0 || beta1 >= 1 || beta2 < 0 || beta2 >= 1 {
		return nil, fmt.Errorf("newadam: illegal decay rates "+
			"\n\twant(in [0, 1)) \n\thave(%v, %v)", beta1, beta2)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("newadam: illegal batch size "+
			"\n\twant(>= 1) \n\thave(%v)", batchSize)
	}

	return newSolver(Adam, AdamConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
		Batch:    batchSize,
	})
}

// Create returns the Gorgonia Solver that the AdamConfig describes
func (a AdamConfig) Create() G.Solver {
	return G.NewAdamSolver(
		G.WithLearnRate(a.StepSize),
		G.WithEps(a.Epsilon),
		G.WithBeta1(a.Beta1),
		G.WithBeta2(a.Beta2),
		G.WithBatchSize(float64(a.Batch)),
	)
}

// ValidType returns whether the argument Solver type can be created
// with the AdamConfig
func (a AdamConfig) ValidType(t Type) bool {
	return t == Adam
}
