package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// GaussianConfig describes a weight initializer that draws every
// weight from a normal distribution
type GaussianConfig struct {
	Mean   float64
	StdDev float64
}

// NewGaussian returns a new weight initializer drawing weights from a
// normal distribution with the argument mean and standard deviation.
// The standard deviation must be positive.
func NewGaussian(mean, stddev float64) (*InitWFn, error) {
	if stddev <= 0 {
		return nil, fmt.Errorf("newgaussian: illegal standard deviation "+
			"\n\twant(> 0) \n\thave(%v)", stddev)
	}

	return newInitWFn(GaussianConfig{Mean: mean, StdDev: stddev})
}

// Type returns the type of the weight initializer that the
// configuration describes
func (g GaussianConfig) Type() Type {
	return Gaussian
}

// Create returns the Gorgonia InitWFn that the configuration describes
func (g GaussianConfig) Create() G.InitWFn {
	return G.Gaussian(g.Mean, g.StdDev)
}
