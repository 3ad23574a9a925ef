package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// UniformConfig describes a weight initializer that draws every weight
// uniformly from the interval [Low, High)
type UniformConfig struct {
	Low  float64
	High float64
}

// NewUniform returns a new weight initializer drawing weights
// uniformly from [low, high). The interval must be non-empty.
func NewUniform(low, high float64) (*InitWFn, error) {
	if low >= high {
		return nil, fmt.Errorf("newuniform: illegal interval "+
			"\n\twant(low < high) \n\thave([%v, %v))", low, high)
	}

	return newInitWFn(UniformConfig{Low: low, High: high})
}

// Type returns the type of the weight initializer that the
// configuration describes
func (u UniformConfig) Type() Type {
	return Uniform
}

// Create returns the Gorgonia InitWFn that the configuration describes
func (u UniformConfig) Create() G.InitWFn {
	return G.Uniform(u.Low, u.High)
}
