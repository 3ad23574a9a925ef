package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// HeUConfig describes the He uniform weight initialization algorithm
type HeUConfig struct {
	Gain float64
}

// NewHeU returns a new He uniform weight initializer with the argument
// gain. The gain must be positive.
func NewHeU(gain float64) (*InitWFn, error) {
	if gain <= 0 {
		return nil, fmt.Errorf("newheu: illegal gain "+
			"\n\twant(> 0) \n\thave(%v)", gain)
	}

	return newInitWFn(HeUConfig{Gain: gain})
}

// Type returns the type of the weight initializer that the
// configuration describes
func (h HeUConfig) Type() Type {
	return HeU
}

// Create returns the Gorgonia InitWFn that the configuration describes
func (h HeUConfig) Create() G.InitWFn {
	return G.HeU(h.Gain)
}

// HeNConfig describes the He normal weight initialization algorithm
type HeNConfig struct {
	Gain float64
}

// NewHeN returns a new He normal weight initializer with the argument
// gain. The gain must be positive.
func NewHeN(gain float64) (*InitWFn, error) {
	if gain <= 0 {
		return nil, fmt.Errorf("newhen: illegal gain "+
			"\n\twant(> 0) \n\thave(%v)", gain)
	}

	return newInitWFn(HeNConfig{Gain: gain})
}

// Type returns the type of the weight initializer that the
// configuration describes
func (h HeNConfig) Type() Type {
	return HeN
}

// Create returns the Gorgonia InitWFn that the configuration describes
func (h HeNConfig) Create() G.InitWFn {
	return G.HeN(h.Gain)
}
