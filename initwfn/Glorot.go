package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// GlorotUConfig describes the Glorot uniform weight initialization
// algorithm
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a new Glorot uniform weight initializer with the
// argument gain. The gain must be positive.
func NewGlorotU(gain float64) (*InitWFn, error) {
	if gain <= 0 {
		return nil, fmt.Errorf("newglorotu: illegal gain "+
			"\n\twant(> 0) \n\thave(%v)", gain)
	}

	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type returns the type of the weight initializer that the
// configuration describes
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the Gorgonia InitWFn that the configuration describes
func (g GlorotUConfig) Create() G.InitWFn {
	return G.GlorotU(g.Gain)
}

// GlorotNConfig describes the Glorot normal weight initialization
// algorithm
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a new Glorot normal weight initializer with the
// argument gain. The gain must be positive.
func NewGlorotN(gain float64) (*InitWFn, error) {
	if gain <= 0 {
		return nil, fmt.Errorf("newglorotn: illegal gain "+
			"\n\twant(> 0) \n\thave(%v)", gain)
	}

	return newInitWFn(GlorotNConfig{Gain: gain})
}

// Type returns the type of the weight initializer that the
// configuration describes
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Create returns the Gorgonia InitWFn that the configuration describes
func (g GlorotNConfig) Create() G.InitWFn {
	return G.GlorotN(g.Gain)
}
