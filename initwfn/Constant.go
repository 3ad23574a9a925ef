package initwfn

import G "gorgonia.org/gorgonia"

// ZeroesConfig describes a weight initializer that sets every weight
// to 0
type ZeroesConfig struct{}

// NewZeroes returns a new weight initializer that sets every weight
// to 0
func NewZeroes() (*InitWFn, error) {
	return newInitWFn(ZeroesConfig{})
}

// Type returns the type of the weight initializer that the
// configuration describes
func (z ZeroesConfig) Type() Type {
	return Zeroes
}

// Create returns the Gorgonia InitWFn that the configuration describes
func (z ZeroesConfig) Create() G.InitWFn {
	return G.Zeroes()
}

// OnesConfig describes a weight initializer that sets every weight
// to 1
type OnesConfig struct{}

// NewOnes returns a new weight initializer that sets every weight to 1
func NewOnes() (*InitWFn, error) {
	return newInitWFn(OnesConfig{})
}

// Type returns the type of the weight initializer that the
// configuration describes
func (o OnesConfig) Type() Type {
	return Ones
}

// Create returns the Gorgonia InitWFn that the configuration describes
func (o OnesConfig) Create() G.InitWFn {
	return G.Ones()
}

// ConstantConfig describes a weight initializer that sets every weight
// to a fixed value
type ConstantConfig struct {
	Value float64
}

// NewConstant returns a new weight initializer that sets every weight
// to the argument value
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{Value: value})
}

// Type returns the type of the weight initializer that the
// configuration describes
func (c ConstantConfig) Type() Type {
	return Constant
}

// Create returns the Gorgonia InitWFn that the configuration describes
func (c ConstantConfig) Create() G.InitWFn {
	return G.ValuesOf(c.Value)
}
