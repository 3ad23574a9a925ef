package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/spec"
)

// Categorical implements a Distribution over an int action component
// where every element of the component chooses one of a fixed number
// of discrete values.
type Categorical struct {
	actionSpec spec.TensorSpec
	numValues  int
	source     rand.Source
}

// NewCategorical creates and returns a new Categorical distribution
// over the argument action component with numValues discrete choices
// per element. The seed is used for ε-greedy sampling only.
func NewCategorical(actionSpec spec.TensorSpec, numValues int,
	seed uint64) (*Categorical, error) {
	if actionSpec.Type() != spec.Int {
		return nil, fmt.Errorf("newcategorical: action component must "+
			"be of type int \n\thave(%v)", actionSpec.Type())
	}
	if numValues < 1 {
		return nil, fmt.Errorf("newcategorical: illegal number of "+
			"values \n\twant(>= 1) \n\thave(%v)", numValues)
	}

	return &Categorical{
		actionSpec: actionSpec,
		numValues:  numValues,
		source:     rand.NewSource(seed),
	}, nil
}

// ActionSpec returns the specification of the action component that
// the Categorical covers
func (c *Categorical) ActionSpec() spec.TensorSpec {
	return c.actionSpec
}

// NumValues returns the number of discrete choices per element of the
// action component
func (c *Categorical) NumValues() int {
	return c.numValues
}

// LogitsSize returns the width of the flat network output block that
// the Categorical consumes per batch example
func (c *Categorical) LogitsSize() int {
	return c.actionSpec.Size() * c.numValues
}

// AllActionValuesSignature returns the signature of the value table
// returned by AllActionValues
func (c *Categorical) AllActionValuesSignature(batched bool) spec.Signature {
	shape := append(c.actionSpec.Shape(), c.numValues)
	if batched {
		shape = append([]int{spec.BatchDim}, shape...)
	}
	return spec.NewSignature(spec.Float, shape...)
}

// AllActionValues converts a flat network output block of shape
// (batch, LogitsSize()) into the value table of shape
// (batch, shape..., NumValues()), masking out invalid choices if a
// mask is given.
func (c *Categorical) AllActionValues(logits,
	mask *tensor.Dense) (*tensor.Dense, error) {
	batch, err := c.batchOf(logits)
	if err != nil {
		return nil, fmt.Errorf("allactionvalues: %v", err)
	}

	data := make([]float64, batch*c.LogitsSize())
	copy(data, logits.Data().([]float64))

	if mask != nil {
		valid, ok := mask.Data().([]bool)
		if !ok || len(valid) != len(data) {
			return nil, fmt.Errorf("allactionvalues: illegal mask "+
				"\n\twant(%v bools) \n\thave(%v)", len(data), mask.Shape())
		}
		for i := range data {
			if !valid[i] {
				data[i] = math.Inf(-1)
			}
		}
	}

	shape := append([]int{batch}, c.actionSpec.Shape()...)
	shape = append(shape, c.numValues)
	return tensor.New(tensor.WithShape(shape...),
		tensor.WithBacking(data)), nil
}

// ActionValues gathers the value of the argument actions from the
// argument value table.
func (c *Categorical) ActionValues(values,
	actions *tensor.Dense) (*tensor.Dense, error) {
	table, ok := values.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("actionvalues: value table must be of " +
			"type float")
	}
	chosen, ok := actions.Data().([]int)
	if !ok {
		return nil, fmt.Errorf("actionvalues: actions must be of type int")
	}
	if len(table) != len(chosen)*c.numValues {
		return nil, fmt.Errorf("actionvalues: illegal value table size "+
			"\n\twant(%v) \n\thave(%v)", len(chosen)*c.numValues, len(table))
	}

	out := make([]float64, len(chosen))
	for i, action := range chosen {
		if action < 0 || action >= c.numValues {
			return nil, fmt.Errorf("actionvalues: illegal action %v "+
				"for element %v \n\twant(0 <= action < %v)", action, i,
				c.numValues)
		}
		out[i] = table[i*c.numValues+action]
	}

	return tensor.New(tensor.WithShape(actions.Shape()...),
		tensor.WithBacking(out)), nil
}

// Mode returns the greedy action under the argument value table. Ties
// resolve to the first maximal choice.
func (c *Categorical) Mode(values *tensor.Dense) (*tensor.Dense, error) {
	table, ok := values.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("mode: value table must be of type float")
	}
	if len(table)%c.numValues != 0 {
		return nil, fmt.Errorf("mode: illegal value table size "+
			"\n\twant(multiple of %v) \n\thave(%v)", c.numValues, len(table))
	}

	elements := len(table) / c.numValues
	out := make([]int, elements)
	for i := 0; i < elements; i++ {
		out[i] = argmax(table[i*c.numValues : (i+1)*c.numValues])
	}

	shape := values.Shape()[:values.Dims()-1]
	return tensor.New(tensor.WithShape(shape...),
		tensor.WithBacking(out)), nil
}

// Sample returns an action drawn ε-greedily from the argument value
// table.
func (c *Categorical) Sample(values *tensor.Dense,
	epsilon float64) (*tensor.Dense, error) {
	greedy, err := c.Mode(values)
	if err != nil {
		return nil, fmt.Errorf("sample: %v", err)
	}

	// Probability of each non-greedy choice, with the remaining
	// probability mass on the greedy choice
	probabilities := make([]float64, c.numValues)
	chosen := greedy.Data().([]int)
	out := make([]int, len(chosen))
	for i, action := range chosen {
		for j := range probabilities {
			probabilities[j] = epsilon / float64(c.numValues)
		}
		probabilities[action] += 1.0 - epsilon

		dist := distuv.NewCategorical(probabilities, c.source)
		out[i] = int(dist.Rand())
	}

	return tensor.New(tensor.WithShape(greedy.Shape()...),
		tensor.WithBacking(out)), nil
}

// batchOf returns the batch dimension of a flat logits tensor,
// validating its layout.
func (c *Categorical) batchOf(logits *tensor.Dense) (int, error) {
	if logits == nil {
		return 0, fmt.Errorf("no logits given")
	}
	if logits.Dims() != 2 || logits.Shape()[1] != c.LogitsSize() {
		return 0, fmt.Errorf("illegal logits shape \n\twant(batch, %v) "+
			"\n\thave(%v)", c.LogitsSize(), logits.Shape())
	}
	return logits.Shape()[0], nil
}

// argmax returns the index of the first maximal value in a slice
func argmax(values []float64) int {
	index := 0
	for i, value := range values {
		if value > values[index] {
			index = i
		}
	}
	return index
}
