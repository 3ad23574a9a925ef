package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/spec"
)

// bernoulliValues is the number of choices of a binary action element:
// false and true, in that order along the choice axis.
const bernoulliValues int = 2

// Bernoulli implements a Distribution over a bool action component.
// The value table of a Bernoulli holds two entries per element, the
// value of choosing false followed by the value of choosing true.
type Bernoulli struct {
	actionSpec spec.TensorSpec
	source     rand.Source
}

// NewBernoulli creates and returns a new Bernoulli distribution over
// the argument action component. The seed is used for ε-greedy
// sampling only.
func NewBernoulli(actionSpec spec.TensorSpec, seed uint64) (*Bernoulli,
	error) {
	if actionSpec.Type() != spec.Bool {
		return nil, fmt.Errorf("newbernoulli: action component must be "+
			"of type bool \n\thave(%v)", actionSpec.Type())
	}

	return &Bernoulli{
		actionSpec: actionSpec,
		source:     rand.NewSource(seed),
	}, nil
}

// ActionSpec returns the specification of the action component that
// the Bernoulli covers
func (b *Bernoulli) ActionSpec() spec.TensorSpec {
	return b.actionSpec
}

// NumValues returns the number of choices per element, which is always
// two for a Bernoulli
func (b *Bernoulli) NumValues() int {
	return bernoulliValues
}

// LogitsSize returns the width of the flat network output block that
// the Bernoulli consumes per batch example
func (b *Bernoulli) LogitsSize() int {
	return b.actionSpec.Size() * bernoulliValues
}

// AllActionValuesSignature returns the signature of the value table
// returned by AllActionValues
func (b *Bernoulli) AllActionValuesSignature(batched bool) spec.Signature {
	shape := append(b.actionSpec.Shape(), bernoulliValues)
	if batched {
		shape = append([]int{spec.BatchDim}, shape...)
	}
	return spec.NewSignature(spec.Float, shape...)
}

// AllActionValues converts a flat network output block of shape
// (batch, LogitsSize()) into the value table of shape
// (batch, shape..., 2), masking out invalid choices if a mask is
// given.
func (b *Bernoulli) AllActionValues(logits,
	mask *tensor.Dense) (*tensor.Dense, error) {
	if logits == nil || logits.Dims() != 2 ||
		logits.Shape()[1] != b.LogitsSize() {
		return nil, fmt.Errorf("allactionvalues: illegal logits shape "+
			"\n\twant(batch, %v) \n\thave(%v)", b.LogitsSize(),
			logits.Shape())
	}
	batch := logits.Shape()[0]

	data := make([]float64, batch*b.LogitsSize())
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

	shape := append([]int{batch}, b.actionSpec.Shape()...)
	shape = append(shape, bernoulliValues)
	return tensor.New(tensor.WithShape(shape...),
		tensor.WithBacking(data)), nil
}

// ActionValues gathers the value of the argument actions from the
// argument value table.
func (b *Bernoulli) ActionValues(values,
	actions *tensor.Dense) (*tensor.Dense, error) {
	table, ok := values.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("actionvalues: value table must be of " +
			"type float")
	}
	chosen, ok := actions.Data().([]bool)
	if !ok {
		return nil, fmt.Errorf("actionvalues: actions must be of type bool")
	}
	if len(table) != len(chosen)*bernoulliValues {
		return nil, fmt.Errorf("actionvalues: illegal value table size "+
			"\n\twant(%v) \n\thave(%v)", len(chosen)*bernoulliValues,
			len(table))
	}

	out := make([]float64, len(chosen))
	for i, action := range chosen {
		index := 0
		if action {
			index = 1
		}
		out[i] = table[i*bernoulliValues+index]
	}

	return tensor.New(tensor.WithShape(actions.Shape()...),
		tensor.WithBacking(out)), nil
}

// Mode returns the greedy action under the argument value table. A tie
// resolves to false, the first choice along the choice axis.
func (b *Bernoulli) Mode(values *tensor.Dense) (*tensor.Dense, error) {
	table, ok := values.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("mode: value table must be of type float")
	}
	if len(table)%bernoulliValues != 0 {
		return nil, fmt.Errorf("mode: illegal value table size "+
			"\n\twant(multiple of %v) \n\thave(%v)", bernoulliValues,
			len(table))
	}

	elements := len(table) / bernoulliValues
	out := make([]bool, elements)
	for i := 0; i < elements; i++ {
		out[i] = table[i*bernoulliValues+1] > table[i*bernoulliValues]
	}

	shape := values.Shape()[:values.Dims()-1]
	return tensor.New(tensor.WithShape(shape...),
		tensor.WithBacking(out)), nil
}

// Sample returns an action drawn ε-greedily from the argument value
// table.
func (b *Bernoulli) Sample(values *tensor.Dense,
	epsilon float64) (*tensor.Dense, error) {
	greedy, err := b.Mode(values)
	if err != nil {
		return nil, fmt.Errorf("sample: %v", err)
	}

	probabilities := make([]float64, bernoulliValues)
	chosen := greedy.Data().([]bool)
	out := make([]bool, len(chosen))
	for i, action := range chosen {
		index := 0
		if action {
			index = 1
		}
		for j := range probabilities {
			probabilities[j] = epsilon / float64(bernoulliValues)
		}
		probabilities[index] += 1.0 - epsilon

		dist := distuv.NewCategorical(probabilities, b.source)
		out[i] = int(dist.Rand()) == 1
	}

	return tensor.New(tensor.WithShape(greedy.Shape()...),
		tensor.WithBacking(out)), nil
}
