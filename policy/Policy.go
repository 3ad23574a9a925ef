package policy

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/samuelfneumann/goforce/distribution"
	"github.com/samuelfneumann/goforce/spec"
)

// Policy is the contract shared by every policy layer: access to the
// specifications fixed at construction time, to the per-component
// distributions, and to the declared input/output signature of every
// recognized operation.
type Policy interface {
	StatesSpec() *spec.Dict
	ActionsSpec() *spec.Dict
	InternalsSpec() *spec.Dict
	AuxiliariesSpec() *spec.Dict

	// Distribution returns the distribution owned by the policy for
	// the argument action component
	Distribution(name string) (distribution.Distribution, bool)

	// InputSignature returns the ordered input contract of the
	// argument operation
	InputSignature(op Operation) (*spec.SignatureDict, error)

	// OutputSignature returns the output contract of the argument
	// operation
	OutputSignature(op Operation) (*spec.SignatureDict, error)
}

// HorizonsSpec returns the specification of a single horizon: a
// (start, length) pair identifying the temporal window that a value
// estimate applies to.
func HorizonsSpec() spec.TensorSpec {
	horizons, err := spec.NewTensorSpec(spec.Int, 2)
	if err != nil {
		panic(fmt.Sprintf("horizonsspec: %v", err))
	}
	return horizons
}

// Base implements the root policy layer. It owns the state, action,
// internal, and auxiliary specifications together with one
// distribution per action component, and terminates the signature
// fallback chain: any operation it does not recognize fails with an
// unknown-operation error.
type Base struct {
	statesSpec      *spec.Dict
	actionsSpec     *spec.Dict
	internalsSpec   *spec.Dict
	auxiliariesSpec *spec.Dict

	distributions map[string]distribution.Distribution
}

// NewBase creates and returns a new Base policy layer. Every component
// of the actions specification must have a matching distribution; a
// missing or extraneous distribution fails construction so that a
// misconfigured policy is caught before its first operation.
func NewBase(states, actions, internals, auxiliaries *spec.Dict,
	distributions map[string]distribution.Distribution) (*Base, error) {
	if states == nil || states.Len() == 0 {
		return nil, fmt.Errorf("newbase: no states specification given")
	}
	if actions == nil || actions.Len() == 0 {
		return nil, fmt.Errorf("newbase: no actions specification given")
	}
	if internals == nil {
		internals = spec.NewDict()
	}
	if auxiliaries == nil {
		auxiliaries = spec.NewDict()
	}

	for _, name := range actions.Keys() {
		if _, ok := distributions[name]; !ok {
			return nil, fmt.Errorf("newbase: no distribution for "+
				"action component %q", name)
		}
	}
	if len(distributions) != actions.Len() {
		return nil, fmt.Errorf("newbase: illegal number of "+
			"distributions \n\twant(%v) \n\thave(%v)", actions.Len(),
			len(distributions))
	}

	return &Base{
		statesSpec:      states,
		actionsSpec:     actions,
		internalsSpec:   internals,
		auxiliariesSpec: auxiliaries,
		distributions:   distributions,
	}, nil
}

// StatesSpec returns the specification of the policy's state
// components
func (b *Base) StatesSpec() *spec.Dict {
	return b.statesSpec
}

// ActionsSpec returns the specification of the policy's action
// components
func (b *Base) ActionsSpec() *spec.Dict {
	return b.actionsSpec
}

// InternalsSpec returns the specification of the policy's recurrent
// internal state
func (b *Base) InternalsSpec() *spec.Dict {
	return b.internalsSpec
}

// AuxiliariesSpec returns the specification of the policy's auxiliary
// inputs
func (b *Base) AuxiliariesSpec() *spec.Dict {
	return b.auxiliariesSpec
}

// Distribution returns the distribution owned by the policy for the
// argument action component
func (b *Base) Distribution(name string) (distribution.Distribution,
	bool) {
	d, ok := b.distributions[name]
	return d, ok
}

// InputSignature returns the ordered input contract of the argument
// operation.
func (b *Base) InputSignature(op Operation) (*spec.SignatureDict,
	error) {
	switch op {
	case OpAct:
		return b.stateInputs(), nil
	default:
		return nil, errors.Wrapf(errUnknownOperation,
			"inputsignature: %v", op)
	}
}

// OutputSignature returns the output contract of the argument
// operation.
func (b *Base) OutputSignature(op Operation) (*spec.SignatureDict,
	error) {
	switch op {
	case OpAct:
		return spec.NewSingleton(b.actionsSpec.Signature(true)), nil
	default:
		return nil, errors.Wrapf(errUnknownOperation,
			"outputsignature: %v", op)
	}
}

// stateInputs returns the input contract shared by every operation
// that consumes no joint action: states, horizons, internals, and
// auxiliaries, in that order.
func (b *Base) stateInputs() *spec.SignatureDict {
	sig := spec.NewSignatureDict()
	sig.Add("states", b.statesSpec.Signature(true))
	sig.Add("horizons", HorizonsSpec().Signature(true))
	sig.Add("internals", b.internalsSpec.Signature(true))
	sig.Add("auxiliaries", b.auxiliariesSpec.Signature(true))
	return sig
}
