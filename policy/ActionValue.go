package policy

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/spec"
	"github.com/samuelfneumann/goforce/utils/tensorutils"
)

// ValueEstimator is the capability that a concrete value-based policy
// supplies: the two learned value-estimation primitives that the
// composition operations of an ActionValue are built from.
type ValueEstimator interface {
	// ActionsValues returns, per action component, the learned value
	// of taking the argument joint action, shaped per that component's
	// specification.
	ActionsValues(states *spec.TensorDict, horizons *tensor.Dense,
		internals, auxiliaries, actions *spec.TensorDict) (*spec.TensorDict,
		error)

	// AllActionsValues returns, per action component, the value of
	// every available choice for that component: the component's shape
	// with one appended choice axis.
	AllActionsValues(states *spec.TensorDict, horizons *tensor.Dense,
		internals, auxiliaries *spec.TensorDict) (*spec.TensorDict, error)
}

// ActionValue implements the value-based policy layer over a composite
// action space. The layer owns no learned computation itself: the two
// estimation primitives are delegated to a ValueEstimator, and every
// other operation is a pure composition of reshapes, concatenations,
// and a max-reduction over the estimator's outputs.
//
// An ActionValue constructed without an estimator still declares the
// signatures of all five value operations, but invoking either
// estimation primitive fails immediately with a not-implemented error.
type ActionValue struct {
	*Base
	estimator ValueEstimator
}

// NewActionValue creates and returns a new ActionValue layered over
// the argument Base. The estimator may be nil, leaving the two
// estimation primitives abstract.
func NewActionValue(base *Base, estimator ValueEstimator) (*ActionValue,
	error) {
	if base == nil {
		return nil, errors.New("newactionvalue: no base policy given")
	}
	return &ActionValue{Base: base, estimator: estimator}, nil
}

// InputSignature returns the ordered input contract of the argument
// operation, falling back to the Base layer for operations this layer
// does not recognize.
func (a *ActionValue) InputSignature(op Operation) (*spec.SignatureDict,
	error) {
	switch op {
	case OpActionsValue, OpActionsValues:
		sig := a.stateInputs()
		sig.Add("actions", a.ActionsSpec().Signature(true))
		return sig, nil
	case OpAllActionsValues, OpStatesValue, OpStatesValues:
		return a.stateInputs(), nil
	default:
		return a.Base.InputSignature(op)
	}
}

// OutputSignature returns the output contract of the argument
// operation, falling back to the Base layer for operations this layer
// does not recognize.
func (a *ActionValue) OutputSignature(op Operation) (*spec.SignatureDict,
	error) {
	switch op {
	case OpActionsValue, OpStatesValue:
		flat := spec.NewSignature(spec.Float, spec.BatchDim,
			a.ActionsSpec().TotalSize())
		return spec.NewSingleton(flat), nil

	case OpActionsValues, OpStatesValues:
		perComponent := a.ActionsSpec().Fmap(
			func(s spec.TensorSpec) spec.SignatureNode {
				shape := append([]int{spec.BatchDim}, s.Shape()...)
				return spec.NewSignature(spec.Float, shape...)
			})
		return spec.NewSingleton(perComponent), nil

	case OpAllActionsValues:
		tables := spec.NewSignatureDict()
		for _, name := range a.ActionsSpec().Keys() {
			dist, _ := a.Distribution(name)
			tables.Add(name, dist.AllActionValuesSignature(true))
		}
		return spec.NewSingleton(tables), nil

	default:
		return a.Base.OutputSignature(op)
	}
}

// ActionsValue returns the value of taking the argument joint action,
// flattened to a single float vector per batch example. The vector
// holds size(component) entries per action component, concatenated in
// the fixed iteration order of the actions specification.
func (a *ActionValue) ActionsValue(states *spec.TensorDict,
	horizons *tensor.Dense, internals, auxiliaries,
	actions *spec.TensorDict) (*tensor.Dense, error) {
	values, err := a.ActionsValues(states, horizons, internals,
		auxiliaries, actions)
	if err != nil {
		return nil, errors.Wrap(err, "actionsvalue")
	}

	flat, err := a.flatten(values)
	if err != nil {
		return nil, errors.Wrap(err, "actionsvalue")
	}
	return flat, nil
}

// ActionsValues returns, per action component, the learned value of
// taking the argument joint action. The primitive is abstract: without
// a concrete ValueEstimator it fails with a not-implemented error.
func (a *ActionValue) ActionsValues(states *spec.TensorDict,
	horizons *tensor.Dense, internals, auxiliaries,
	actions *spec.TensorDict) (*spec.TensorDict, error) {
	if a.estimator == nil {
		return nil, errors.Wrap(errNotImplemented, "actionsvalues")
	}
	return a.estimator.ActionsValues(states, horizons, internals,
		auxiliaries, actions)
}

// AllActionsValues returns, per action component, the value of every
// available choice for that component. The primitive is abstract:
// without a concrete ValueEstimator it fails with a not-implemented
// error.
func (a *ActionValue) AllActionsValues(states *spec.TensorDict,
	horizons *tensor.Dense, internals,
	auxiliaries *spec.TensorDict) (*spec.TensorDict, error) {
	if a.estimator == nil {
		return nil, errors.Wrap(errNotImplemented, "allactionsvalues")
	}
	return a.estimator.AllActionsValues(states, horizons, internals,
		auxiliaries)
}

// StatesValues returns, per action component, the best value
// achievable for that component under the current value estimate: the
// maximum of the component's value table over its trailing choice
// axis. Ties resolve to whichever maximal value the reduction reaches
// first, so the result is deterministic for identical inputs.
func (a *ActionValue) StatesValues(states *spec.TensorDict,
	horizons *tensor.Dense, internals,
	auxiliaries *spec.TensorDict) (*spec.TensorDict, error) {
	values, err := a.AllActionsValues(states, horizons, internals,
		auxiliaries)
	if err != nil {
		return nil, errors.Wrap(err, "statesvalues")
	}

	return values.Fmap(tensorutils.MaxLastAxis)
}

// StatesValue returns the best value achievable in the argument
// states, flattened to a single float vector per batch example with
// the same width and component order as ActionsValue. This is the
// baseline value used to bootstrap temporal-difference targets.
func (a *ActionValue) StatesValue(states *spec.TensorDict,
	horizons *tensor.Dense, internals,
	auxiliaries *spec.TensorDict) (*tensor.Dense, error) {
	values, err := a.StatesValues(states, horizons, internals,
		auxiliaries)
	if err != nil {
		return nil, errors.Wrap(err, "statesvalue")
	}

	flat, err := a.flatten(values)
	if err != nil {
		return nil, errors.Wrap(err, "statesvalue")
	}
	return flat, nil
}

// flatten reshapes every per-component value tensor to
// (batch, size(component)) and concatenates the results along the
// component axis in the iteration order of the actions specification.
func (a *ActionValue) flatten(values *spec.TensorDict) (*tensor.Dense,
	error) {
	matrices, err := values.ZipSpecs(a.ActionsSpec(),
		func(value *tensor.Dense, s spec.TensorSpec) (*tensor.Dense,
			error) {
			return tensorutils.Reshape2D(value, s.Size())
		})
	if err != nil {
		return nil, errors.Wrap(err, "flatten")
	}

	return tensorutils.ConcatCols(matrices.Values()...)
}
