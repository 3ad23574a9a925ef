// Package policy implements the policy abstraction layer for
// composite action spaces. A policy maps batched states, temporal
// horizons, recurrent internals, and auxiliaries to actions or to
// value estimates over every action component, and declares an exact
// input/output tensor contract per operation so that an executing
// backend can validate and specialize each call.
package policy

// Operation enumerates the operations whose input and output
// signatures a policy can declare. The enumeration is closed: a
// signature query for an Operation that a policy layer does not
// recognize falls through to its parent layer, and fails with an
// unknown-operation error once no layer remains.
type Operation int

const (
	// OpAct maps states, horizons, internals, and auxiliaries to one
	// action per action component
	OpAct Operation = iota

	// OpActionsValue maps states, horizons, internals, auxiliaries,
	// and a joint action to one flat value vector per batch example
	OpActionsValue

	// OpActionsValues maps states, horizons, internals, auxiliaries,
	// and a joint action to a per-component value tensor shaped per
	// that component's specification
	OpActionsValues

	// OpAllActionsValues maps states, horizons, internals, and
	// auxiliaries to a per-component table of the value of every
	// available choice
	OpAllActionsValues

	// OpStatesValue maps states, horizons, internals, and auxiliaries
	// to one flat value vector per batch example
	OpStatesValue

	// OpStatesValues maps states, horizons, internals, and auxiliaries
	// to a per-component value tensor shaped per that component's
	// specification
	OpStatesValues
)

func (op Operation) String() string {
	switch op {
	case OpAct:
		return "act"
	case OpActionsValue:
		return "actions_value"
	case OpActionsValues:
		return "actions_values"
	case OpAllActionsValues:
		return "all_actions_values"
	case OpStatesValue:
		return "states_value"
	case OpStatesValues:
		return "states_values"
	default:
		return "unknown"
	}
}

// NumArgs returns the number of positional tensor-group arguments that
// the Operation accepts: states, horizons, internals, and auxiliaries,
// plus a joint action where one is consumed.
func (op Operation) NumArgs() int {
	switch op {
	case OpActionsValue, OpActionsValues:
		return 5
	default:
		return 4
	}
}
