// Package distribution implements parametric distributions over single
// action components. A Distribution converts the raw output block that
// a value network produces for its action component into a table of
// per-action values, and can gather from that table the value of a
// specific chosen action, report the greedy action, or sample an
// action ε-greedily.
//
// Distributions are owned by a policy, one per action component, and
// are read-only shared state: no method mutates the Distribution or
// its argument tensors.
package distribution

import (
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goforce/spec"
)

// Distribution describes the value structure of a single action
// component with a finite number of choices per element.
type Distribution interface {
	// ActionSpec returns the specification of the action component
	// that the Distribution covers
	ActionSpec() spec.TensorSpec

	// NumValues returns the number of distinct choices available for
	// each element of the action component. This is the length of the
	// trailing choice axis of the value table and is unrelated to the
	// size of the action component's own specification.
	NumValues() int

	// LogitsSize returns the width of the flat network output block
	// that the Distribution consumes per batch example, that is,
	// ActionSpec().Size() * NumValues().
	LogitsSize() int

	// AllActionValuesSignature returns the signature of the value
	// table returned by AllActionValues: the action component's shape
	// with one appended choice axis of length NumValues().
	AllActionValuesSignature(batched bool) spec.Signature

	// AllActionValues converts a flat network output block of shape
	// (batch, LogitsSize()) into the value table of shape
	// (batch, shape..., NumValues()). If mask is non-nil, it must be a
	// bool tensor with LogitsSize() entries per example; table entries
	// whose mask is false are set to -Inf so that no reduction or
	// greedy selection can pick them.
	AllActionValues(logits, mask *tensor.Dense) (*tensor.Dense, error)

	// ActionValues gathers from a value table of shape
	// (batch, shape..., NumValues()) the value of the argument actions,
	// returning a tensor of shape (batch, shape...).
	ActionValues(values, actions *tensor.Dense) (*tensor.Dense, error)

	// Mode returns the greedy action under the argument value table,
	// shaped (batch, shape...). Ties resolve to the first maximal
	// choice, so Mode is deterministic for identical inputs.
	Mode(values *tensor.Dense) (*tensor.Dense, error)

	// Sample returns an action drawn ε-greedily from the argument
	// value table: with probability 1-ε per element the greedy choice,
	// otherwise a uniformly random choice.
	Sample(values *tensor.Dense, epsilon float64) (*tensor.Dense, error)
}
