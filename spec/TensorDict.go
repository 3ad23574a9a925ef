package spec

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// errStructureMismatch reports that two structures being zipped
// together do not share the same ordered key set.
var errStructureMismatch = errors.New("structures have different keys")

// IsStructureMismatch returns whether or not an error reports that two
// zipped structures do not share the same ordered key set.
func IsStructureMismatch(err error) bool {
	return errors.Cause(err) == errStructureMismatch
}

// TensorDict is an ordered mapping from component names to tensors. It
// carries the per-component inputs and outputs of one policy
// operation. Like a Dict, the iteration order of a TensorDict is its
// insertion order.
//
// TensorDicts are ephemeral: they are produced and consumed within a
// single call and their tensors are treated as immutable values for
// the duration of that call.
type TensorDict struct {
	keys    []string
	tensors map[string]*tensor.Dense
}

// NewTensorDict creates and returns a new empty TensorDict
func NewTensorDict() *TensorDict {
	return &TensorDict{tensors: make(map[string]*tensor.Dense)}
}

// Add inserts a named tensor at the end of the TensorDict's iteration
// order. Adding an existing name replaces its tensor without changing
// the order.
func (t *TensorDict) Add(name string, value *tensor.Dense) {
	if _, ok := t.tensors[name]; !ok {
		t.keys = append(t.keys, name)
	}
	t.tensors[name] = value
}

// Keys returns the component names of the TensorDict in iteration
// order
func (t *TensorDict) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Get returns the tensor stored under the argument name
func (t *TensorDict) Get(name string) (*tensor.Dense, bool) {
	value, ok := t.tensors[name]
	return value, ok
}

// Len returns the number of components in the TensorDict
func (t *TensorDict) Len() int {
	return len(t.keys)
}

// Values returns the tensors of the TensorDict in iteration order
func (t *TensorDict) Values() []*tensor.Dense {
	values := make([]*tensor.Dense, len(t.keys))
	for i, key := range t.keys {
		values[i] = t.tensors[key]
	}
	return values
}

// Fmap returns a new TensorDict produced by applying f to every tensor
// of the TensorDict, preserving iteration order. If f fails on any
// component, Fmap fails with that component's error.
func (t *TensorDict) Fmap(f func(*tensor.Dense) (*tensor.Dense,
	error)) (*TensorDict, error) {
	out := NewTensorDict()
	for _, key := range t.keys {
		value, err := f(t.tensors[key])
		if err != nil {
			return nil, errors.Wrapf(err, "fmap: component %q", key)
		}
		out.Add(key, value)
	}
	return out, nil
}

// ZipSpecs returns a new TensorDict produced by applying f to every
// (tensor, TensorSpec) pair of the TensorDict zipped against the
// argument Dict. Both structures must share an identical ordered key
// set, otherwise ZipSpecs fails with a structure mismatch error.
func (t *TensorDict) ZipSpecs(specs *Dict, f func(*tensor.Dense,
	TensorSpec) (*tensor.Dense, error)) (*TensorDict, error) {
	if err := t.congruent(specs); err != nil {
		return nil, errors.Wrap(err, "zipspecs")
	}

	out := NewTensorDict()
	for _, key := range t.keys {
		spec, _ := specs.Get(key)
		value, err := f(t.tensors[key], spec)
		if err != nil {
			return nil, errors.Wrapf(err, "zipspecs: component %q", key)
		}
		out.Add(key, value)
	}
	return out, nil
}

// congruent checks that the TensorDict and the argument Dict share an
// identical ordered key set.
func (t *TensorDict) congruent(specs *Dict) error {
	specKeys := specs.Keys()
	if len(specKeys) != len(t.keys) {
		return errors.Wrapf(errStructureMismatch,
			"want(%v) have(%v)", specKeys, t.keys)
	}
	for i, key := range t.keys {
		if specKeys[i] != key {
			return errors.Wrapf(errStructureMismatch,
				"want(%v) have(%v)", specKeys, t.keys)
		}
	}
	return nil
}
