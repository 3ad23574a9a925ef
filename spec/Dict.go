package spec

import "fmt"

// Dict is an ordered mapping from component names to TensorSpecs. It
// describes a composite value such as a multi-component action space
// or a set of state observations. The iteration order of a Dict is the
// insertion order of its keys and is fixed for the lifetime of the
// Dict; downstream components rely on this order when flattening and
// concatenating per-component tensors.
//
// A Dict is constructed once during agent or policy setup and never
// mutated afterwards.
type Dict struct {
	keys  []string
	specs map[string]TensorSpec
}

// NewDict creates and returns a new empty Dict
func NewDict() *Dict {
	return &Dict{specs: make(map[string]TensorSpec)}
}

// Add inserts a named TensorSpec at the end of the Dict's iteration
// order. Names must be unique within a Dict.
func (d *Dict) Add(name string, spec TensorSpec) error {
	if _, ok := d.specs[name]; ok {
		return fmt.Errorf("add: duplicate component name %q", name)
	}
	d.keys = append(d.keys, name)
	d.specs[name] = spec
	return nil
}

// Keys returns the component names of the Dict in iteration order
func (d *Dict) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Get returns the TensorSpec stored under the argument name
func (d *Dict) Get(name string) (TensorSpec, bool) {
	spec, ok := d.specs[name]
	return spec, ok
}

// Len returns the number of components in the Dict
func (d *Dict) Len() int {
	return len(d.keys)
}

// TotalSize returns the sum of the sizes of all component TensorSpecs
// in the Dict. This is the width of a flat vector holding one value
// per element of every component.
func (d *Dict) TotalSize() int {
	size := 0
	for _, key := range d.keys {
		size += d.specs[key].Size()
	}
	return size
}

// Signature returns a SignatureDict holding, per component and in the
// Dict's iteration order, the signature of that component's
// TensorSpec.
func (d *Dict) Signature(batched bool) *SignatureDict {
	sig := NewSignatureDict()
	for _, key := range d.keys {
		sig.Add(key, d.specs[key].Signature(batched))
	}
	return sig
}

// Fmap returns a new SignatureDict produced by applying f to every
// TensorSpec of the Dict, preserving iteration order.
func (d *Dict) Fmap(f func(TensorSpec) SignatureNode) *SignatureDict {
	sig := NewSignatureDict()
	for _, key := range d.keys {
		sig.Add(key, f(d.specs[key]))
	}
	return sig
}
