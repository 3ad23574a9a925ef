package spec

import (
	"fmt"
	"strings"
)

// SignatureNode is an entry of a SignatureDict: either a Signature or
// a nested SignatureDict. Implemented by Signature and *SignatureDict
// only.
type SignatureNode interface {
	isSignatureNode()
}

// singletonKey is the distinguished name under which a SignatureDict
// stores an unnamed single return value.
const singletonKey = "<singleton>"

// SignatureDict is an ordered mapping from names to SignatureNodes
// representing the full input or output contract of one operation. A
// SignatureDict with exactly one entry stored under the distinguished
// singleton name represents a single unnamed return value.
//
// SignatureDicts are derived data: they are recomputed per
// function-contract query and never mutated after being returned.
type SignatureDict struct {
	keys    []string
	entries map[string]SignatureNode
}

// NewSignatureDict creates and returns a new empty SignatureDict
func NewSignatureDict() *SignatureDict {
	return &SignatureDict{entries: make(map[string]SignatureNode)}
}

// NewSingleton creates and returns a SignatureDict representing a
// single unnamed value.
func NewSingleton(node SignatureNode) *SignatureDict {
	s := NewSignatureDict()
	s.Add(singletonKey, node)
	return s
}

// Add inserts a named entry at the end of the SignatureDict's
// iteration order. Adding an existing name replaces its entry without
// changing the order.
func (s *SignatureDict) Add(name string, node SignatureNode) {
	if _, ok := s.entries[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.entries[name] = node
}

// Keys returns the entry names of the SignatureDict in iteration order
func (s *SignatureDict) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Get returns the entry stored under the argument name
func (s *SignatureDict) Get(name string) (SignatureNode, bool) {
	node, ok := s.entries[name]
	return node, ok
}

// Len returns the number of entries in the SignatureDict
func (s *SignatureDict) Len() int {
	return len(s.keys)
}

// IsSingleton returns whether the SignatureDict represents a single
// unnamed value.
func (s *SignatureDict) IsSingleton() bool {
	return len(s.keys) == 1 && s.keys[0] == singletonKey
}

// Singleton returns the unnamed single value of the SignatureDict. The
// second return value is false if the SignatureDict is not a
// singleton.
func (s *SignatureDict) Singleton() (SignatureNode, bool) {
	if !s.IsSingleton() {
		return nil, false
	}
	return s.entries[singletonKey], true
}

// Fmap returns a new SignatureDict produced by applying f to every
// Signature of the SignatureDict, recursing into nested
// SignatureDicts and preserving iteration order.
func (s *SignatureDict) Fmap(f func(Signature) SignatureNode) *SignatureDict {
	out := NewSignatureDict()
	for _, key := range s.keys {
		switch node := s.entries[key].(type) {
		case Signature:
			out.Add(key, f(node))
		case *SignatureDict:
			out.Add(key, node.Fmap(f))
		}
	}
	return out
}

func (s *SignatureDict) String() string {
	entries := make([]string, len(s.keys))
	for i, key := range s.keys {
		entries[i] = fmt.Sprintf("%v: %v", key, s.entries[key])
	}
	return "SignatureDict{" + strings.Join(entries, ", ") + "}"
}

func (s *SignatureDict) isSignatureNode() {}
