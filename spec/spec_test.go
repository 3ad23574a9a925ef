package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestTensorSpecSize(t *testing.T) {
	scalar, err := NewTensorSpec(Int)
	require.NoError(t, err)
	assert.Equal(t, 1, scalar.Size())
	assert.Equal(t, 0, scalar.Rank())

	vec, err := NewTensorSpec(Float, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, vec.Size())

	grid, err := NewTensorSpec(Float, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, grid.Size())
}

func TestTensorSpecRejectsNegativeDims(t *testing.T) {
	_, err := NewTensorSpec(Float, 2, -1)
	assert.Error(t, err)
}

func TestTensorSpecImmutable(t *testing.T) {
	s, err := NewTensorSpec(Float, 2, 3)
	require.NoError(t, err)

	shape := s.Shape()
	shape[0] = 99
	assert.Equal(t, []int{2, 3}, s.Shape())
}

func TestSignatureBatched(t *testing.T) {
	s, err := NewTensorSpec(Float, 3)
	require.NoError(t, err)

	batched := s.Signature(true)
	assert.Equal(t, []int{BatchDim, 3}, batched.Shape())
	assert.True(t, batched.Batched())

	unbatched := s.Signature(false)
	assert.Equal(t, []int{3}, unbatched.Shape())
	assert.False(t, unbatched.Batched())
}

func TestSignatureCheck(t *testing.T) {
	sig := NewSignature(Float, BatchDim, 3)

	ok := tensor.New(tensor.WithShape(5, 3),
		tensor.WithBacking(make([]float64, 15)))
	assert.NoError(t, sig.Check(ok))

	wrongShape := tensor.New(tensor.WithShape(5, 4),
		tensor.WithBacking(make([]float64, 20)))
	assert.Error(t, sig.Check(wrongShape))

	wrongType := tensor.New(tensor.WithShape(5, 3),
		tensor.WithBacking(make([]int, 15)))
	assert.Error(t, sig.Check(wrongType))

	wrongDims := tensor.New(tensor.WithShape(15),
		tensor.WithBacking(make([]float64, 15)))
	assert.Error(t, sig.Check(wrongDims))
}

func TestDictOrderAndTotalSize(t *testing.T) {
	move, err := NewTensorSpec(Int, 4)
	require.NoError(t, err)
	jump, err := NewTensorSpec(Bool)
	require.NoError(t, err)

	d := NewDict()
	require.NoError(t, d.Add("move", move))
	require.NoError(t, d.Add("jump", jump))

	assert.Equal(t, []string{"move", "jump"}, d.Keys())
	assert.Equal(t, 5, d.TotalSize())

	// Insertion order, not lexicographic order
	reversed := NewDict()
	require.NoError(t, reversed.Add("jump", jump))
	require.NoError(t, reversed.Add("move", move))
	assert.Equal(t, []string{"jump", "move"}, reversed.Keys())
}

func TestDictRejectsDuplicates(t *testing.T) {
	s, err := NewTensorSpec(Float, 1)
	require.NoError(t, err)

	d := NewDict()
	require.NoError(t, d.Add("obs", s))
	assert.Error(t, d.Add("obs", s))
}

func TestSignatureDictSingleton(t *testing.T) {
	sig := NewSingleton(NewSignature(Float, BatchDim, 5))
	assert.True(t, sig.IsSingleton())

	node, ok := sig.Singleton()
	require.True(t, ok)
	assert.Equal(t, []int{BatchDim, 5}, node.(Signature).Shape())

	named := NewSignatureDict()
	named.Add("states", NewSignature(Float, BatchDim, 5))
	assert.False(t, named.IsSingleton())
	_, ok = named.Singleton()
	assert.False(t, ok)
}

func TestSignatureDictFmapRecursesAndPreservesOrder(t *testing.T) {
	inner := NewSignatureDict()
	inner.Add("move", NewSignature(Float, BatchDim, 4))
	inner.Add("jump", NewSignature(Float, BatchDim, 1))

	outer := NewSignatureDict()
	outer.Add("actions", inner)
	outer.Add("horizons", NewSignature(Int, BatchDim, 2))

	mapped := outer.Fmap(func(s Signature) SignatureNode {
		return NewSignature(s.Type(), s.Shape()[1:]...)
	})

	assert.Equal(t, []string{"actions", "horizons"}, mapped.Keys())

	node, ok := mapped.Get("actions")
	require.True(t, ok)
	nested := node.(*SignatureDict)
	assert.Equal(t, []string{"move", "jump"}, nested.Keys())

	moveNode, _ := nested.Get("move")
	assert.Equal(t, []int{4}, moveNode.(Signature).Shape())
}

func TestTensorDictZipSpecs(t *testing.T) {
	move, err := NewTensorSpec(Int, 4)
	require.NoError(t, err)
	jump, err := NewTensorSpec(Bool)
	require.NoError(t, err)

	specs := NewDict()
	require.NoError(t, specs.Add("move", move))
	require.NoError(t, specs.Add("jump", jump))

	values := NewTensorDict()
	values.Add("move", tensor.New(tensor.WithShape(2, 4),
		tensor.WithBacking(make([]float64, 8))))
	values.Add("jump", tensor.New(tensor.WithShape(2),
		tensor.WithBacking(make([]float64, 2))))

	sizes := make([]int, 0, 2)
	_, err = values.ZipSpecs(specs, func(v *tensor.Dense,
		s TensorSpec) (*tensor.Dense, error) {
		sizes = append(sizes, s.Size())
		return v, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1}, sizes)
}

func TestTensorDictZipSpecsStructureMismatch(t *testing.T) {
	move, err := NewTensorSpec(Int, 4)
	require.NoError(t, err)

	specs := NewDict()
	require.NoError(t, specs.Add("move", move))

	// Same length, different key
	values := NewTensorDict()
	values.Add("jump", tensor.New(tensor.WithShape(2),
		tensor.WithBacking(make([]float64, 2))))

	_, err = values.ZipSpecs(specs, func(v *tensor.Dense,
		s TensorSpec) (*tensor.Dense, error) {
		return v, nil
	})
	require.Error(t, err)
	assert.True(t, IsStructureMismatch(err))

	// Different lengths
	values.Add("move", tensor.New(tensor.WithShape(2, 4),
		tensor.WithBacking(make([]float64, 8))))
	_, err = values.ZipSpecs(specs, func(v *tensor.Dense,
		s TensorSpec) (*tensor.Dense, error) {
		return v, nil
	})
	require.Error(t, err)
	assert.True(t, IsStructureMismatch(err))
}
