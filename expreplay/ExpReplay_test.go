package expreplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesCapacities(t *testing.T) {
	_, err := New(0, 4, 2, 3, 1, 1)
	assert.Error(t, err, "minCapacity below one")

	_, err = New(4, 2, 2, 3, 1, 1)
	assert.Error(t, err, "maxCapacity below minCapacity")

	_, err = New(1, 2, 2, 3, 4, 1)
	assert.Error(t, err, "batch size above maximum capacity")

	_, err = New(1, 2, 0, 3, 1, 1)
	assert.Error(t, err, "feature size below one")

	_, err = New(1, 2, 2, 0, 1, 1)
	assert.Error(t, err, "action size below one")
}

func TestSampleErrorsBeforeMinCapacity(t *testing.T) {
	replay, err := New(2, 4, 1, 2, 1, 1)
	require.NoError(t, err)

	_, _, _, _, _, err = replay.Sample()
	require.Error(t, err)
	assert.True(t, IsEmptyBuffer(err))

	require.NoError(t, replay.Add([]float64{1}, []float64{1, 0}, 0.5,
		0.9, []float64{2}))
	_, _, _, _, _, err = replay.Sample()
	require.Error(t, err)
	assert.True(t, IsInsufficientSamples(err))
	assert.False(t, IsEmptyBuffer(err))
}

func TestAddRejectsMalformedTransitions(t *testing.T) {
	replay, err := New(1, 4, 2, 3, 1, 1)
	require.NoError(t, err)

	err = replay.Add([]float64{1}, []float64{1, 0, 0}, 0, 1,
		[]float64{1, 2})
	assert.Error(t, err, "state feature size mismatch")

	err = replay.Add([]float64{1, 2}, []float64{1, 0}, 0, 1,
		[]float64{1, 2})
	assert.Error(t, err, "action size mismatch")
}

func TestSampleReturnsStoredTransition(t *testing.T) {
	replay, err := New(1, 4, 2, 3, 1, 1)
	require.NoError(t, err)

	require.NoError(t, replay.Add([]float64{1, 2}, []float64{0, 1, 0},
		0.5, 0.9, []float64{3, 4}))
	assert.Equal(t, 1, replay.Capacity())

	states, actions, rewards, discounts, nextStates, err :=
		replay.Sample()
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2}, states)
	assert.Equal(t, []float64{0, 1, 0}, actions)
	assert.Equal(t, []float64{0.5}, rewards)
	assert.Equal(t, []float64{0.9}, discounts)
	assert.Equal(t, []float64{3, 4}, nextStates)
}

func TestOldestTransitionOverwrittenAtCapacity(t *testing.T) {
	replay, err := New(1, 2, 1, 1, 2, 1)
	require.NoError(t, err)

	require.NoError(t, replay.Add([]float64{1}, []float64{1}, 1, 1,
		[]float64{1}))
	require.NoError(t, replay.Add([]float64{2}, []float64{1}, 2, 1,
		[]float64{2}))
	require.NoError(t, replay.Add([]float64{3}, []float64{1}, 3, 1,
		[]float64{3}))

	assert.Equal(t, 2, replay.Capacity())
	assert.Equal(t, 2, replay.MaxCapacity())

	// The first transition is gone; only the last two can be sampled
	for i := 0; i < 10; i++ {
		states, _, rewards, _, _, err := replay.Sample()
		require.NoError(t, err)
		for j, s := range states {
			assert.Contains(t, []float64{2, 3}, s)
			assert.Equal(t, s, rewards[j])
		}
	}
}
