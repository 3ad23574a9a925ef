package horizon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesArguments(t *testing.T) {
	_, err := New(0, 4, 2)
	assert.Error(t, err, "observation size below one")

	_, err = New(2, 0, 2)
	assert.Error(t, err, "buffer size below one")

	_, err = New(2, 4, 0)
	assert.Error(t, err, "window length below one")
}

func TestStoreRejectsOverflowAndBadLength(t *testing.T) {
	b, err := New(2, 2, 1)
	require.NoError(t, err)

	require.NoError(t, b.Store([]float64{1, 2}))
	assert.Error(t, b.Store([]float64{1, 2, 3}), "wrong obs length")

	require.NoError(t, b.Store([]float64{3, 4}))
	assert.Error(t, b.Store([]float64{5, 6}), "buffer at capacity")
}

func TestHorizonsTruncateAtTrajectoryEnd(t *testing.T) {
	b, err := New(2, 8, 3)
	require.NoError(t, err)

	trajectory := [][]float64{
		{0, 1},
		{2, 3},
		{4, 5},
		{6, 7},
		{8, 9},
	}
	for _, obs := range trajectory {
		require.NoError(t, b.Store(obs))
	}
	assert.Equal(t, 5, b.Len())

	states, horizons, err := b.Horizons()
	require.NoError(t, err)

	assert.Equal(t, []int{5, 2}, []int(states.Shape()))
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		states.Data().([]float64))

	// Window i starts at i; the last windows shrink to fit the
	// trajectory
	assert.Equal(t, []int{5, 2}, []int(horizons.Shape()))
	assert.Equal(t, []int{
		0, 3,
		1, 3,
		2, 3,
		3, 2,
		4, 1,
	}, horizons.Data().([]int))
}

func TestHorizonsFailOnEmptyBuffer(t *testing.T) {
	b, err := New(2, 4, 2)
	require.NoError(t, err)

	_, _, err = b.Horizons()
	assert.Error(t, err)
}

func TestResetStartsNewTrajectory(t *testing.T) {
	b, err := New(1, 3, 2)
	require.NoError(t, err)

	require.NoError(t, b.Store([]float64{1}))
	require.NoError(t, b.Store([]float64{2}))
	b.Reset()
	assert.Equal(t, 0, b.Len())

	require.NoError(t, b.Store([]float64{7}))
	states, horizons, err := b.Horizons()
	require.NoError(t, err)

	assert.Equal(t, []float64{7}, states.Data().([]float64))
	assert.Equal(t, []int{0, 1}, horizons.Data().([]int))
}
