// Package horizon implements functionality for storing a forward-view
// window buffer of state observations
package horizon

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Buffer implements a forward view n-step window buffer. Observations
// of one trajectory are stored in order; the buffer then emits the
// batched state observations together with the (start, length) horizon
// of each step, where the horizon of step i covers the up-to-n steps
// starting at i and is truncated at the end of the trajectory.
//
// The emitted tensors are exactly the states and horizons arguments
// that value policy operations consume for multi-step temporal credit
// assignment.
type Buffer struct {
	obsSize int // Size of state observations
	maxSize int // Max buffer size
	n       int // Window length for each step's horizon

	currentPos int // Current position in the buffer

	obsBuffer []float64
}

// New creates and returns a new n-step window buffer
func New(obsDim, size, n int) (*Buffer, error) {
	if obsDim < 1 {
		return nil, fmt.Errorf("new: illegal observation size "+
			"\n\twant(>= 1)\n\thave(%v)", obsDim)
	}
	if size < 1 {
		return nil, fmt.Errorf("new: illegal buffer size "+
			"\n\twant(>= 1)\n\thave(%v)", size)
	}
	if n < 1 {
		return nil, fmt.Errorf("new: illegal window length "+
			"\n\twant(>= 1)\n\thave(%v)", n)
	}

	return &Buffer{
		obsSize:   obsDim,
		maxSize:   size,
		n:         n,
		obsBuffer: make([]float64, size*obsDim),
	}, nil
}

// Store stores a single timestep state observation to the Buffer
func (b *Buffer) Store(obs []float64) error {
	if b.currentPos >= b.maxSize {
		return fmt.Errorf("store: cannot add new observation, buffer " +
			"at maximum capacity")
	}
	if len(obs) != b.obsSize {
		return fmt.Errorf("store: illegal obs length \n\twant(%v)"+
			"\n\thave(%v)", b.obsSize, len(obs))
	}

	start := b.currentPos * b.obsSize
	copy(b.obsBuffer[start:start+b.obsSize], obs)
	b.currentPos++
	return nil
}

// Len returns the number of observations currently stored in the
// Buffer
func (b *Buffer) Len() int {
	return b.currentPos
}

// Reset empties the Buffer so that a new trajectory can be stored
func (b *Buffer) Reset() {
	b.currentPos = 0
}

// Horizons returns the stored trajectory as a batched state tensor of
// shape (steps, obsDim) together with an int horizons tensor of shape
// (steps, 2) holding the (start, length) window of each step. The
// window of step i starts at i and has length min(n, steps-i).
func (b *Buffer) Horizons() (states, horizons *tensor.Dense, err error) {
	steps := b.currentPos
	if steps == 0 {
		return nil, nil, fmt.Errorf("horizons: buffer is empty")
	}

	obs := make([]float64, steps*b.obsSize)
	copy(obs, b.obsBuffer[:steps*b.obsSize])
	states = tensor.New(
		tensor.WithShape(steps, b.obsSize),
		tensor.WithBacking(obs),
	)

	windows := make([]int, 2*steps)
	for i := 0; i < steps; i++ {
		length := b.n
		if remaining := steps - i; remaining < length {
			length = remaining
		}
		windows[2*i] = i
		windows[2*i+1] = length
	}
	horizons = tensor.New(
		tensor.WithShape(steps, 2),
		tensor.WithBacking(windows),
	)

	return states, horizons, nil
}
