// Package expreplay implements experience replay buffers for
// off-policy value-based learning. A buffer stores flattened
// transitions of the agent-environment interaction and emits uniformly
// sampled minibatches for gradient updates.
package expreplay

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// ExperienceReplayer implements an experience replay buffer over
// flattened transitions. States are flat feature vectors and joint
// actions are flat selection vectors holding a one-hot block per
// action component.
type ExperienceReplayer interface {
	// Add adds a single transition to the buffer, removing the oldest
	// stored transition if the buffer is at maximum capacity.
	Add(state, actions []float64, reward, discount float64,
		nextState []float64) error

	// Sample samples a minibatch of transitions from the buffer,
	// returning the batched states, action selections, rewards,
	// discounts, and next states in that order.
	Sample() ([]float64, []float64, []float64, []float64, []float64,
		error)

	// Capacity returns the current number of transitions in the buffer
	Capacity() int

	// MaxCapacity returns the maximum number of transitions the buffer
	// can hold
	MaxCapacity() int

	// MinCapacity returns the number of transitions required in the
	// buffer before sampling is allowed
	MinCapacity() int

	// BatchSize returns the number of transitions per sampled minibatch
	BatchSize() int
}

// cache implements a concrete ExperienceReplayer. Transitions are
// stored in a ring so that the oldest transition is overwritten first
// once the buffer is full.
type cache struct {
	stateCache     []float64
	actionCache    []float64
	rewardCache    []float64
	discountCache  []float64
	nextStateCache []float64

	next     int // Ring position of the next insert
	inUse    int // Number of stored transitions
	rng      *rand.Rand
	batch    int
	minCap   int
	maxCap   int
	features int
	actions  int
}

// New creates and returns a new ExperienceReplayer storing at most
// maxCapacity transitions, sampleable once minCapacity transitions
// have been stored. The featureSize and actionSize parameters fix the
// lengths of the flat state and action selection vectors.
func New(minCapacity, maxCapacity, featureSize, actionSize,
	batchSize int, seed uint64) (ExperienceReplayer, error) {
	if minCapacity < 1 {
		return nil, fmt.Errorf("new: minCapacity must be > 0")
	}
	if maxCapacity < minCapacity {
		return nil, fmt.Errorf("new: cannot have minCapacity(%v) > max "+
			"buffer capacity (%v)", minCapacity, maxCapacity)
	}
	if batchSize < 1 || batchSize > maxCapacity {
		return nil, fmt.Errorf("new: cannot have batch size(%v) > max "+
			"buffer capacity (%v)", batchSize, maxCapacity)
	}
	if featureSize < 1 {
		return nil, fmt.Errorf("new: featureSize must be > 0")
	}
	if actionSize < 1 {
		return nil, fmt.Errorf("new: actionSize must be > 0")
	}

	return &cache{
		stateCache:     make([]float64, maxCapacity*featureSize),
		actionCache:    make([]float64, maxCapacity*actionSize),
		rewardCache:    make([]float64, maxCapacity),
		discountCache:  make([]float64, maxCapacity),
		nextStateCache: make([]float64, maxCapacity*featureSize),

		rng:      rand.New(rand.NewSource(seed)),
		batch:    batchSize,
		minCap:   minCapacity,
		maxCap:   maxCapacity,
		features: featureSize,
		actions:  actionSize,
	}, nil
}

// BatchSize returns the number of transitions per sampled minibatch
func (c *cache) BatchSize() int {
	return c.batch
}

// Capacity returns the current number of transitions in the cache
func (c *cache) Capacity() int {
	return c.inUse
}

// MaxCapacity returns the maximum number of transitions the cache can
// hold
func (c *cache) MaxCapacity() int {
	return c.maxCap
}

// MinCapacity returns the number of transitions required in the cache
// before sampling is allowed
func (c *cache) MinCapacity() int {
	return c.minCap
}

// Add adds a transition to the cache, overwriting the oldest stored
// transition when the cache is full.
func (c *cache) Add(state, actions []float64, reward, discount float64,
	nextState []float64) error {
	if len(state) != c.features || len(nextState) != c.features {
		return fmt.Errorf("add: invalid feature size \n\twant(%v)"+
			"\n\thave(%v)", c.features, len(state))
	}
	if len(actions) != c.actions {
		return fmt.Errorf("add: invalid action size \n\twant(%v)"+
			"\n\thave(%v)", c.actions, len(actions))
	}

	index := c.next
	copy(c.stateCache[index*c.features:(index+1)*c.features], state)
	copy(c.nextStateCache[index*c.features:(index+1)*c.features],
		nextState)
	copy(c.actionCache[index*c.actions:(index+1)*c.actions], actions)
	c.rewardCache[index] = reward
	c.discountCache[index] = discount

	c.next = (c.next + 1) % c.maxCap
	if c.inUse < c.maxCap {
		c.inUse++
	}
	return nil
}

// Sample samples a uniformly random minibatch of transitions from the
// cache.
func (c *cache) Sample() ([]float64, []float64, []float64, []float64,
	[]float64, error) {
	if c.inUse == 0 {
		return nil, nil, nil, nil, nil, &ExpReplayError{
			Op:  "sample",
			Err: errEmptyCache,
		}
	}
	if c.inUse < c.minCap {
		return nil, nil, nil, nil, nil, &ExpReplayError{
			Op:  "sample",
			Err: errInsufficientSamples,
		}
	}

	states := make([]float64, c.batch*c.features)
	nextStates := make([]float64, c.batch*c.features)
	actions := make([]float64, c.batch*c.actions)
	rewards := make([]float64, c.batch)
	discounts := make([]float64, c.batch)

	for i := 0; i < c.batch; i++ {
		index := c.rng.Intn(c.inUse)

		copy(states[i*c.features:(i+1)*c.features],
			c.stateCache[index*c.features:(index+1)*c.features])
		copy(nextStates[i*c.features:(i+1)*c.features],
			c.nextStateCache[index*c.features:(index+1)*c.features])
		copy(actions[i*c.actions:(i+1)*c.actions],
			c.actionCache[index*c.actions:(index+1)*c.actions])
		rewards[i] = c.rewardCache[index]
		discounts[i] = c.discountCache[index]
	}

	return states, actions, rewards, discounts, nextStates, nil
}
