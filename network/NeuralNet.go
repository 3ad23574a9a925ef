// Package network implements feedforward neural network function
// approximators using Gorgonia. Networks populate a gorgonia.ExprGraph
// with their forward pass; an external VM runs the graph, after which
// the network's output can be read. The VM should always be run after
// setting the network input and before reading the output.
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a feedforward function approximator on a Gorgonia
// graph.
type NeuralNet interface {
	Graph() *G.ExprGraph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int
	SetInput([]float64) error
	Set(NeuralNet) error
	Polyak(NeuralNet, float64) error
	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}

// ValueNet is a NeuralNet whose output is partitioned into one block
// per action component. Block i holds the flat value logits of the
// i'th component, and the blocks are laid out contiguously in the
// network output in component order.
type ValueNet interface {
	NeuralNet

	// Blocks returns the width of each component's output block
	Blocks() []int

	// Block returns the slice of a single example's output row that
	// belongs to block i
	Block(row []float64, i int) []float64
}

// Layer is one layer of a NeuralNet
type Layer interface {
	fwd(*G.Node) (*G.Node, error)
	CloneTo(*G.ExprGraph) Layer
	Weights() *G.Node
	Bias() *G.Node
	Activation() *Activation
}
