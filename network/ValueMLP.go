package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// valueMLP implements a multi-layered perceptron whose output row is
// partitioned into one contiguous block per action component. Block i
// holds the flat value logits for component i: one value per element
// of the component and per discrete choice of that element.
type valueMLP struct {
	g         *G.ExprGraph
	layers    []Layer
	input     *G.Node
	blocks    []int
	numInputs int
	batchSize int

	hiddenSizes []int
	biases      []bool
	activations []*Activation

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// NewValueMLP creates and returns a new multi-layered perceptron whose
// output is partitioned into one block per action component, where
// blocks[i] is the width of component i's block. The graph g is
// populated with the network.
//
// The network has len(hiddenSizes) hidden layers plus a final linear
// layer of width equal to the sum of all block widths. The final
// layer always has a bias unit and no activation. For index i,
// hiddenSizes[i] is the number of nodes in hidden layer i, biases[i]
// determines whether hidden layer i has a bias unit, and
// activations[i] is the activation function of hidden layer i.
func NewValueMLP(features, batch int, blocks []int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*Activation) (ValueNet, error) {
	// Ensure we have one activation per layer
	if len(hiddenSizes) != len(activations) {
		msg := "newvaluemlp: invalid number of activations" +
			"\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}

	// Ensure one bias bool per layer
	if len(hiddenSizes) != len(biases) {
		msg := "newvaluemlp: invalid number of biases\n\twant(%d)" +
			"\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(biases))
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("newvaluemlp: no output blocks given")
	}
	outputs := 0
	for i, width := range blocks {
		if width < 1 {
			return nil, fmt.Errorf("newvaluemlp: illegal width of "+
				"block %v \n\twant(>= 1) \n\thave(%v)", i, width)
		}
		outputs += width
	}

	// Set up the input node
	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Add a final linear layer with a bias unit and no activation so
	// that the network always predicts one value per block entry
	sizes := append([]int{}, hiddenSizes...)
	sizes = append(sizes, outputs)
	layerBiases := append([]bool{}, biases...)
	layerBiases = append(layerBiases, true)
	layerActivations := append([]*Activation{}, activations...)
	layerActivations = append(layerActivations, Identity())

	layers := addfcLayers(g, sizes, layerBiases, layerActivations, init,
		features, "")

	network := valueMLP{
		g:           g,
		layers:      layers,
		input:       input,
		blocks:      append([]int{}, blocks...),
		numInputs:   features,
		batchSize:   batch,
		hiddenSizes: sizes,
		biases:      layerBiases,
		activations: layerActivations,
	}
	if err := network.fwd(input); err != nil {
		msg := "newvaluemlp: could not compute forward pass: %v"
		return nil, fmt.Errorf(msg, err)
	}

	return &network, nil
}

// Graph returns the computational graph of the valueMLP
func (v *valueMLP) Graph() *G.ExprGraph {
	return v.g
}

// Clone clones a valueMLP
func (v *valueMLP) Clone() (NeuralNet, error) {
	return v.CloneWithBatch(v.batchSize)
}

// CloneWithBatch clones a valueMLP with a new input batch size. The
// clone lives on its own computational graph.
func (v *valueMLP) CloneWithBatch(batchSize int) (NeuralNet, error) {
	graph := G.NewGraph()

	input := G.NewMatrix(
		graph,
		tensor.Float64,
		G.WithShape(batchSize, v.numInputs),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	layers := make([]Layer, len(v.layers))
	for i := range v.layers {
		layers[i] = v.layers[i].CloneTo(graph)
	}

	network := valueMLP{
		g:           graph,
		layers:      layers,
		input:       input,
		blocks:      append([]int{}, v.blocks...),
		numInputs:   v.numInputs,
		batchSize:   batchSize,
		hiddenSizes: v.hiddenSizes,
		biases:      v.biases,
		activations: v.activations,
	}
	if err := network.fwd(input); err != nil {
		msg := "clonewithbatch: could not compute forward pass: %v"
		return nil, fmt.Errorf(msg, err)
	}

	return &network, nil
}

// BatchSize returns the number of input rows the network consumes per
// forward pass
func (v *valueMLP) BatchSize() int {
	return v.batchSize
}

// Features returns the number of features in a single input row
func (v *valueMLP) Features() int {
	return v.numInputs
}

// Outputs returns the total width of the network output row
func (v *valueMLP) Outputs() int {
	outputs := 0
	for _, width := range v.blocks {
		outputs += width
	}
	return outputs
}

// Blocks returns the width of each component's output block
func (v *valueMLP) Blocks() []int {
	blocks := make([]int, len(v.blocks))
	copy(blocks, v.blocks)
	return blocks
}

// Block returns the slice of a single example's output row that
// belongs to block i
func (v *valueMLP) Block(row []float64, i int) []float64 {
	start := 0
	for _, width := range v.blocks[:i] {
		start += width
	}
	return row[start : start+v.blocks[i]]
}

// SetInput sets the value of the input node before running the forward
// pass.
func (v *valueMLP) SetInput(input []float64) error {
	if len(input) != v.numInputs*v.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs"+
			"\n\twant(%v)\n\thave(%v)", v.numInputs*v.batchSize,
			len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(v.input.Shape()...),
	)
	return G.Let(v.input, inputTensor)
}

// Set sets the weights of a valueMLP to be equal to the weights of
// another NeuralNet
func (v *valueMLP) Set(source NeuralNet) error {
	sourceNodes := source.Learnables()
	nodes := v.Learnables()
	for i, destLearnable := range nodes {
		sourceLearnable := sourceNodes[i].Clone()
		err := G.Let(destLearnable, sourceLearnable.(*G.Node).Value())
		if err != nil {
			return err
		}
	}
	return nil
}

// Polyak sets the weights of a valueMLP to be a polyak average between
// its existing weights and the weights of another NeuralNet
func (v *valueMLP) Polyak(source NeuralNet, tau float64) error {
	sourceNodes := source.Learnables()
	nodes := v.Learnables()
	for i := range nodes {
		weights := nodes[i].Value().(*tensor.Dense)
		sourceWeights := sourceNodes[i].Value().(*tensor.Dense)

		weights, err := weights.MulScalar(1-tau, true)
		if err != nil {
			return err
		}

		sourceWeights, err = sourceWeights.MulScalar(tau, true)
		if err != nil {
			return err
		}

		var newWeights *tensor.Dense
		newWeights, err = weights.Add(sourceWeights)
		if err != nil {
			return err
		}

		err = G.Let(nodes[i], newWeights)
		if err != nil {
			return err
		}
	}
	return nil
}

// Learnables returns the learnable nodes in a valueMLP
func (v *valueMLP) Learnables() G.Nodes {
	// Lazy instantiation
	if v.learnables == nil {
		v.learnables = v.computeLearnables()
	}
	return v.learnables
}

// computeLearnables computes all the learnables for the network
func (v *valueMLP) computeLearnables() G.Nodes {
	learnables := make([]*G.Node, 0, 2*len(v.layers))
	for i := range v.layers {
		learnables = append(learnables, v.layers[i].Weights())
		if bias := v.layers[i].Bias(); bias != nil {
			learnables = append(learnables, bias)
		}
	}
	return G.Nodes(learnables)
}

// Model returns the learnable nodes with their gradients
func (v *valueMLP) Model() []G.ValueGrad {
	// Lazy instantiation
	if v.model == nil {
		v.model = v.computeModel()
	}
	return v.model
}

// computeModel computes the model for the network
func (v *valueMLP) computeModel() []G.ValueGrad {
	model := make([]G.ValueGrad, 0, 2*len(v.layers))
	for _, node := range v.Learnables() {
		model = append(model, node)
	}
	return model
}

// fwd performs the forward pass of the valueMLP on the input node
func (v *valueMLP) fwd(input *G.Node) error {
	pred := input
	var err error
	for i, l := range v.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return fmt.Errorf(msg, i, err)
		}
	}

	v.prediction = pred
	G.Read(v.prediction, &v.predVal)
	return nil
}

// Output returns the output of the valueMLP from the last run of its
// graph
func (v *valueMLP) Output() G.Value {
	return v.predVal
}

// Prediction returns the node of the computational graph that stores
// the output of the valueMLP
func (v *valueMLP) Prediction() *G.Node {
	return v.prediction
}
