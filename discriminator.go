package gan_utils

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// DiscriminatorNet Discriminator backed by Network on gorgonia's evaluation graph. It scores batches produced by BatchAssembler.
//
// Network must output exactly one value per sample: probability of sample being real
//
type DiscriminatorNet struct {
	runner *graphRunner
}

// NewDiscriminatorNet Initializes feedforward of provided network for input (batchSize, sampleShape...) and prepares tape machine
func NewDiscriminatorNet(g *gorgonia.ExprGraph, net *Network, batchSize int, sampleShape ...int) (*DiscriminatorNet, error) {
	runner, err := newGraphRunner(g, net, "discriminator", batchSize, sampleShape...)
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare Discriminator")
	}
	return &DiscriminatorNet{runner: runner}, nil
}

// Score Returns one score per sample of provided batch
func (net *DiscriminatorNet) Score(batch *Batch) ([]float64, error) {
	out, err := net.runner.run(batch.Data)
	if err != nil {
		return nil, errors.Wrap(err, "[Discriminator]")
	}
	scores, err := float64Backing(out)
	if err != nil {
		return nil, errors.Wrap(err, "[Discriminator]")
	}
	if len(scores) != batch.Length {
		return nil, fmt.Errorf("[Discriminator] Expected %d scores, but got %d (output shape %v)", batch.Length, len(scores), out.Shape())
	}
	return scores, nil
}

// Classify Turns scores into classes: 1 (real) when score >= threshold, 0 (fake) otherwise
func Classify(scores []float64, threshold float64) []int {
	classes := make([]int, len(scores))
	for i, s := range scores {
		if s >= threshold {
			classes[i] = 1
		}
	}
	return classes
}

// LabelsToClasses Turns (n, 1) labels of Batch into classes: 1 (real), 0 (fake)
func LabelsToClasses(labels *tensor.Dense) ([]int, error) {
	data, err := float64Backing(labels)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read labels")
	}
	return Classify(data, 0.5), nil
}

// Learnables Returns learnables nodes
func (net *DiscriminatorNet) Learnables() gorgonia.Nodes {
	return net.runner.net.Learnables()
}

// Close Releases tape machine
func (net *DiscriminatorNet) Close() error {
	return net.runner.close()
}
